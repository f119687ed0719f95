package plugin

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// SurfacePluginRPC implements the go-plugin Plugin interface for surfaces.
type SurfacePluginRPC struct {
	plugin.Plugin
	Impl Surface
}

// Server returns an RPC server for this plugin.
func (p *SurfacePluginRPC) Server(*plugin.MuxBroker) (any, error) {
	return &SurfaceRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *SurfacePluginRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &SurfaceRPCClient{client: c}, nil
}

// SurfaceRPCServer is the RPC server implementation for surfaces.
type SurfaceRPCServer struct {
	Impl Surface
}

// Load implements the RPC method for starting a program.
func (s *SurfaceRPCServer) Load(program []byte, resp *string) error {
	id, err := s.Impl.Load(program)
	if err != nil {
		return err
	}
	*resp = id
	return nil
}

// Poll implements the RPC method for polling a job.
func (s *SurfaceRPCServer) Poll(id string, resp *PollResult) error {
	result, err := s.Impl.Poll(id)
	if err != nil {
		return err
	}
	*resp = result
	return nil
}

// Release implements the RPC method for discarding a job.
func (s *SurfaceRPCServer) Release(id string, _ *struct{}) error {
	return s.Impl.Release(id)
}

// GetMetadata implements the RPC method for fetching surface metadata.
func (s *SurfaceRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

// SurfaceRPCClient is the RPC client implementation for surfaces.
type SurfaceRPCClient struct {
	client *rpc.Client
}

// NewSurfaceRPCClient wraps an existing RPC connection.
func NewSurfaceRPCClient(c *rpc.Client) *SurfaceRPCClient {
	return &SurfaceRPCClient{client: c}
}

// Load calls the remote Load method.
func (c *SurfaceRPCClient) Load(program []byte) (string, error) {
	var id string
	err := c.client.Call("Plugin.Load", program, &id)
	return id, err
}

// Poll calls the remote Poll method.
func (c *SurfaceRPCClient) Poll(id string) (PollResult, error) {
	var result PollResult
	err := c.client.Call("Plugin.Poll", id, &result)
	return result, err
}

// Release calls the remote Release method.
func (c *SurfaceRPCClient) Release(id string) error {
	return c.client.Call("Plugin.Release", id, new(struct{}))
}

// GetMetadata calls the remote GetMetadata method.
func (c *SurfaceRPCClient) GetMetadata() PluginInfo {
	var info PluginInfo
	if err := c.client.Call("Plugin.GetMetadata", new(any), &info); err != nil {
		return PluginInfo{}
	}
	return info
}

// RPCError represents an error returned from an RPC call.
type RPCError struct {
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}
