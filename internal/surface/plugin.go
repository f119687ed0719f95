package surface

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/daycount/pkg/plugin"
)

// Plugin runs programs in a daycount-surface child process over go-plugin
// net/rpc.
type Plugin struct {
	client *goplugin.Client
	remote plugin.Surface
	logger hclog.Logger
}

// PluginOption configures NewPlugin.
type PluginOption func(*goplugin.ClientConfig)

// WithChecksum makes the client refuse to start a binary whose SHA-256
// digest differs from sum.
func WithChecksum(sum []byte) PluginOption {
	return func(c *goplugin.ClientConfig) {
		if len(sum) == 0 {
			return
		}
		c.SecureConfig = &goplugin.SecureConfig{Checksum: sum, Hash: sha256.New()}
	}
}

// NewPlugin launches the surface binary at path and connects to it.
func NewPlugin(path string, logger hclog.Logger, opts ...PluginOption) (*Plugin, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	cfg := &goplugin.ClientConfig{
		HandshakeConfig: plugin.Handshake,
		Plugins: map[string]goplugin.Plugin{
			plugin.PluginName: &plugin.SurfacePluginRPC{},
		},
		Cmd:              exec.Command(path),
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           logger,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	client := goplugin.NewClient(cfg)

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(plugin.PluginName)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense surface: %w", err)
	}

	remote, ok := raw.(plugin.Surface)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("unexpected surface type %T", raw)
	}

	info := remote.GetMetadata()
	logger.Debug("surface connected", "name", info.Name, "version", info.Version, "protocol", info.ProtocolVersion)
	if info.ProtocolVersion != plugin.ProtocolVersion {
		client.Kill()
		return nil, fmt.Errorf("incompatible surface protocol %q, want %q", info.ProtocolVersion, plugin.ProtocolVersion)
	}

	return &Plugin{client: client, remote: remote, logger: logger}, nil
}

// NewRemote wraps an already connected surface. Close does not terminate
// any process.
func NewRemote(remote plugin.Surface, logger hclog.Logger) *Plugin {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Plugin{remote: remote, logger: logger}
}

// Load implements Surface.
func (p *Plugin) Load(ctx context.Context, prog Program) (Job, error) {
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := prog.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode program: %w", err)
	}
	id, err := p.remote.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load program: %w", err)
	}
	return &remoteJob{id: id, surface: p}, nil
}

// Close terminates the surface process.
func (p *Plugin) Close() error {
	if p.client != nil {
		p.client.Kill()
		p.client = nil
	}
	return nil
}

type remoteJob struct {
	id      string
	surface *Plugin
}

// Poll implements Job.
func (j *remoteJob) Poll(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	res, err := j.surface.remote.Poll(j.id)
	if err != nil {
		return "", false, fmt.Errorf("failed to poll job %s: %w", j.id, err)
	}
	if !res.Ready {
		return "", false, nil
	}
	if res.Error != "" {
		return "", true, &plugin.RPCError{Message: res.Error}
	}
	return res.Result, true, nil
}

// Close implements Job.
func (j *remoteJob) Close() {
	if err := j.surface.remote.Release(j.id); err != nil {
		j.surface.logger.Debug("failed to release job", "id", j.id, "error", err)
	}
}
