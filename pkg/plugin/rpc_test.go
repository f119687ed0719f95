package plugin

import (
	"errors"
	"net"
	"net/rpc"
	"sync"
	"testing"
)

// mockSurface records calls and returns canned results.
type mockSurface struct {
	mu       sync.Mutex
	programs [][]byte
	released []string
	result   PollResult
	loadErr  error
}

func (m *mockSurface) Load(program []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return "", m.loadErr
	}
	m.programs = append(m.programs, program)
	return "job-1", nil
}

func (m *mockSurface) Poll(id string) (PollResult, error) {
	if id != "job-1" {
		return PollResult{}, errors.New("unknown job")
	}
	return m.result, nil
}

func (m *mockSurface) Release(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = append(m.released, id)
	return nil
}

func (m *mockSurface) GetMetadata() PluginInfo {
	return PluginInfo{Name: "mock", ProtocolVersion: ProtocolVersion}
}

// connect serves impl on one end of a pipe and returns a client on the other.
func connect(t *testing.T, impl Surface) *SurfaceRPCClient {
	t.Helper()

	server := rpc.NewServer()
	if err := server.RegisterName("Plugin", &SurfaceRPCServer{Impl: impl}); err != nil {
		t.Fatalf("RegisterName() error = %v", err)
	}

	serverConn, clientConn := net.Pipe()
	go server.ServeConn(serverConn)

	client := rpc.NewClient(clientConn)
	t.Cleanup(func() { _ = client.Close() })
	return NewSurfaceRPCClient(client)
}

func TestSurfacePluginRPC(t *testing.T) {
	mock := &mockSurface{}
	p := &SurfacePluginRPC{Impl: mock}

	server, err := p.Server(nil)
	if err != nil {
		t.Fatalf("Server() error = %v", err)
	}
	rpcServer, ok := server.(*SurfaceRPCServer)
	if !ok {
		t.Fatal("Server() returned wrong type")
	}
	if rpcServer.Impl != mock {
		t.Fatal("Server() impl not set correctly")
	}

	client, err := p.Client(nil, nil)
	if err != nil || client == nil {
		t.Fatalf("Client() = %v, %v", client, err)
	}
}

func TestSurfaceRPCRoundTrip(t *testing.T) {
	mock := &mockSurface{result: PollResult{Ready: true, Result: `["#ff0000"]`}}
	client := connect(t, mock)

	id, err := client.Load([]byte(`{"kind":"extract"}`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if id != "job-1" {
		t.Errorf("Load() id = %q, want job-1", id)
	}

	res, err := client.Poll(id)
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if !res.Ready || res.Result != `["#ff0000"]` {
		t.Errorf("Poll() = %+v", res)
	}

	if _, err := client.Poll("missing"); err == nil {
		t.Error("Poll() of unknown job should fail")
	}

	if err := client.Release(id); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if len(mock.released) != 1 || mock.released[0] != "job-1" {
		t.Errorf("released = %v", mock.released)
	}

	if info := client.GetMetadata(); info.Name != "mock" || info.ProtocolVersion != ProtocolVersion {
		t.Errorf("GetMetadata() = %+v", info)
	}

	if len(mock.programs) != 1 || string(mock.programs[0]) != `{"kind":"extract"}` {
		t.Errorf("programs = %q", mock.programs)
	}
}

func TestSurfaceRPCLoadError(t *testing.T) {
	client := connect(t, &mockSurface{loadErr: errors.New("bad program")})
	if _, err := client.Load([]byte(`{}`)); err == nil || err.Error() != "bad program" {
		t.Errorf("Load() error = %v, want bad program", err)
	}
}

func TestRPCError(t *testing.T) {
	err := &RPCError{Message: "boom"}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}
