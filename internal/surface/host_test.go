package surface

import (
	"context"
	"errors"
	"net"
	"net/rpc"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/daycount/pkg/plugin"
)

// connectHost serves a Host over an in-memory RPC connection and returns a
// Plugin surface talking to it.
func connectHost(t *testing.T, host *Host) *Plugin {
	t.Helper()

	server := rpc.NewServer()
	if err := server.RegisterName("Plugin", &plugin.SurfaceRPCServer{Impl: host}); err != nil {
		t.Fatal(err)
	}
	serverConn, clientConn := net.Pipe()
	go server.ServeConn(serverConn)

	client := rpc.NewClient(clientConn)
	t.Cleanup(func() { _ = client.Close() })
	return NewRemote(plugin.NewSurfaceRPCClient(client), nil)
}

func TestPluginOverRPC(t *testing.T) {
	host := NewHost(NewLocal(nil, nil), nil)
	remote := connectHost(t, host)
	defer remote.Close()

	seed := uint64(11)
	prog := GradientProgram(pinkBlue, 10, 10, 2)
	prog.Seed = &seed

	result, err := Run(context.Background(), remote, prog, fastPoll)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.HasPrefix(result, DataURIPrefix) {
		t.Errorf("result does not start with %q", DataURIPrefix)
	}
	if n := host.Jobs(); n != 0 {
		t.Errorf("host still tracks %d jobs after release", n)
	}
}

func TestPluginRemoteFailure(t *testing.T) {
	remote := connectHost(t, NewHost(NewLocal(nil, nil), nil))

	prog := Program{Kind: KindExtract, Image: "aGVsbG8="}
	_, err := Run(context.Background(), remote, prog, fastPoll)
	var rpcErr *plugin.RPCError
	if err == nil || !errors.As(err, &rpcErr) {
		t.Fatalf("Run() error = %v, want RPCError", err)
	}
}

func TestHostUnknownJob(t *testing.T) {
	host := NewHost(NewLocal(nil, nil), nil)
	if _, err := host.Poll("42"); err == nil {
		t.Error("Poll() of unknown job should fail")
	}
	if err := host.Release("42"); err == nil {
		t.Error("Release() of unknown job should fail")
	}
	if _, err := host.Load([]byte(`not json`)); err == nil {
		t.Error("Load() accepted invalid JSON")
	}
}

func TestHostMetadata(t *testing.T) {
	info := NewHost(NewLocal(nil, nil), nil).GetMetadata()
	if info.Name != "daycount-surface" || info.ProtocolVersion != plugin.ProtocolVersion {
		t.Errorf("GetMetadata() = %+v", info)
	}
}

func TestWithChecksum(t *testing.T) {
	var cfg goplugin.ClientConfig
	WithChecksum(nil)(&cfg)
	if cfg.SecureConfig != nil {
		t.Error("WithChecksum(nil) should leave verification disabled")
	}

	sum := make([]byte, 32)
	WithChecksum(sum)(&cfg)
	if cfg.SecureConfig == nil || len(cfg.SecureConfig.Checksum) != 32 || cfg.SecureConfig.Hash == nil {
		t.Fatalf("SecureConfig = %+v", cfg.SecureConfig)
	}
}

func TestNewPluginChecksumMismatch(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "daycount-surface")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := NewPlugin(bin, nil, WithChecksum(make([]byte, 32))); err == nil {
		t.Fatal("NewPlugin() started a binary with a mismatched checksum")
	}
}
