package surface

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/daycount/internal/version"
	"github.com/jmylchreest/daycount/pkg/plugin"
)

// Host serves a Surface over the plugin RPC contract. Jobs are tracked by
// ID until released.
type Host struct {
	surface Surface
	logger  hclog.Logger

	next atomic.Uint64
	mu   sync.Mutex
	jobs map[string]Job
}

// NewHost wraps s for serving.
func NewHost(s Surface, logger hclog.Logger) *Host {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Host{surface: s, logger: logger, jobs: make(map[string]Job)}
}

// Load implements plugin.Surface.
func (h *Host) Load(data []byte) (string, error) {
	p, err := ParseProgram(data)
	if err != nil {
		return "", err
	}
	job, err := h.surface.Load(context.Background(), p)
	if err != nil {
		return "", err
	}

	id := strconv.FormatUint(h.next.Add(1), 10)
	h.mu.Lock()
	h.jobs[id] = job
	h.mu.Unlock()
	h.logger.Debug("job started", "id", id, "kind", p.Kind)
	return id, nil
}

// Poll implements plugin.Surface.
func (h *Host) Poll(id string) (plugin.PollResult, error) {
	job, err := h.job(id)
	if err != nil {
		return plugin.PollResult{}, err
	}
	result, ok, err := job.Poll(context.Background())
	switch {
	case !ok:
		return plugin.PollResult{}, nil
	case err != nil:
		return plugin.PollResult{Ready: true, Error: err.Error()}, nil
	default:
		return plugin.PollResult{Ready: true, Result: result}, nil
	}
}

// Release implements plugin.Surface.
func (h *Host) Release(id string) error {
	h.mu.Lock()
	job, ok := h.jobs[id]
	delete(h.jobs, id)
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", id)
	}
	job.Close()
	h.logger.Debug("job released", "id", id)
	return nil
}

// GetMetadata implements plugin.Surface.
func (h *Host) GetMetadata() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:            "daycount-surface",
		Version:         version.Version,
		ProtocolVersion: plugin.ProtocolVersion,
		Description:     "Palette extraction and gradient rendering surface",
	}
}

// Jobs returns the number of unreleased jobs.
func (h *Host) Jobs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.jobs)
}

func (h *Host) job(id string) (Job, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	job, ok := h.jobs[id]
	if !ok {
		return nil, fmt.Errorf("unknown job %q", id)
	}
	return job, nil
}
