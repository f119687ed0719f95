package surface

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Local runs programs on goroutines in the current process.
type Local struct {
	runner *Runner
	logger hclog.Logger
}

// NewLocal creates an in-process surface.
func NewLocal(runner *Runner, logger hclog.Logger) *Local {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if runner == nil {
		runner = NewRunner(logger)
	}
	return &Local{runner: runner, logger: logger}
}

// Load validates p and starts it in the background.
func (l *Local) Load(ctx context.Context, p Program) (Job, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	job := &localJob{cancel: cancel, done: make(chan struct{})}
	l.logger.Debug("program loaded", "kind", p.Kind)

	go func() {
		defer close(job.done)
		result, err := l.runner.Run(ctx, p)
		job.mu.Lock()
		job.result, job.err = result, err
		job.mu.Unlock()
		if err != nil {
			l.logger.Debug("program failed", "kind", p.Kind, "error", err)
		}
	}()
	return job, nil
}

// Close implements Surface.
func (l *Local) Close() error {
	return nil
}

type localJob struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	result string
	err    error
}

// Poll implements Job.
func (j *localJob) Poll(_ context.Context) (string, bool, error) {
	select {
	case <-j.done:
	default:
		return "", false, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, true, j.err
}

// Close implements Job.
func (j *localJob) Close() {
	j.cancel()
}
