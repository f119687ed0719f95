package surface

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned by Await when a job does not finish within the
// polling budget.
var ErrTimeout = errors.New("surface job timed out")

// Surface accepts programs and runs them asynchronously.
type Surface interface {
	// Load starts running p.
	Load(ctx context.Context, p Program) (Job, error)

	// Close releases the surface.
	Close() error
}

// Job is a running program.
type Job interface {
	// Poll reports the result once available. ok is false while the job is
	// still running. A finished job that failed returns its error.
	Poll(ctx context.Context) (result string, ok bool, err error)

	// Close discards the job.
	Close()
}

// PollOptions bounds how long Await waits.
type PollOptions struct {
	Interval time.Duration
	Attempts int
}

// DefaultPollOptions polls every 100ms for up to 3 seconds.
func DefaultPollOptions() PollOptions {
	return PollOptions{
		Interval: 100 * time.Millisecond,
		Attempts: 30,
	}
}

// Await waits for the job result, sleeping Interval before each of up to
// Attempts polls.
func Await(ctx context.Context, job Job, opts PollOptions) (string, error) {
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultPollOptions().Attempts
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollOptions().Interval
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for range opts.Attempts {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		result, ok, err := job.Poll(ctx)
		if err != nil {
			return "", err
		}
		if ok {
			return result, nil
		}
	}
	return "", ErrTimeout
}

// Run loads p on s, waits for the result and releases the job.
func Run(ctx context.Context, s Surface, p Program, opts PollOptions) (string, error) {
	job, err := s.Load(ctx, p)
	if err != nil {
		return "", err
	}
	defer job.Close()
	return Await(ctx, job, opts)
}
