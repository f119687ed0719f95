// Package logging builds the hclog loggers shared by daycount commands.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name.
const Name = "daycount"

// Options controls logger construction.
type Options struct {
	Verbose bool
	Quiet   bool
	Output  io.Writer
	JSON    bool
}

// Level returns the level implied by the verbose and quiet flags. Quiet
// wins when both are set.
func (o Options) Level() hclog.Level {
	switch {
	case o.Quiet:
		return hclog.Error
	case o.Verbose:
		return hclog.Debug
	default:
		return hclog.Info
	}
}

// New returns the root logger. Output defaults to stderr.
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       Name,
		Output:     out,
		Level:      opts.Level(),
		JSONFormat: opts.JSON,
	})
}

// Discard returns a logger that drops everything.
func Discard() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   Name,
		Output: io.Discard,
		Level:  hclog.Off,
	})
}
