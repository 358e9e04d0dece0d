package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/qqdb/molstar/internal/presentation/tui"
	"github.com/qqdb/molstar/pkg/runner"
)

// RunOptions contains all the configuration for the build command.
type RunOptions struct {
	ScriptPath string
	Watch      bool
	JSON       bool
	Quiet      bool
	Debug      bool
	SessionID  string // persist the built tree under this session
	Fresh      bool   // delete the session before building
	RedisURL   string // host:port; empty selects the local file store
	StateDir   string // file store directory; empty uses the default
	StateKey   string // hex AES-256 key enabling snapshot encryption
}

// Execute handles the 'build' command logic, dispatching to single-run
// or watch mode.
func Execute(opts RunOptions) error {
	if opts.Fresh && opts.SessionID == "" {
		return fmt.Errorf("--fresh requires --session")
	}
	if opts.Watch {
		return RunWatch(opts)
	}
	return RunBuild(opts)
}

// interactive reports whether the run should show the banner and
// rendered output: a human terminal, not a pipe or a machine mode.
func (o RunOptions) interactive() bool {
	return !o.JSON && !o.Quiet && tui.IsTerminal()
}

// createHandler selects the output strategy for the run.
func createHandler(opts RunOptions) runner.OutputHandler {
	if opts.JSON {
		return runner.NewJSONHandler(os.Stdout)
	}
	h := runner.NewTextHandler(os.Stdout)
	h.Quiet = opts.Quiet
	if opts.interactive() {
		h.Renderer = tui.NewRenderer()
	}
	return h
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

func handleExecutionError(err error) error {
	if err == nil {
		return nil
	}
	if isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}
