package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/qqdb/molstar"
)

// Runner drives build scripts through a plugin using provided IO.
// This allows for easy testing and integration with different frontends
// (CLI, TUI, services).
type Runner struct {
	plugin *molstar.Plugin

	// Handler is the strategy for output. If nil, a TextHandler on
	// Stdout is used.
	Handler OutputHandler

	// Logger is used for internal debug logging. If nil, a no-op
	// logger is used.
	Logger *slog.Logger
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithHandler configures a custom output handler.
func WithHandler(h OutputHandler) Option {
	return func(r *Runner) {
		r.Handler = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// NewRunner creates a Runner bound to the given plugin.
func NewRunner(plugin *molstar.Plugin, opts ...Option) *Runner {
	r := &Runner{plugin: plugin}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdout)
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Run compiles the script and commits the resulting tree, then reports
// the settled cells through the handler. A failed commit is reported
// too; the returned error is the commit error.
func (r *Runner) Run(ctx context.Context, script []byte) error {
	r.Logger.Debug("Running build script", "bytes", len(script))

	err := r.plugin.BuildScript(ctx, script)
	if err != nil {
		r.Logger.Error("Build failed", "err", err)
	}

	if repErr := r.Handler.Report(ctx, r.plugin.Cells(), err); repErr != nil {
		if err == nil {
			return fmt.Errorf("report error: %w", repErr)
		}
		r.Logger.Warn("Report failed after build error", "err", repErr)
	}
	return err
}

// RunFile reads the script at path and runs it.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read build script: %w", err)
	}
	return r.Run(ctx, script)
}
