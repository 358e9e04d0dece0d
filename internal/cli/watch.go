package cli

import (
	"context"
	"log/slog"

	"github.com/qqdb/molstar"
	"github.com/qqdb/molstar/internal/presentation/tui"
	"github.com/qqdb/molstar/pkg/runner"
)

// RunWatch executes molstar in development mode, rebuilding the tree
// whenever the build script changes.
func RunWatch(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	if opts.interactive() {
		tui.PrintBanner()
	}

	handler := createHandler(opts)
	plugin, err := createPlugin(opts, logger, handler)
	if err != nil {
		return err
	}

	if opts.Fresh {
		if err := plugin.Sessions().Delete(context.Background(), opts.SessionID); err != nil {
			logger.Warn("Failed to reset session", "session_id", opts.SessionID, "err", err)
		}
	}

	logger.Info("Starting Watcher", "path", opts.ScriptPath, "session_id", opts.SessionID)
	if !opts.JSON && !opts.Quiet {
		printSystemMessage("Watching '%s'.", opts.ScriptPath)
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	// Persist every committed rebuild when a session is named, so the
	// hot-reload session survives restarts.
	if opts.SessionID != "" {
		go persistOnUpdate(sigCtx, plugin, opts.SessionID, logger)
	}

	r := runner.NewRunner(plugin,
		runner.WithHandler(handler),
		runner.WithLogger(logger),
	)
	runErr := r.Watch(sigCtx, opts.ScriptPath)

	logger.Info("Stopping watcher", "signal", sigCtx.Signal())
	if sigCtx.Err() != nil && runErr == nil {
		runErr = context.Canceled
	}
	logCompletion(runErr, opts.JSON || opts.Quiet, sigCtx.Signal())

	return handleExecutionError(runErr)
}

// persistOnUpdate saves the session after every tree update that was
// not rolled back. Rollbacks restore the previous snapshot, which is
// the one already saved.
func persistOnUpdate(ctx context.Context, plugin *molstar.Plugin, sessionID string, logger *slog.Logger) {
	for ev := range plugin.Watch(ctx) {
		if ev.RolledBack {
			continue
		}
		if err := plugin.SaveSession(ctx, sessionID); err != nil {
			logger.Warn("Failed to save session", "session_id", sessionID, "err", err)
		} else {
			logger.Debug("Session saved", "session_id", sessionID)
		}
	}
}
