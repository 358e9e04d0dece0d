package cli

import (
	"context"
	"fmt"

	"github.com/qqdb/molstar/internal/presentation/tui"
	"github.com/qqdb/molstar/pkg/runner"
)

// RunBuild executes a single build of the script: compile, commit,
// report, and optionally persist the settled tree as a session.
func RunBuild(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	if opts.interactive() {
		tui.PrintBanner()
	}

	handler := createHandler(opts)
	plugin, err := createPlugin(opts, logger, handler)
	if err != nil {
		return err
	}

	// Setup signal handling
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if opts.Fresh {
		if err := plugin.Sessions().Delete(sigCtx, opts.SessionID); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
		logger.Info("Session Reset", "session_id", opts.SessionID)
	}

	r := runner.NewRunner(plugin,
		runner.WithHandler(handler),
		runner.WithLogger(logger),
	)
	runErr := r.RunFile(sigCtx, opts.ScriptPath)

	if runErr == nil && opts.SessionID != "" {
		if err := plugin.SaveSession(sigCtx, opts.SessionID); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		logger.Info("Session Saved", "session_id", opts.SessionID)
		if !opts.JSON && !opts.Quiet {
			printSystemMessage("Session '%s' saved.", opts.SessionID)
		}
	}

	// If the context was canceled (signal received), ensure runErr
	// reflects it if it doesn't already.
	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}

	logCompletion(runErr, opts.JSON || opts.Quiet, sigCtx.Signal())

	return handleExecutionError(runErr)
}
