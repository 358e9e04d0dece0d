package runner

import (
	"context"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/task"
)

// ContentRenderer is a function that transforms report markdown before
// outputting it. This allows for TUI rendering (markdown to ANSI)
// without coupling the package to a terminal library.
type ContentRenderer func(string) (string, error)

// OutputHandler defines the strategy for presenting a run to the host.
// This allows switching between Text (CLI/TUI) and JSON (structured)
// modes.
type OutputHandler interface {
	// Progress presents a task event while a commit is running. It is
	// called from the engine's task observer; keep it fast.
	Progress(ev task.Event)

	// Report presents the settled tree after a commit attempt. err is
	// the commit error, nil on success; cells is the live tree either
	// way.
	Report(ctx context.Context, cells []domain.Cell, err error) error
}

// Observer adapts a handler's Progress method to the task observer the
// plugin expects. Register it with molstar.WithObserver.
func Observer(h OutputHandler) task.Observer {
	if h == nil {
		return nil
	}
	return h.Progress
}
