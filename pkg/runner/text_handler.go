package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/task"
)

// TextHandler implements the standard text-based interface: progress
// lines while tasks run, a markdown cell table once the tree settles.
type TextHandler struct {
	Writer   io.Writer
	Renderer ContentRenderer

	// Quiet suppresses progress lines; the report still prints.
	Quiet bool

	// Progress and Report share the writer; hosts may deliver observer
	// events from the commit goroutine.
	mu sync.Mutex
}

// NewTextHandler creates a handler for standard text output.
func NewTextHandler(w io.Writer) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	return &TextHandler{Writer: w}
}

func (h *TextHandler) Progress(ev task.Event) {
	if h.Quiet || ev.Type != task.EventProgressed || ev.Message == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if ev.Indeterminate {
		fmt.Fprintf(h.Writer, ">>> %s\n", ev.Message)
		return
	}
	fmt.Fprintf(h.Writer, ">>> %s (%d/%d)\n", ev.Message, ev.Current, ev.Max)
}

func (h *TextHandler) Report(ctx context.Context, cells []domain.Cell, buildErr error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if buildErr != nil {
		fmt.Fprintf(h.Writer, ">>> Build failed: %v\n", buildErr)
	}

	output := renderCellTable(cells)
	if h.Renderer != nil {
		if rendered, err := h.Renderer(output); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(output))
	return err
}

// renderCellTable formats the cells as a markdown table, so the same
// string works raw in pipes and rendered in a TTY.
func renderCellTable(cells []domain.Cell) string {
	var b strings.Builder
	b.WriteString("| Ref | Status | Kind | Label |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, cell := range cells {
		label := ""
		if cell.Object != nil {
			label = cell.Object.Label
		}
		if cell.Status == domain.StatusError && cell.Err != "" {
			label = cell.Err
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			escapePipes(string(cell.Transform.Ref)),
			cell.Status,
			cell.Kind(),
			escapePipes(label),
		)
	}
	return b.String()
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
