package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/qqdb/molstar/internal/dto"
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/task"
)

// JSONHandler implements structured output: one JSON object per line,
// discriminated by a "type" field. Machine consumers (editors, CI)
// parse this instead of scraping the text mode.
type JSONHandler struct {
	enc *json.Encoder
	mu  sync.Mutex
}

// NewJSONHandler creates a handler emitting line-delimited JSON.
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{enc: json.NewEncoder(w)}
}

type jsonTaskLine struct {
	Type          string `json:"type"`
	Event         string `json:"event"`
	Task          string `json:"task"`
	Message       string `json:"message,omitempty"`
	Current       int    `json:"current,omitempty"`
	Max           int    `json:"max,omitempty"`
	Indeterminate bool   `json:"indeterminate,omitempty"`
	Error         string `json:"error,omitempty"`
	ElapsedMs     int64  `json:"elapsed_ms,omitempty"`
}

type jsonReportLine struct {
	Type  string            `json:"type"`
	Error string            `json:"error,omitempty"`
	Cells []dto.CellSummary `json:"cells"`
}

func (h *JSONHandler) Progress(ev task.Event) {
	line := jsonTaskLine{
		Type:          "task",
		Event:         string(ev.Type),
		Task:          ev.Task,
		Message:       ev.Message,
		Current:       ev.Current,
		Max:           ev.Max,
		Indeterminate: ev.Indeterminate,
		ElapsedMs:     ev.Elapsed.Milliseconds(),
	}
	if ev.Err != nil {
		line.Error = ev.Err.Error()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	// Encoding into a line buffer cannot fail for these types; a broken
	// pipe surfaces on the final report instead.
	_ = h.enc.Encode(line)
}

func (h *JSONHandler) Report(ctx context.Context, cells []domain.Cell, buildErr error) error {
	line := jsonReportLine{
		Type:  "report",
		Cells: dto.SummarizeCells(cells),
	}
	if buildErr != nil {
		line.Error = buildErr.Error()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enc.Encode(line)
}
