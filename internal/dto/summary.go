package dto

import "github.com/qqdb/molstar/pkg/domain"

// CellSummary is the JSON shape adapters serve for one cell. Payloads stay
// server-side; clients see the kind and the labels, not the data.
type CellSummary struct {
	Ref         string   `json:"ref"`
	Parent      string   `json:"parent"`
	Transformer string   `json:"transformer"`
	Status      string   `json:"status"`
	Kind        string   `json:"kind"`
	Label       string   `json:"label,omitempty"`
	Description string   `json:"description,omitempty"`
	Error       string   `json:"error,omitempty"`
	Version     uint64   `json:"version"`
	Tags        []string `json:"tags,omitempty"`
}

// SummarizeCell flattens a cell for transport.
func SummarizeCell(c domain.Cell) CellSummary {
	s := CellSummary{
		Ref:         string(c.Transform.Ref),
		Parent:      string(c.Transform.Parent),
		Transformer: c.Transform.Transformer,
		Status:      string(c.Status),
		Kind:        string(c.Kind()),
		Error:       c.Err,
		Version:     c.Version,
		Tags:        c.Transform.Tags,
	}
	if c.Object != nil {
		s.Label = c.Object.Label
		s.Description = c.Object.Description
	}
	return s
}

// SummarizeCells maps a cell listing into transport shape, preserving order.
func SummarizeCells(cells []domain.Cell) []CellSummary {
	out := make([]CellSummary, len(cells))
	for i, c := range cells {
		out[i] = SummarizeCell(c)
	}
	return out
}
