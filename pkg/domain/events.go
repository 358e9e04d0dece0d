package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCellCreated       EventType = "cell_created"
	EventCellUpdated       EventType = "cell_updated"
	EventCellRemoved       EventType = "cell_removed"
	EventCellStatusChanged EventType = "cell_status_changed"
	EventTreeUpdated       EventType = "tree_updated"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// CellEvent reports a lifecycle change of a single cell.
type CellEvent struct {
	EventBase
	Ref         Ref        `json:"ref"`
	Parent      Ref        `json:"parent,omitempty"`
	Transformer string     `json:"transformer,omitempty"`
	Status      CellStatus `json:"status,omitempty"`
	Err         string     `json:"error,omitempty"`
}

// TreeEvent reports the completion of a whole tree update, successful or
// rolled back.
type TreeEvent struct {
	EventBase
	Changed    []Ref `json:"changed,omitempty"`
	Removed    []Ref `json:"removed,omitempty"`
	RolledBack bool  `json:"rolled_back,omitempty"`
}

// LifecycleHooks defines callbacks for runtime observability. All hooks
// are optional and run synchronously inside the update; keep them fast.
type LifecycleHooks struct {
	OnCellCreated   func(context.Context, *CellEvent)
	OnCellUpdated   func(context.Context, *CellEvent)
	OnCellRemoved   func(context.Context, *CellEvent)
	OnStatusChanged func(context.Context, *CellEvent)
	OnTreeUpdated   func(context.Context, *TreeEvent)
}
