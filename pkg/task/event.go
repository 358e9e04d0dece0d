package task

import "time"

// EventType categorizes task lifecycle events.
type EventType string

const (
	EventStarted    EventType = "started"
	EventProgressed EventType = "progressed"
	EventFinished   EventType = "finished"
)

// Event describes one observable moment in a task run. Finished events carry
// the run's error (nil on success) and total elapsed time.
type Event struct {
	Type   EventType
	TaskID uint64
	Task   string

	// Progress payload (EventProgressed).
	Message       string
	Current       int
	Max           int
	Indeterminate bool

	// Completion payload (EventFinished).
	Err     error
	Elapsed time.Duration
}

// Observer receives task events. Observers run synchronously on the task's
// goroutine and must be fast; offload heavy work to a channel.
type Observer func(Event)

// Tee fans one event out to several observers, skipping nils.
func Tee(obs ...Observer) Observer {
	return func(e Event) {
		for _, o := range obs {
			if o != nil {
				o(e)
			}
		}
	}
}
