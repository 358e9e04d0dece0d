// Package metrics exposes Prometheus collectors for tree and task
// activity. Wire Hooks into the engine and Observer into the task layer,
// then serve the registry with promhttp.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/task"
)

// Collectors bundles the molstar metrics.
type Collectors struct {
	// CellEvents counts cell lifecycle events by event type and
	// transformer.
	CellEvents *prometheus.CounterVec

	// TreeUpdates counts finished tree mutations by outcome.
	TreeUpdates *prometheus.CounterVec

	// TaskDuration observes the wall time of finished tasks by task name.
	TaskDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		CellEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "molstar_cell_events_total",
				Help: "Total number of cell lifecycle events",
			},
			[]string{"event", "transformer"},
		),
		TreeUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "molstar_tree_updates_total",
				Help: "Total number of finished tree updates",
			},
			[]string{"outcome"},
		),
		TaskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "molstar_task_duration_seconds",
				Help: "Duration of task executions",
			},
			[]string{"task"},
		),
	}
	reg.MustRegister(c.CellEvents, c.TreeUpdates, c.TaskDuration)
	return c
}

// Hooks returns lifecycle hooks recording cell and tree activity.
func (c *Collectors) Hooks() domain.LifecycleHooks {
	record := func(event string) func(context.Context, *domain.CellEvent) {
		return func(_ context.Context, e *domain.CellEvent) {
			c.CellEvents.WithLabelValues(event, e.Transformer).Inc()
		}
	}
	return domain.LifecycleHooks{
		OnCellCreated: record("created"),
		OnCellUpdated: record("updated"),
		OnCellRemoved: record("removed"),
		OnTreeUpdated: func(_ context.Context, e *domain.TreeEvent) {
			outcome := "committed"
			if e.RolledBack {
				outcome = "rolled_back"
			}
			c.TreeUpdates.WithLabelValues(outcome).Inc()
		},
	}
}

// Observer returns a task observer timing every finished task.
func (c *Collectors) Observer() task.Observer {
	return func(e task.Event) {
		if e.Type != task.EventFinished {
			return
		}
		c.TaskDuration.WithLabelValues(e.Task).Observe(e.Elapsed.Seconds())
	}
}
