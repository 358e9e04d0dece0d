package observability

import (
	"context"

	"github.com/qqdb/molstar/pkg/domain"
)

// MergeHooks combines multiple lifecycle hook sets into a single view.
// The engine accepts one set; merging lets logging, metrics and event
// streams observe the same tree without knowing about each other. Hooks
// run in argument order.
func MergeHooks(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCellCreated:   mergeCell(hooks, func(h domain.LifecycleHooks) cellHook { return h.OnCellCreated }),
		OnCellUpdated:   mergeCell(hooks, func(h domain.LifecycleHooks) cellHook { return h.OnCellUpdated }),
		OnCellRemoved:   mergeCell(hooks, func(h domain.LifecycleHooks) cellHook { return h.OnCellRemoved }),
		OnStatusChanged: mergeCell(hooks, func(h domain.LifecycleHooks) cellHook { return h.OnStatusChanged }),
		OnTreeUpdated:   mergeTree(hooks),
	}
}

type cellHook func(context.Context, *domain.CellEvent)

func mergeCell(hooks []domain.LifecycleHooks, pick func(domain.LifecycleHooks) cellHook) cellHook {
	var fns []cellHook
	for _, h := range hooks {
		if fn := pick(h); fn != nil {
			fns = append(fns, fn)
		}
	}
	if len(fns) == 0 {
		return nil
	}
	return func(ctx context.Context, ev *domain.CellEvent) {
		for _, fn := range fns {
			fn(ctx, ev)
		}
	}
}

func mergeTree(hooks []domain.LifecycleHooks) func(context.Context, *domain.TreeEvent) {
	var fns []func(context.Context, *domain.TreeEvent)
	for _, h := range hooks {
		if fn := h.OnTreeUpdated; fn != nil {
			fns = append(fns, fn)
		}
	}
	if len(fns) == 0 {
		return nil
	}
	return func(ctx context.Context, ev *domain.TreeEvent) {
		for _, fn := range fns {
			fn(ctx, ev)
		}
	}
}
