package observability

import (
	"context"
	"sync"

	"github.com/qqdb/molstar/pkg/domain"
)

// streamBuffer is the per-subscriber channel capacity. Publishing never
// blocks a commit: a subscriber that falls this far behind loses events.
const streamBuffer = 16

// Stream fans tree events out to any number of subscribers. Install its
// Hooks on the engine, then hand Watch channels to UIs, SSE handlers or
// the CLI watch loop.
type Stream struct {
	mu   sync.Mutex
	subs map[int]chan domain.TreeEvent
	next int
}

// NewStream creates a stream with no subscribers.
func NewStream() *Stream {
	return &Stream{
		subs: make(map[int]chan domain.TreeEvent),
	}
}

// Hooks returns lifecycle hooks that publish every tree update into the
// stream. Merge them with other hooks when the engine needs more than one
// consumer.
func (s *Stream) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTreeUpdated: func(_ context.Context, ev *domain.TreeEvent) {
			s.publish(*ev)
		},
	}
}

// Watch subscribes to tree updates. The returned channel closes when ctx
// is done; events published while no one is draining are dropped, not
// queued without bound.
func (s *Stream) Watch(ctx context.Context) <-chan domain.TreeEvent {
	ch := make(chan domain.TreeEvent, streamBuffer)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Subscribers reports the number of active watchers.
func (s *Stream) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Stream) publish(ev domain.TreeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is not draining; dropping beats stalling the
			// commit that emitted the event.
		}
	}
}
