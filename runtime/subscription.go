package runtime

import (
	"chat-mesh/domain/event"
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Subscription is a live, cancellable registration for incremental
// updates. Deliveries arrive on a buffered channel in commit order.
//
// Lifecycle is Active -> Cancelled, terminal. Cancel is idempotent and
// cooperative: an in-flight delivery that already started may still
// complete, but nothing new is dispatched after the registry entry is
// gone.
//
// A subscription never blocks the fan-out worker. When the buffer is
// full the event is dropped and the subscription marks itself as
// needing a resync; the consumer is expected to fetch a fresh full
// snapshot as its new baseline (see NeedsResync).
type Subscription struct {
	id         string
	deliveries chan event.DomainEvent
	done       chan struct{}
	once       sync.Once
	stale      atomic.Bool
	unregister func()
}

func newSubscription(buffer int, unregister func()) *Subscription {
	return &Subscription{
		id:         uuid.NewString(),
		deliveries: make(chan event.DomainEvent, buffer),
		done:       make(chan struct{}),
		unregister: unregister,
	}
}

func (s *Subscription) ID() string { return s.id }

func (s *Subscription) Deliveries() <-chan event.DomainEvent { return s.deliveries }

// Done is closed on cancellation.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Cancel stops further delivery and releases the registry entry.
// Cancelling twice is a no-op.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.unregister()
		close(s.done)
	})
}

// Consume implements contract.EventSink. The send is non-blocking:
// backpressure on one observer must never stall the fan-out loop, so a
// full buffer means the event is lost here and the subscription flips
// into the resync state instead.
func (s *Subscription) Consume(_ context.Context, e event.DomainEvent) error {
	select {
	case <-s.done:
		return nil
	case s.deliveries <- e:
		return nil
	default:
		s.stale.Store(true)
		return nil
	}
}

// NeedsResync reports whether deliveries were lost since the last
// check, clearing the flag. A true result means the consumer must
// re-baseline from a fresh snapshot before trusting further deltas.
func (s *Subscription) NeedsResync() bool {
	return s.stale.Swap(false)
}
