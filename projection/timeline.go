// Package projection builds local timelines from observed events.
// Handles ordering, deduplication, and snapshot application.
// Does not emit events or interact with transports directly.
package projection

import (
	"chat-mesh/domain"
	"chat-mesh/domain/event"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Timeline reconstructs one chat's ordered message state from a
// snapshot plus a stream of deltas. Appends and edits are upserts
// keyed by message id and removals of unknown ids are no-ops, so
// replaying events that overlap the snapshot converges to the same
// state as a fresh read of the log.
type Timeline struct {
	mu       sync.Mutex
	messages []domain.Message
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

// ApplySnapshot replaces the whole state. Used for the initial
// delivery and for resync baselines after lost deltas.
func (t *Timeline) ApplySnapshot(messages []domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append([]domain.Message(nil), messages...)
	sort.Slice(t.messages, func(i, j int) bool {
		return t.messages[i].Before(t.messages[j])
	})
}

// Consume implements contract.EventSink.
func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch evt := e.(type) {
	case event.MessageAppended:
		t.upsert(evt.Message)
	case event.MessageEdited:
		t.upsert(evt.Message)
	case event.MessageRemoved:
		t.remove(evt.MessageID)
	}
	return nil
}

// Messages returns the current ordered view.
func (t *Timeline) Messages() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Message(nil), t.messages...)
}

func (t *Timeline) upsert(msg domain.Message) {
	for i := range t.messages {
		if t.messages[i].ID == msg.ID {
			t.messages[i] = msg
			return
		}
	}
	at := sort.Search(len(t.messages), func(i int) bool {
		return msg.Before(t.messages[i])
	})
	t.messages = append(t.messages, domain.Message{})
	copy(t.messages[at+1:], t.messages[at:])
	t.messages[at] = msg
}

func (t *Timeline) remove(id uuid.UUID) {
	for i := range t.messages {
		if t.messages[i].ID == id {
			t.messages = append(t.messages[:i], t.messages[i+1:]...)
			return
		}
	}
}
