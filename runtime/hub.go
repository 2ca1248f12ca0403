package runtime

import (
	"chat-mesh/contract"
	"chat-mesh/domain"
	"chat-mesh/domain/event"
	"chat-mesh/repositories"
	"chat-mesh/runtime/workers"
	"context"
	"log/slog"
	"sync"
	"time"
)

// Hub is the subscription and fan-out coordinator. Every committed
// mutation is published here exactly once, in commit order; a single
// fan-out worker drains the channel, so observers of one chat see
// deltas in the same order the store accepted them.
//
// Subscribing registers the sink first and reads the snapshot second.
// Events committed in between are therefore delivered twice (once
// inside the snapshot, once as a delta); consumers apply deltas as
// upserts keyed by message id, which makes the overlap harmless.
type Hub struct {
	mu             sync.Mutex
	log            *slog.Logger
	registry       *Registry
	supervisor     contract.ISupervisor
	chats          repositories.IChatRepository
	messages       repositories.IMessageRepository
	events         chan event.DomainEvent
	permanentSinks []contract.EventSink
	sinkTimeout    time.Duration
	started        bool
}

func NewHub(log *slog.Logger, supervisor contract.ISupervisor, registry *Registry,
	chats repositories.IChatRepository, messages repositories.IMessageRepository,
	bufferSize int, sinkTimeout time.Duration) *Hub {
	return &Hub{
		log:         log,
		registry:    registry,
		supervisor:  supervisor,
		chats:       chats,
		messages:    messages,
		events:      make(chan event.DomainEvent, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// AddSinks registers permanent sinks receiving every event regardless
// of chat (search indexing, projections). Must be called before Start.
func (h *Hub) AddSinks(sinks ...contract.EventSink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.permanentSinks = append(h.permanentSinks, sinks...)
}

// Publish hands a committed event to the fan-out pipeline. The send
// blocks when the buffer is full rather than dropping: losing a
// committed mutation here would silently desynchronize every
// subscriber. Callers publish while still holding the per-chat commit
// lock, which is what pins delivery order to commit order.
func (h *Hub) Publish(ctx context.Context, evt event.DomainEvent) error {
	select {
	case h.events <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubscribeMessages registers an observer of a chat's message log and
// returns the current ordered snapshot as the first delivery. Further
// deltas arrive on the subscription channel in commit order.
func (h *Hub) SubscribeMessages(chatID domain.ChatID, buffer int) (*Subscription, []domain.Message, error) {
	var sub *Subscription
	sub = newSubscription(buffer, func() {
		h.registry.UnsubscribeChat(chatID, sub.ID())
	})
	h.registry.SubscribeChat(chatID, sub.ID(), sub)

	snapshot, err := h.messages.ListMessages(chatID)
	if err != nil {
		sub.Cancel()
		return nil, nil, err
	}
	return sub, snapshot, nil
}

// SubscribeChatList registers an observer of a user's chat-id set.
// The snapshot is the current set; each later ChatCreated naming the
// user arrives as a delta.
func (h *Hub) SubscribeChatList(userID string, buffer int) (*Subscription, []domain.ChatID, error) {
	var sub *Subscription
	sub = newSubscription(buffer, func() {
		h.registry.UnsubscribeChatList(userID, sub.ID())
	})
	h.registry.SubscribeChatList(userID, sub.ID(), sub)

	snapshot, err := h.chats.ListChatsFor(userID)
	if err != nil {
		sub.Cancel()
		return nil, nil, err
	}
	return sub, snapshot, nil
}

// MessagesSnapshot serves resync baselines for stale subscriptions.
func (h *Hub) MessagesSnapshot(chatID domain.ChatID) ([]domain.Message, error) {
	return h.messages.ListMessages(chatID)
}

func (h *Hub) ChatListSnapshot(userID string) ([]domain.ChatID, error) {
	return h.chats.ListChatsFor(userID)
}

// Start registers the fan-out worker with the supervisor and runs the
// supervision loop in the background until ctx is cancelled.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return
	}
	h.started = true
	fanout := workers.NewFanoutWorker(h.log, h.events, h.registry, h.permanentSinks, h.sinkTimeout)
	h.supervisor.Add(fanout)
	h.mu.Unlock()

	h.log.Info("Starting hub and supervised workers")
	go h.supervisor.Run(ctx)
}

// Stop cancels the supervised workers. Active subscriptions stay
// registered until their owners cancel them.
func (h *Hub) Stop() {
	h.log.Info("Requesting hub shutdown")
	h.supervisor.Stop()
}
