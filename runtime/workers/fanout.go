package workers

import (
	"chat-mesh/contract"
	"chat-mesh/domain/event"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*FanoutWorker)(nil)

// FanoutWorker drains the hub's event channel and delivers each event
// to every interested sink: permanent sinks first, then the observers
// resolved from the registry at delivery time.
//
// One worker consumes one channel, so delivery order equals publish
// order. Routing: message events go to the chat's observers;
// ChatCreated goes to the chat-list observers of every member.
//
// Each sink gets a bounded context; a sink that cannot accept within
// the timeout loses the event on its side (subscriptions flip into
// resync state), the loop itself never stalls.
type FanoutWorker struct {
	log            *slog.Logger
	events         <-chan event.DomainEvent
	registry       contract.IRegistry
	permanentSinks []contract.EventSink
	sinkTimeout    time.Duration
}

func NewFanoutWorker(log *slog.Logger, events <-chan event.DomainEvent,
	registry contract.IRegistry, permanentSinks []contract.EventSink,
	sinkTimeout time.Duration) *FanoutWorker {
	return &FanoutWorker{
		log:            log,
		events:         events,
		registry:       registry,
		permanentSinks: permanentSinks,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *FanoutWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fan-out")
			return nil
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout delivers one event to all its sinks, sequentially. Sequential
// delivery is deliberate: it keeps per-observer ordering identical to
// commit order, which parallel dispatch would not.
func (w *FanoutWorker) Fanout(ctx context.Context, evt event.DomainEvent) {
	sinks := append(w.permanentSinks, w.route(evt)...)
	for _, sink := range sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Sink rejected event", "error", err)
		}
		cancel()
	}
}

func (w *FanoutWorker) route(evt event.DomainEvent) []contract.EventSink {
	switch e := evt.(type) {
	case event.ChatCreated:
		var sinks []contract.EventSink
		for _, member := range e.Chat.Members {
			sinks = append(sinks, w.registry.ChatListSinks(member)...)
		}
		return sinks
	default:
		return w.registry.ChatSinks(evt.ChatID())
	}
}
