package search

import (
	"chat-mesh/domain/event"
	"context"
	"log/slog"
)

// IndexSink feeds the index from committed events. Registered as a
// permanent sink on the hub, so indexing trails the log by however
// long fan-out takes; queries resolve hits against the log anyway.
type IndexSink struct {
	index *Index
	log   *slog.Logger
}

func NewIndexSink(index *Index, log *slog.Logger) *IndexSink {
	return &IndexSink{index: index, log: log}
}

func (s *IndexSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageAppended:
		return s.index.Index(evt.Message)
	case event.MessageEdited:
		return s.index.Index(evt.Message)
	case event.MessageRemoved:
		return s.index.Delete(evt.MessageID)
	default:
		return nil
	}
}
