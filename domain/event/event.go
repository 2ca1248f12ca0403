package event

import (
	"chat-mesh/domain"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a committed mutation of the chat or message state.
// Events are published in commit order and fanned out to subscribers
// in the same order.
type DomainEvent interface {
	ChatID() domain.ChatID
}

// ChatCreated is emitted once per createChat, after the chat record and
// every member's membership index entry are durably written.
type ChatCreated struct {
	Chat domain.Chat
}

func (e ChatCreated) ChatID() domain.ChatID { return e.Chat.ID }

type MessageAppended struct {
	Message domain.Message
}

func (e MessageAppended) ChatID() domain.ChatID { return e.Message.ChatID }

type MessageEdited struct {
	Message domain.Message
}

func (e MessageEdited) ChatID() domain.ChatID { return e.Message.ChatID }

// MessageRemoved carries only identifiers; the record is already gone
// from the store when this event is delivered.
type MessageRemoved struct {
	Chat      domain.ChatID
	MessageID uuid.UUID
	At        time.Time
}

func (e MessageRemoved) ChatID() domain.ChatID { return e.Chat }
