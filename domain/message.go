package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single authored, timestamped unit of text within a chat.
// CreatedAt and Seq are assigned once at append time and never change,
// even when the text is edited.
type Message struct {
	ID        uuid.UUID `json:"id"`
	ChatID    ChatID    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Lang      string    `json:"lang,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Seq       uint64    `json:"seq"`
}

// Before reports whether m precedes other in the chat's total order.
// Ordering is (CreatedAt, Seq) ascending; Seq disambiguates messages
// that share a timestamp, so the order is deterministic.
func (m Message) Before(other Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.Seq < other.Seq
}
