package domain

import "time"

type ChatID string

type ChatKind string

const (
	ChatPrivate ChatKind = "private"
	ChatGroup   ChatKind = "group"
)

// Chat is a conversation container with fixed membership.
// Members are set once at creation; this design models no
// add/remove of members afterwards.
type Chat struct {
	ID        ChatID    `json:"id"`
	Kind      ChatKind  `json:"kind"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Chat) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}
