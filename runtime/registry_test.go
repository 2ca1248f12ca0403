package runtime

import (
	"chat-mesh/domain/event"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingSink struct {
	events []event.DomainEvent
}

func (c *countingSink) Consume(_ context.Context, e event.DomainEvent) error {
	c.events = append(c.events, e)
	return nil
}

func Test_Registry_Chat_Subscriptions(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	first := &countingSink{}
	second := &countingSink{}
	registry.SubscribeChat("chat-1", "sub-1", first)
	registry.SubscribeChat("chat-1", "sub-2", second)
	registry.SubscribeChat("chat-2", "sub-3", &countingSink{})

	req.Len(registry.ChatSinks("chat-1"), 2)
	req.Len(registry.ChatSinks("chat-2"), 1)
	req.Nil(registry.ChatSinks("chat-3"))

	registry.UnsubscribeChat("chat-1", "sub-1")
	req.Len(registry.ChatSinks("chat-1"), 1)

	registry.UnsubscribeChat("chat-1", "sub-2")
	req.Nil(registry.ChatSinks("chat-1"))
}

func Test_Registry_Chat_List_Subscriptions(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.SubscribeChatList("alice", "sub-1", &countingSink{})
	req.Len(registry.ChatListSinks("alice"), 1)
	req.Nil(registry.ChatListSinks("bob"))

	registry.UnsubscribeChatList("alice", "sub-1")
	req.Nil(registry.ChatListSinks("alice"))
}

func Test_Registry_Unsubscribe_Unknown_Is_Noop(t *testing.T) {
	registry := NewRegistry()
	registry.UnsubscribeChat("chat-1", "ghost")
	registry.UnsubscribeChatList("alice", "ghost")
}
