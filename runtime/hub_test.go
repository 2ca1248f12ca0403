package runtime

import (
	"chat-mesh/domain"
	"chat-mesh/domain/event"
	"chat-mesh/repositories"
	"chat-mesh/runtime/workers"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, repositories.IChatRepository, repositories.IMessageRepository) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	chats := repositories.NewChatRepository(db)
	messages := repositories.NewMessageRepository(db)
	sup := workers.NewSupervisor(log, 10*time.Millisecond)
	hub := NewHub(log, sup, NewRegistry(), chats, messages, 16, time.Second)
	return hub, chats, messages
}

func receiveEvent(t *testing.T, sub *Subscription) event.DomainEvent {
	t.Helper()
	select {
	case evt := <-sub.Deliveries():
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return nil
	}
}

func Test_Hub_Snapshot_Then_Deltas(t *testing.T) {
	req := require.New(t)
	hub, _, messages := newTestHub(t)

	chatID := domain.ChatID("chat-1")
	existing := domain.Message{
		ID: uuid.New(), ChatID: chatID, SenderID: "alice", Text: "hi",
		CreatedAt: time.Now().UTC(), Seq: 1,
	}
	req.NoError(messages.StoreMessage(existing))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.Start(ctx)
	defer hub.Stop()

	sub, snapshot, err := hub.SubscribeMessages(chatID, 8)
	req.NoError(err)
	defer sub.Cancel()

	req.Len(snapshot, 1)
	req.Equal("hi", snapshot[0].Text)

	delta := domain.Message{
		ID: uuid.New(), ChatID: chatID, SenderID: "bob", Text: "hey",
		CreatedAt: time.Now().UTC(), Seq: 2,
	}
	req.NoError(messages.StoreMessage(delta))
	req.NoError(hub.Publish(ctx, event.MessageAppended{Message: delta}))

	evt := receiveEvent(t, sub)
	appended, ok := evt.(event.MessageAppended)
	req.True(ok)
	req.Equal("hey", appended.Message.Text)
}

func Test_Hub_Deltas_Arrive_In_Publish_Order(t *testing.T) {
	req := require.New(t)
	hub, _, _ := newTestHub(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.Start(ctx)
	defer hub.Stop()

	chatID := domain.ChatID("chat-1")
	sub, _, err := hub.SubscribeMessages(chatID, 16)
	req.NoError(err)
	defer sub.Cancel()

	var published []uuid.UUID
	for i := 0; i < 10; i++ {
		msg := domain.Message{ID: uuid.New(), ChatID: chatID, Seq: uint64(i + 1)}
		published = append(published, msg.ID)
		req.NoError(hub.Publish(ctx, event.MessageAppended{Message: msg}))
	}

	for _, expected := range published {
		evt := receiveEvent(t, sub)
		req.Equal(expected, evt.(event.MessageAppended).Message.ID)
	}
}

func Test_Hub_Routes_Chat_Created_To_Member_Lists(t *testing.T) {
	req := require.New(t)
	hub, chats, _ := newTestHub(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.Start(ctx)
	defer hub.Stop()

	aliceSub, snapshot, err := hub.SubscribeChatList("alice", 8)
	req.NoError(err)
	defer aliceSub.Cancel()
	req.Empty(snapshot)

	claraSub, _, err := hub.SubscribeChatList("clara", 8)
	req.NoError(err)
	defer claraSub.Cancel()

	chat := domain.Chat{
		ID: "chat-1", Kind: domain.ChatPrivate,
		Members: []string{"alice", "bob"}, CreatedAt: time.Now().UTC(),
	}
	req.NoError(chats.CreateChat(chat))
	req.NoError(hub.Publish(ctx, event.ChatCreated{Chat: chat}))

	evt := receiveEvent(t, aliceSub)
	req.Equal(chat.ID, evt.(event.ChatCreated).Chat.ID)

	// Clara is not a member and must hear nothing
	select {
	case evt := <-claraSub.Deliveries():
		t.Fatalf("unexpected delivery to non-member: %v", evt)
	case <-time.After(100 * time.Millisecond):
	}
}

func Test_Hub_Permanent_Sink_Sees_Every_Event(t *testing.T) {
	req := require.New(t)
	hub, _, _ := newTestHub(t)

	sink := newSubscription(16, func() {})
	hub.AddSinks(sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.Start(ctx)
	defer hub.Stop()

	req.NoError(hub.Publish(ctx, event.MessageAppended{
		Message: domain.Message{ID: uuid.New(), ChatID: "chat-1"},
	}))
	req.NoError(hub.Publish(ctx, event.MessageRemoved{Chat: "chat-2", MessageID: uuid.New()}))

	first := receiveEvent(t, sink)
	second := receiveEvent(t, sink)
	req.IsType(event.MessageAppended{}, first)
	req.IsType(event.MessageRemoved{}, second)
}
