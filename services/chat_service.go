package services

import (
	"chat-mesh/domain"
	"chat-mesh/domain/event"
	"chat-mesh/errors"
	"chat-mesh/repositories"
	"chat-mesh/runtime"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatService interface {
	CreateChat(ctx context.Context, initiator string, others []string, kind domain.ChatKind) (domain.Chat, error)
	ListChatsFor(ctx context.Context, userID string) ([]domain.ChatID, error)
	GetChat(ctx context.Context, chatID domain.ChatID) (domain.Chat, error)
}

// ChatService creates chats and answers membership questions.
// Membership is fixed at creation; there is deliberately no operation
// to add or remove members afterwards. Two users may end up with
// several private chats between them: creation is never de-duplicated.
type ChatService struct {
	mu    sync.Mutex
	users repositories.IUserRepository
	chats repositories.IChatRepository
	hub   *runtime.Hub
	log   *slog.Logger
}

func NewChatService(users repositories.IUserRepository, chats repositories.IChatRepository,
	hub *runtime.Hub, log *slog.Logger) *ChatService {
	return &ChatService{users: users, chats: chats, hub: hub, log: log}
}

// CreateChat validates every member against the directory, writes the
// chat record and all membership index entries atomically, then
// publishes ChatCreated. The lock pins publish order to commit order
// for chat-list observers.
func (s *ChatService) CreateChat(ctx context.Context, initiator string, others []string,
	kind domain.ChatKind) (domain.Chat, error) {
	members := lo.Uniq(append([]string{initiator}, others...))
	if len(members) < 2 {
		return domain.Chat{}, fmt.Errorf("%w: a chat needs at least one other member", errors.ErrInvalidMember)
	}
	if kind == domain.ChatPrivate && len(members) != 2 {
		return domain.Chat{}, fmt.Errorf("%w: a private chat has exactly 2 members", errors.ErrInvalidMember)
	}

	for _, member := range members {
		if _, err := s.users.GetUser(member); err != nil {
			return domain.Chat{}, fmt.Errorf("%w: %s", errors.ErrInvalidMember, member)
		}
	}

	chat := domain.Chat{
		ID:        domain.ChatID(uuid.NewString()),
		Kind:      kind,
		Members:   members,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.chats.CreateChat(chat); err != nil {
		return domain.Chat{}, err
	}
	if err := s.hub.Publish(ctx, event.ChatCreated{Chat: chat}); err != nil {
		return domain.Chat{}, err
	}
	s.log.Debug("Chat created", "chat_id", chat.ID, "kind", chat.Kind, "members", len(members))
	return chat, nil
}

func (s *ChatService) ListChatsFor(ctx context.Context, userID string) ([]domain.ChatID, error) {
	return retryRead(ctx, s.log, "ListChatsFor", func() ([]domain.ChatID, error) {
		return s.chats.ListChatsFor(userID)
	})
}

func (s *ChatService) GetChat(ctx context.Context, chatID domain.ChatID) (domain.Chat, error) {
	return retryRead(ctx, s.log, "GetChat", func() (domain.Chat, error) {
		return s.chats.GetChat(chatID)
	})
}
