package services

import (
	"chat-mesh/domain"
	"chat-mesh/domain/event"
	"chat-mesh/errors"
	"chat-mesh/moderation"
	"chat-mesh/repositories"
	"chat-mesh/runtime"
	"chat-mesh/search"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

type IMessageService interface {
	Append(ctx context.Context, chatID domain.ChatID, sender, text string) (domain.Message, error)
	Edit(ctx context.Context, chatID domain.ChatID, msgID uuid.UUID, requester, newText string) (domain.Message, error)
	Remove(ctx context.Context, chatID domain.ChatID, msgID uuid.UUID, requester string) error
	ListOrdered(ctx context.Context, chatID domain.ChatID) ([]domain.Message, error)
	Search(ctx context.Context, chatID domain.ChatID, terms string, limit int) ([]domain.Message, error)
}

// MessageService is the append-only message log. All mutations of one
// chat serialize on a per-chat lock held across assign-commit-publish,
// which is what makes (createdAt, seq) ordering and delivery order
// agree even under concurrent senders. Mutations on different chats
// never contend.
type MessageService struct {
	chats     repositories.IChatRepository
	messages  repositories.IMessageRepository
	hub       *runtime.Hub
	clock     *runtime.Clock
	moderator *moderation.Moderator
	index     *search.Index
	log       *slog.Logger
	locks     sync.Map // domain.ChatID -> *sync.Mutex
}

// NewMessageService builds the log. moderator and index are optional;
// nil disables censoring and search respectively.
func NewMessageService(chats repositories.IChatRepository, messages repositories.IMessageRepository,
	hub *runtime.Hub, clock *runtime.Clock, moderator *moderation.Moderator,
	index *search.Index, log *slog.Logger) *MessageService {
	return &MessageService{
		chats:     chats,
		messages:  messages,
		hub:       hub,
		clock:     clock,
		moderator: moderator,
		index:     index,
		log:       log,
	}
}

// Append validates membership, assigns the next (timestamp, sequence)
// pair and commits the message, then publishes the delta. Returns the
// stored message with its assigned id and ordering fields.
func (s *MessageService) Append(ctx context.Context, chatID domain.ChatID, sender, text string) (domain.Message, error) {
	chat, err := s.chats.GetChat(chatID)
	if err != nil {
		return domain.Message{}, err
	}
	if !chat.HasMember(sender) {
		return domain.Message{}, errors.ErrNotAMember
	}

	if s.moderator != nil {
		text = s.moderator.Censor(text)
	}

	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	createdAt, seq := s.clock.Next()
	msg := domain.Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		SenderID:  sender,
		Text:      text,
		Lang:      detectLang(text),
		CreatedAt: createdAt,
		Seq:       seq,
	}
	if err := s.messages.StoreMessage(msg); err != nil {
		return domain.Message{}, err
	}
	if err := s.hub.Publish(ctx, event.MessageAppended{Message: msg}); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// Edit replaces the text only; the author check runs before any write
// and the ordering fields never change, so the message keeps its
// position.
func (s *MessageService) Edit(ctx context.Context, chatID domain.ChatID, msgID uuid.UUID,
	requester, newText string) (domain.Message, error) {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.messages.GetMessage(chatID, msgID)
	if err != nil {
		return domain.Message{}, err
	}
	if current.SenderID != requester {
		return domain.Message{}, errors.ErrForbidden
	}

	if s.moderator != nil {
		newText = s.moderator.Censor(newText)
	}
	updated, err := s.messages.UpdateText(chatID, msgID, newText)
	if err != nil {
		return domain.Message{}, err
	}
	if err := s.hub.Publish(ctx, event.MessageEdited{Message: updated}); err != nil {
		return domain.Message{}, err
	}
	return updated, nil
}

// Remove deletes the record; subscribers get a MessageRemoved delta so
// live views drop it too.
func (s *MessageService) Remove(ctx context.Context, chatID domain.ChatID, msgID uuid.UUID, requester string) error {
	lock := s.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.messages.GetMessage(chatID, msgID)
	if err != nil {
		return err
	}
	if current.SenderID != requester {
		return errors.ErrForbidden
	}

	if err := s.messages.DeleteMessage(chatID, msgID); err != nil {
		return err
	}
	return s.hub.Publish(ctx, event.MessageRemoved{
		Chat:      chatID,
		MessageID: msgID,
		At:        time.Now().UTC(),
	})
}

// ListOrdered returns a fresh snapshot of live messages sorted by
// (createdAt, seq) ascending.
func (s *MessageService) ListOrdered(ctx context.Context, chatID domain.ChatID) ([]domain.Message, error) {
	return retryRead(ctx, s.log, "ListOrdered", func() ([]domain.Message, error) {
		return s.messages.ListMessages(chatID)
	})
}

// Search resolves full-text hits against the log, dropping ids whose
// message was removed after indexing.
func (s *MessageService) Search(ctx context.Context, chatID domain.ChatID, terms string, limit int) ([]domain.Message, error) {
	if s.index == nil {
		return nil, nil
	}
	ids, err := s.index.Search(ctx, chatID, terms, limit)
	if err != nil {
		return nil, err
	}
	var results []domain.Message
	for _, id := range ids {
		msg, err := s.messages.GetMessage(chatID, id)
		if err != nil {
			continue
		}
		results = append(results, msg)
	}
	return results, nil
}

func (s *MessageService) chatLock(chatID domain.ChatID) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(chatID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func detectLang(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return whatlanggo.LangToString(info.Lang)
}
