package repositories

import (
	"chat-mesh/domain"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type IChatRepository interface {
	CreateChat(chat domain.Chat) error
	GetChat(id domain.ChatID) (domain.Chat, error)
	ListChatsFor(userID string) ([]domain.ChatID, error)
}

// Keys:
//
//	chat:{id}             -> domain.Chat (JSON)
//	chatidx:{user}:{id}   -> empty (membership index)
//
// CreateChat writes the chat record and one index entry per member in
// a single transaction, so no partial-membership state is ever
// observable: either every member sees the chat or none does.
type ChatRepository struct {
	db *badger.DB
}

func NewChatRepository(db *badger.DB) IChatRepository {
	return &ChatRepository{db: db}
}

func (c *ChatRepository) CreateChat(chat domain.Chat) error {
	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte("chat:"+string(chat.ID)), data); err != nil {
			return err
		}
		for _, member := range chat.Members {
			key := fmt.Sprintf("chatidx:%s:%s", member, chat.ID)
			if err := txn.Set([]byte(key), nil); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapStoreErr(err)
}

func (c *ChatRepository) GetChat(id domain.ChatID) (domain.Chat, error) {
	var chat domain.Chat
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("chat:" + string(id)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &chat)
		})
	})
	if err != nil {
		return domain.Chat{}, wrapStoreErr(err)
	}
	return chat, nil
}

// ListChatsFor scans the membership index. The scan reads keys only,
// so iteration skips value prefetching entirely.
func (c *ChatRepository) ListChatsFor(userID string) ([]domain.ChatID, error) {
	var ids []domain.ChatID
	err := c.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefixStr := fmt.Sprintf("chatidx:%s:", userID)
		prefix := []byte(prefixStr)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			ids = append(ids, domain.ChatID(key[len(prefixStr):]))
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return ids, nil
}
