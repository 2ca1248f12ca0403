package repositories

import (
	"chat-mesh/domain"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(msg domain.Message) error
	GetMessage(chatID domain.ChatID, msgID uuid.UUID) (domain.Message, error)
	UpdateText(chatID domain.ChatID, msgID uuid.UUID, newText string) (domain.Message, error)
	DeleteMessage(chatID domain.ChatID, msgID uuid.UUID) error
	ListMessages(chatID domain.ChatID) ([]domain.Message, error)
}

// Keys:
//
//	msg:{chat}:{ts_19}:{seq_12} -> domain.Message (JSON)
//	msgid:{chat}:{uuid}         -> primary key
//
// The primary key embeds the timestamp with 19-digit zero padding plus
// the insertion sequence with 12 digits, so a plain forward scan over
// the prefix yields messages in (createdAt, seq) ascending order.
// Two messages assigned the same nanosecond still sort by sequence,
// never by wall time, keeping the order deterministic.
// The msgid index resolves edits and removals by message id without
// knowing the assigned timestamp.
type MessageRepository struct {
	db *badger.DB
}

func NewMessageRepository(db *badger.DB) IMessageRepository {
	return &MessageRepository{db: db}
}

func primaryKey(msg domain.Message) []byte {
	return fmt.Appendf(nil, "msg:%s:%019d:%012d",
		msg.ChatID, msg.CreatedAt.UnixNano(), msg.Seq)
}

func indexKey(chatID domain.ChatID, msgID uuid.UUID) []byte {
	return fmt.Appendf(nil, "msgid:%s:%s", chatID, msgID)
}

func (m *MessageRepository) StoreMessage(msg domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(primaryKey(msg), data); err != nil {
			return err
		}
		return txn.Set(indexKey(msg.ChatID, msg.ID), primaryKey(msg))
	})
	return wrapStoreErr(err)
}

func (m *MessageRepository) GetMessage(chatID domain.ChatID, msgID uuid.UUID) (domain.Message, error) {
	var msg domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		msg, err = getByIndex(txn, chatID, msgID)
		return err
	})
	if err != nil {
		return domain.Message{}, wrapStoreErr(err)
	}
	return msg, nil
}

// UpdateText replaces the text in place. The record keeps its primary
// key, so the message's position in the order never moves.
func (m *MessageRepository) UpdateText(chatID domain.ChatID, msgID uuid.UUID, newText string) (domain.Message, error) {
	var msg domain.Message
	err := m.db.Update(func(txn *badger.Txn) error {
		var err error
		if msg, err = getByIndex(txn, chatID, msgID); err != nil {
			return err
		}
		msg.Text = newText
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		return txn.Set(primaryKey(msg), data)
	})
	if err != nil {
		return domain.Message{}, wrapStoreErr(err)
	}
	return msg, nil
}

// DeleteMessage drops both the record and its id index entry. No
// tombstone is kept: a removed message can never reappear in a scan.
func (m *MessageRepository) DeleteMessage(chatID domain.ChatID, msgID uuid.UUID) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		msg, err := getByIndex(txn, chatID, msgID)
		if err != nil {
			return err
		}
		if err = txn.Delete(primaryKey(msg)); err != nil {
			return err
		}
		return txn.Delete(indexKey(chatID, msgID))
	})
	return wrapStoreErr(err)
}

// ListMessages returns a fresh ordered snapshot of all live messages
// in the chat. Thanks to the padded key layout a forward prefix scan
// is already sorted; no in-memory sort happens here.
func (m *MessageRepository) ListMessages(chatID domain.ChatID) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := fmt.Appendf(nil, "msg:%s:", chatID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var msg domain.Message
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &msg)
			})
			if err != nil {
				return err
			}
			messages = append(messages, msg)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return messages, nil
}

func getByIndex(txn *badger.Txn, chatID domain.ChatID, msgID uuid.UUID) (domain.Message, error) {
	item, err := txn.Get(indexKey(chatID, msgID))
	if err != nil {
		return domain.Message{}, err
	}
	key, err := item.ValueCopy(nil)
	if err != nil {
		return domain.Message{}, err
	}
	item, err = txn.Get(key)
	if err != nil {
		return domain.Message{}, err
	}
	var msg domain.Message
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &msg)
	})
	return msg, err
}
