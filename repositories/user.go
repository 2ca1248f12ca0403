//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"chat-mesh/domain"
	"chat-mesh/errors"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IUserRepository interface {
	CreateUser(email, hashedPassword, displayName string) (string, error)
	GetUserByEmail(email string) (UserRecord, error)
	GetUser(id string) (domain.User, error)
	UpdateProfile(id, displayName string, contact *string) (domain.User, error)
	ListUsers() ([]domain.User, error)
}

// UserRecord is the stored shape of a user. Credential fields never
// leave the repository layer; callers get domain.User instead.
type UserRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	DisplayName  string    `json:"display_name"`
	Contact      *string   `json:"contact,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Keys:
//
//	user:{id}        -> UserRecord (JSON)
//	useremail:{email} -> id
//
// The email key doubles as the uniqueness guard: both keys are written
// in the same transaction, so a duplicate registration never commits.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

func (u *UserRepository) CreateUser(email, hashedPassword, displayName string) (string, error) {
	record := UserRecord{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		emailKey := []byte("useremail:" + email)
		if _, err := txn.Get(emailKey); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(emailKey, []byte(record.ID)); err != nil {
			return err
		}
		return txn.Set([]byte("user:"+record.ID), data)
	})
	if err != nil {
		return "", wrapStoreErr(err)
	}
	return record.ID, nil
}

func (u *UserRepository) GetUserByEmail(email string) (UserRecord, error) {
	var record UserRecord
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("useremail:" + email))
		if err != nil {
			return err
		}
		var id []byte
		if id, err = item.ValueCopy(nil); err != nil {
			return err
		}
		item, err = txn.Get([]byte("user:" + string(id)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return UserRecord{}, wrapStoreErr(err)
	}
	return record, nil
}

func (u *UserRepository) GetUser(id string) (domain.User, error) {
	var record UserRecord
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return domain.User{}, wrapStoreErr(err)
	}
	return toUser(record), nil
}

// UpdateProfile replaces the mutable profile fields only. Identity and
// credential fields are untouched.
func (u *UserRepository) UpdateProfile(id, displayName string, contact *string) (domain.User, error) {
	var record UserRecord
	err := u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + id)
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		if err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		}); err != nil {
			return err
		}
		record.DisplayName = displayName
		record.Contact = contact
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return domain.User{}, wrapStoreErr(err)
	}
	return toUser(record), nil
}

func (u *UserRepository) ListUsers() ([]domain.User, error) {
	var records []UserRecord
	err := u.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("user:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record UserRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return lo.Map(records, func(r UserRecord, _ int) domain.User {
		return toUser(r)
	}), nil
}

func toUser(r UserRecord) domain.User {
	return domain.User{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		Contact:     r.Contact,
		CreatedAt:   r.CreatedAt,
	}
}
