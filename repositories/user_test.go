package repositories

import (
	"chat-mesh/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Create_User_And_Lookup(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	id, err := repository.CreateUser("alice@example.com", "$argon2id$fake", "Alice")
	req.NoError(err)
	req.NotEmpty(id)

	record, err := repository.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(id, record.ID)
	req.Equal("$argon2id$fake", record.PasswordHash)

	user, err := repository.GetUser(id)
	req.NoError(err)
	req.Equal("Alice", user.DisplayName)
	req.Nil(user.Contact)
}

func Test_Duplicate_Email_Is_Rejected(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.CreateUser("alice@example.com", "hash1", "Alice")
	req.NoError(err)

	_, err = repository.CreateUser("alice@example.com", "hash2", "Imposter")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	// The original record is untouched
	record, err := repository.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal("hash1", record.PasswordHash)
}

func Test_Update_Profile(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	id, err := repository.CreateUser("alice@example.com", "hash", "Alice")
	req.NoError(err)

	contact := "@alice"
	user, err := repository.UpdateProfile(id, "Alice B.", &contact)
	req.NoError(err)
	req.Equal("Alice B.", user.DisplayName)
	req.Equal(&contact, user.Contact)

	// Credentials survive a profile update
	record, err := repository.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal("hash", record.PasswordHash)
}

func Test_Update_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.UpdateProfile("ghost", "Ghost", nil)
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_List_Users_Hides_Credentials(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.CreateUser("alice@example.com", "hash", "Alice")
	req.NoError(err)
	_, err = repository.CreateUser("bob@example.com", "hash", "Bob")
	req.NoError(err)

	users, err := repository.ListUsers()
	req.NoError(err)
	req.Len(users, 2)
}
