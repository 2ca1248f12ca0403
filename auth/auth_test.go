package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Hash_And_Compare_Password(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("Correct Horse Battery 1!")
	req.NoError(err)
	req.Contains(hash, "$argon2id$")

	match, err := ComparePassword("Correct Horse Battery 1!", hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("wrong password", hash)
	req.NoError(err)
	req.False(match)
}

func Test_Hashes_Are_Salted(t *testing.T) {
	req := require.New(t)

	first, err := HashPassword("SamePassword123!")
	req.NoError(err)
	second, err := HashPassword("SamePassword123!")
	req.NoError(err)
	req.NotEqual(first, second)
}

func Test_Compare_Rejects_Malformed_Hash(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("anything", "not-a-hash")
	req.Error(err)
}

func Test_Issue_And_Verify_Token(t *testing.T) {
	req := require.New(t)
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-123", "Alice")
	req.NoError(err)

	claims, err := issuer.Verify(token)
	req.NoError(err)
	req.Equal("user-123", claims.UserID)
	req.Equal("Alice", claims.DisplayName)
}

func Test_Verify_Rejects_Wrong_Key(t *testing.T) {
	req := require.New(t)

	token, err := NewIssuer("secret-a", time.Hour).Issue("user-123", "Alice")
	req.NoError(err)

	_, err = NewIssuer("secret-b", time.Hour).Verify(token)
	req.Error(err)
}

func Test_Verify_Rejects_Expired_Token(t *testing.T) {
	req := require.New(t)
	issuer := NewIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue("user-123", "Alice")
	req.NoError(err)

	_, err = issuer.Verify(token)
	req.Error(err)
}

func Test_Validate_Register(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateRegister(RegisterRequest{
		Email:       "alice@example.com",
		Password:    "ComplexPass123!",
		DisplayName: "Alice",
	}))

	// Long enough but no complexity
	req.Error(ValidateRegister(RegisterRequest{
		Email:       "alice@example.com",
		Password:    "alllowercaseletters",
		DisplayName: "Alice",
	}))

	// Too short
	req.Error(ValidateRegister(RegisterRequest{
		Email:       "alice@example.com",
		Password:    "Short1!",
		DisplayName: "Alice",
	}))

	// Not an email
	req.Error(ValidateRegister(RegisterRequest{
		Email:       "not-an-email",
		Password:    "ComplexPass123!",
		DisplayName: "Alice",
	}))
}
