package repositories

import (
	"chat-mesh/domain"
	"chat-mesh/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Create_And_Get_Chat(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t))

	chat := domain.Chat{
		ID:        "chat-1",
		Kind:      domain.ChatGroup,
		Members:   []string{"alice", "bob", "clara"},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	req.NoError(repository.CreateChat(chat))

	fetched, err := repository.GetChat(chat.ID)
	req.NoError(err)
	req.Equal(chat.ID, fetched.ID)
	req.Equal(chat.Kind, fetched.Kind)
	req.Equal(chat.Members, fetched.Members)
}

func Test_Get_Unknown_Chat(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t))

	_, err := repository.GetChat("nope")
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_Membership_Index_Lists_All_Members_At_Once(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t))

	chat := domain.Chat{
		ID:        "chat-1",
		Kind:      domain.ChatPrivate,
		Members:   []string{"alice", "bob"},
		CreatedAt: time.Now().UTC(),
	}
	req.NoError(repository.CreateChat(chat))

	// The record and every index entry commit in one transaction, so
	// both members see the chat and nobody else does
	for _, member := range chat.Members {
		ids, err := repository.ListChatsFor(member)
		req.NoError(err)
		req.Equal([]domain.ChatID{chat.ID}, ids)
	}
	ids, err := repository.ListChatsFor("clara")
	req.NoError(err)
	req.Empty(ids)
}

func Test_List_Chats_For_User_In_Several_Chats(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t))

	now := time.Now().UTC()
	req.NoError(repository.CreateChat(domain.Chat{
		ID: "chat-a", Kind: domain.ChatPrivate, Members: []string{"alice", "bob"}, CreatedAt: now,
	}))
	req.NoError(repository.CreateChat(domain.Chat{
		ID: "chat-b", Kind: domain.ChatGroup, Members: []string{"alice", "bob", "clara"}, CreatedAt: now,
	}))

	ids, err := repository.ListChatsFor("alice")
	req.NoError(err)
	req.ElementsMatch([]domain.ChatID{"chat-a", "chat-b"}, ids)
}
