package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type testMessagingSuite struct {
	BaseHTTPSuite
}

func TestMessagingSuite(t *testing.T) {
	suite.Run(t, &testMessagingSuite{})
}

type session struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

type message struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id"`
	SenderID  string `json:"sender_id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	Seq       uint64 `json:"seq"`
}

type frame struct {
	Type      string    `json:"type"`
	Messages  []message `json:"messages"`
	Message   *message  `json:"message"`
	MessageID string    `json:"message_id"`
}

func (s *testMessagingSuite) register(t *testing.T, name string) session {
	var out session
	status := s.Do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		"password":     "ComplexPass123!",
		"display_name": name,
	}, &out)
	s.Require().Equal(http.StatusCreated, status)
	s.Require().NotEmpty(out.Token)
	return out
}

func (s *testMessagingSuite) TestFullMessagingFlow() {
	t := s.T()

	var alice, bob session
	var chatID string

	s.Run("Step 0: Register participants", func() {
		s.Step(t, "Registering two users")
		alice = s.register(t, "alice")
		bob = s.register(t, "bob")
	})

	s.Run("Step 1: Create a private chat", func() {
		s.Step(t, "Alice opens a private chat with Bob")
		var chat struct {
			ID      string   `json:"id"`
			Members []string `json:"members"`
		}
		status := s.Do(t, http.MethodPost, "/v1/chats", alice.Token, map[string]any{
			"members": []string{bob.UserID},
			"kind":    "private",
		}, &chat)
		s.Require().Equal(http.StatusCreated, status)
		s.Require().Len(chat.Members, 2)
		chatID = chat.ID

		// Both members see the chat in their lists
		var listing struct {
			ChatIDs []string `json:"chat_ids"`
		}
		status = s.Do(t, http.MethodGet, "/v1/chats", bob.Token, nil, &listing)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Contains(listing.ChatIDs, chatID)
	})

	var observed *websocket.Conn
	s.Run("Step 2: Bob opens a live stream", func() {
		s.Step(t, "Streaming the chat over WebSocket")
		header := http.Header{"Authorization": {"Bearer " + bob.Token}}
		conn, _, err := websocket.DefaultDialer.Dial(
			s.WebSocketURL("/v1/chats/"+chatID+"/stream"), header)
		s.Require().NoError(err)
		observed = conn

		// The first frame is always the snapshot, empty here
		var first frame
		s.Require().NoError(readFrame(conn, &first))
		s.Require().Equal("snapshot", first.Type)
		s.Require().Empty(first.Messages)
	})
	defer func() {
		if observed != nil {
			_ = observed.Close()
		}
	}()

	var hi, hey message
	s.Run("Step 3: Exchange messages in order", func() {
		s.Step(t, "Alice and Bob exchange messages")
		status := s.Do(t, http.MethodPost, "/v1/chats/"+chatID+"/messages", alice.Token,
			map[string]string{"text": "hi"}, &hi)
		s.Require().Equal(http.StatusCreated, status)

		status = s.Do(t, http.MethodPost, "/v1/chats/"+chatID+"/messages", bob.Token,
			map[string]string{"text": "hey"}, &hey)
		s.Require().Equal(http.StatusCreated, status)

		var listing struct {
			Messages []message `json:"messages"`
		}
		status = s.Do(t, http.MethodGet, "/v1/chats/"+chatID+"/messages", alice.Token, nil, &listing)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Len(listing.Messages, 2)
		s.Require().Equal("hi", listing.Messages[0].Text)
		s.Require().Equal("hey", listing.Messages[1].Text)
	})

	s.Run("Step 4: Stream delivered both appends in commit order", func() {
		var first, second frame
		s.Require().NoError(readFrame(observed, &first))
		s.Require().NoError(readFrame(observed, &second))
		s.Require().Equal("append", first.Type)
		s.Require().Equal("hi", first.Message.Text)
		s.Require().Equal("append", second.Type)
		s.Require().Equal("hey", second.Message.Text)
	})

	s.Run("Step 5: Edit keeps the position, removal is final", func() {
		s.Step(t, "Alice edits then removes her message")
		var edited message
		status := s.Do(t, http.MethodPatch, "/v1/chats/"+chatID+"/messages/"+hi.ID, alice.Token,
			map[string]string{"text": "hi there"}, &edited)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Equal(hi.Seq, edited.Seq)

		var listing struct {
			Messages []message `json:"messages"`
		}
		s.Do(t, http.MethodGet, "/v1/chats/"+chatID+"/messages", bob.Token, nil, &listing)
		s.Require().Equal("hi there", listing.Messages[0].Text)

		// Bob cannot touch Alice's message
		status = s.Do(t, http.MethodDelete, "/v1/chats/"+chatID+"/messages/"+hi.ID, bob.Token, nil, nil)
		s.Require().Equal(http.StatusForbidden, status)

		status = s.Do(t, http.MethodDelete, "/v1/chats/"+chatID+"/messages/"+hi.ID, alice.Token, nil, nil)
		s.Require().Equal(http.StatusNoContent, status)

		s.Do(t, http.MethodGet, "/v1/chats/"+chatID+"/messages", bob.Token, nil, &listing)
		s.Require().Len(listing.Messages, 1)
		s.Require().Equal("hey", listing.Messages[0].Text)
	})

	s.Run("Step 6: Outsiders are locked out", func() {
		s.Step(t, "A third user cannot read or write the chat")
		carol := s.register(t, "carol")

		status := s.Do(t, http.MethodPost, "/v1/chats/"+chatID+"/messages", carol.Token,
			map[string]string{"text": "let me in"}, nil)
		s.Require().Equal(http.StatusForbidden, status)

		// Chat existence is hidden from non-members
		status = s.Do(t, http.MethodGet, "/v1/chats/"+chatID, carol.Token, nil, nil)
		s.Require().Equal(http.StatusNotFound, status)
	})
}

func readFrame(conn *websocket.Conn, out *frame) error {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
