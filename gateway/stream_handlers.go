package gateway

import (
	"chat-mesh/domain"
	"chat-mesh/domain/event"
	"chat-mesh/runtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// streamFrame is the wire shape of one delivery. Type selects which
// payload fields are set. Clients rebuild ordered state by applying
// frames in arrival order: append/edit as upserts by message id,
// remove as deletion, snapshot as a full baseline replacement.
type streamFrame struct {
	Type      string           `json:"type"`
	Messages  []domain.Message `json:"messages,omitempty"`
	Message   *domain.Message  `json:"message,omitempty"`
	MessageID string           `json:"message_id,omitempty"`
	ChatIDs   []domain.ChatID  `json:"chat_ids,omitempty"`
	Chat      *domain.Chat     `json:"chat,omitempty"`
}

// streamMessages upgrades to WebSocket and feeds the client one
// chat's message log: current snapshot first, then deltas in commit
// order. A lost delta (slow client) triggers a fresh snapshot frame
// as the new baseline instead of a silent gap.
func (s *Server) streamMessages(c *gin.Context) {
	chatID := domain.ChatID(c.Param("id"))
	if !s.requireMembership(c, chatID) {
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub, snapshot, err := s.hub.SubscribeMessages(chatID, s.streamBuffer)
	if err != nil {
		s.log.Error("Subscription failed", "chat_id", chatID, "error", err)
		return
	}
	defer sub.Cancel()

	if err := conn.WriteJSON(snapshotFrame(snapshot)); err != nil {
		return
	}

	s.pump(c, conn, sub, func() (streamFrame, error) {
		msgs, err := s.hub.MessagesSnapshot(chatID)
		return snapshotFrame(msgs), err
	})
}

// streamChatList feeds the caller's chat-id set and a delta for every
// chat they are added to from then on.
func (s *Server) streamChatList(c *gin.Context) {
	userID := GetUserID(c)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub, snapshot, err := s.hub.SubscribeChatList(userID, s.streamBuffer)
	if err != nil {
		s.log.Error("Subscription failed", "user_id", userID, "error", err)
		return
	}
	defer sub.Cancel()

	if err := conn.WriteJSON(chatListFrame(snapshot)); err != nil {
		return
	}

	s.pump(c, conn, sub, func() (streamFrame, error) {
		ids, err := s.hub.ChatListSnapshot(userID)
		return chatListFrame(ids), err
	})
}

// pump forwards deliveries until the client leaves or the server
// stops. The read loop exists only to notice the peer closing; the
// protocol carries no client-to-server frames.
func (s *Server) pump(c *gin.Context, conn *websocket.Conn, sub *runtime.Subscription,
	resync func() (streamFrame, error)) {
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-clientGone:
			return
		case evt := <-sub.Deliveries():
			if err := conn.WriteJSON(toFrame(evt)); err != nil {
				return
			}
			if sub.NeedsResync() {
				frame, err := resync()
				if err != nil {
					s.log.Error("Resync snapshot failed", "error", err)
					return
				}
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
			}
		}
	}
}

func snapshotFrame(messages []domain.Message) streamFrame {
	if messages == nil {
		messages = []domain.Message{}
	}
	return streamFrame{Type: "snapshot", Messages: messages}
}

func chatListFrame(ids []domain.ChatID) streamFrame {
	if ids == nil {
		ids = []domain.ChatID{}
	}
	return streamFrame{Type: "chat_list", ChatIDs: ids}
}

func toFrame(evt event.DomainEvent) streamFrame {
	switch e := evt.(type) {
	case event.MessageAppended:
		return streamFrame{Type: "append", Message: &e.Message}
	case event.MessageEdited:
		return streamFrame{Type: "edit", Message: &e.Message}
	case event.MessageRemoved:
		return streamFrame{Type: "remove", MessageID: e.MessageID.String()}
	case event.ChatCreated:
		return streamFrame{Type: "chat_created", Chat: &e.Chat}
	default:
		return streamFrame{Type: "unknown"}
	}
}
