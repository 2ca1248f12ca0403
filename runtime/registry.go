package runtime

import (
	"chat-mesh/contract"
	"chat-mesh/domain"
	"sync"
)

type sinkSet map[string]contract.EventSink

// Registry tracks active subscriptions: message observers keyed by
// chat, and chat-list observers keyed by user. It is the only place
// that knows who is currently listening; the fan-out worker queries
// it per event and never caches the result.
type Registry struct {
	mu        sync.RWMutex
	chatSinks map[domain.ChatID]sinkSet
	userSinks map[string]sinkSet
}

func NewRegistry() *Registry {
	return &Registry{
		chatSinks: make(map[domain.ChatID]sinkSet),
		userSinks: make(map[string]sinkSet),
	}
}

// ChatSinks returns the currently registered observers of a chat's
// message log. Returns nil if nobody is listening.
func (r *Registry) ChatSinks(chatID domain.ChatID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.chatSinks[chatID])
}

// ChatListSinks returns the observers of a user's chat list.
func (r *Registry) ChatListSinks(userID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.userSinks[userID])
}

func (r *Registry) SubscribeChat(chatID domain.ChatID, subID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chatSinks[chatID]; !ok {
		r.chatSinks[chatID] = make(sinkSet)
	}
	r.chatSinks[chatID][subID] = sink
}

func (r *Registry) SubscribeChatList(userID, subID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.userSinks[userID]; !ok {
		r.userSinks[userID] = make(sinkSet)
	}
	r.userSinks[userID][subID] = sink
}

// UnsubscribeChat removes one observer and drops the chat entry when
// the last observer leaves, so the map doesn't accumulate empty sets.
func (r *Registry) UnsubscribeChat(chatID domain.ChatID, subID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sinks, ok := r.chatSinks[chatID]; ok {
		delete(sinks, subID)
		if len(sinks) == 0 {
			delete(r.chatSinks, chatID)
		}
	}
}

func (r *Registry) UnsubscribeChatList(userID, subID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sinks, ok := r.userSinks[userID]; ok {
		delete(sinks, subID)
		if len(sinks) == 0 {
			delete(r.userSinks, userID)
		}
	}
}

func collect(set sinkSet) []contract.EventSink {
	if len(set) == 0 {
		return nil
	}
	sinks := make([]contract.EventSink, 0, len(set))
	for _, sink := range set {
		sinks = append(sinks, sink)
	}
	return sinks
}
