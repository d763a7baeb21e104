package store

import (
	"sync"

	"github.com/mindhaven/backend/internal/model/chat"
)

// subscribers fans appended messages out to per-chat listeners. Dispatch is
// serialized under the mutex; with a single writer per chat, listeners
// observe messages in append order.
type subscribers struct {
	mu     sync.Mutex
	nextID int
	byChat map[string]map[int]func(chat.Message)
}

func newSubscribers() *subscribers {
	return &subscribers{byChat: make(map[string]map[int]func(chat.Message))}
}

func (s *subscribers) add(chatID string, fn func(chat.Message)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if s.byChat[chatID] == nil {
		s.byChat[chatID] = make(map[int]func(chat.Message))
	}
	s.byChat[chatID][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.byChat[chatID], id)
	}
}

func (s *subscribers) notify(msg chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fn := range s.byChat[msg.ChatID] {
		fn(msg)
	}
}
