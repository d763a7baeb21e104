package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindhaven/backend/internal/model/chat"
	"github.com/mindhaven/backend/internal/model/journal"
)

// MemoryStore is the in-memory backend, suitable for tests and single-node
// development runs.
type MemoryStore struct {
	mu       sync.RWMutex
	chats    map[string]chat.Chat
	messages map[string][]chat.Message
	journals map[string][]journal.Entry

	subs *subscribers
}

// NewMemoryStore bootstraps an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chats:    make(map[string]chat.Chat),
		messages: make(map[string][]chat.Message),
		journals: make(map[string][]journal.Entry),
		subs:     newSubscribers(),
	}
}

// CreateChat provisions a chat, assigning ID and timestamps.
func (s *MemoryStore) CreateChat(_ context.Context, c chat.Chat) (chat.Chat, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	s.mu.Lock()
	s.chats[c.ID] = c
	s.messages[c.ID] = make([]chat.Message, 0, 16)
	s.mu.Unlock()

	return c, nil
}

// GetChat retrieves a chat by identifier.
func (s *MemoryStore) GetChat(_ context.Context, chatID string) (chat.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chats[chatID]
	if !ok {
		return chat.Chat{}, ErrChatNotFound
	}
	return c, nil
}

// ChatsByUser returns the chats the user participates in, most recently
// updated first.
func (s *MemoryStore) ChatsByUser(_ context.Context, userID string) ([]chat.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []chat.Chat
	for _, c := range s.chats {
		for _, p := range c.Participants {
			if p == userID {
				out = append(out, c)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// UpdateChatFields applies the non-nil fields of the patch.
func (s *MemoryStore) UpdateChatFields(_ context.Context, chatID string, patch chat.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[chatID]
	if !ok {
		return ErrChatNotFound
	}
	if patch.LastMessage != nil {
		c.LastMessage = *patch.LastMessage
	}
	if patch.LastMessageAt != nil {
		c.LastMessageAt = patch.LastMessageAt
	}
	if patch.LastOfferAt != nil {
		c.LastOfferAt = patch.LastOfferAt
	}
	c.UpdatedAt = time.Now().UTC()
	s.chats[chatID] = c
	return nil
}

// Append adds a message to the chat's log and notifies subscribers.
func (s *MemoryStore) Append(_ context.Context, chatID string, msg chat.Message) (string, error) {
	s.mu.Lock()
	if _, ok := s.chats[chatID]; !ok {
		s.mu.Unlock()
		return "", ErrChatNotFound
	}

	msg.ID = uuid.NewString()
	msg.ChatID = chatID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.messages[chatID] = append(s.messages[chatID], msg)
	s.mu.Unlock()

	s.subs.notify(msg)
	return msg.ID, nil
}

// Messages returns the chat's messages in append order.
func (s *MemoryStore) Messages(_ context.Context, chatID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.messages[chatID]
	if !ok {
		return nil, ErrChatNotFound
	}
	copied := make([]chat.Message, len(msgs))
	copy(copied, msgs)
	return copied, nil
}

// Subscribe registers fn for messages appended to the chat.
func (s *MemoryStore) Subscribe(chatID string, fn func(chat.Message)) func() {
	return s.subs.add(chatID, fn)
}

// CreateEntry persists a new journal entry for the user.
func (s *MemoryStore) CreateEntry(_ context.Context, userID string, draft journal.Draft) (string, error) {
	now := time.Now().UTC()
	entry := journal.Entry{
		ID:        uuid.NewString(),
		Title:     draft.Title,
		Body:      draft.Body,
		Mood:      draft.Mood,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.journals[userID] = append(s.journals[userID], entry)
	s.mu.Unlock()
	return entry.ID, nil
}

// Entries returns the user's journal entries, newest first.
func (s *MemoryStore) Entries(_ context.Context, userID string) ([]journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.journals[userID]
	copied := make([]journal.Entry, len(entries))
	copy(copied, entries)
	sort.Slice(copied, func(i, j int) bool { return copied[i].CreatedAt.After(copied[j].CreatedAt) })
	return copied, nil
}

// UpdateEntry applies the non-nil fields of the patch.
func (s *MemoryStore) UpdateEntry(_ context.Context, userID, entryID string, patch journal.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.journals[userID]
	for i, e := range entries {
		if e.ID != entryID {
			continue
		}
		if patch.Title != nil {
			e.Title = *patch.Title
		}
		if patch.Body != nil {
			e.Body = *patch.Body
		}
		if patch.Mood != nil {
			e.Mood = *patch.Mood
		}
		e.UpdatedAt = time.Now().UTC()
		entries[i] = e
		return nil
	}
	return ErrEntryNotFound
}

// DeleteEntry removes an entry from the user's journal.
func (s *MemoryStore) DeleteEntry(_ context.Context, userID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.journals[userID]
	for i, e := range entries {
		if e.ID == entryID {
			s.journals[userID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}
