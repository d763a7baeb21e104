// Package store provides the message and journal store connectors backing
// the chat transcript and the saved journal entries.
package store

import (
	"context"
	"errors"

	"github.com/mindhaven/backend/internal/model/chat"
	"github.com/mindhaven/backend/internal/model/journal"
)

var (
	ErrChatNotFound  = errors.New("chat not found")
	ErrEntryNotFound = errors.New("journal entry not found")
)

// MessageStore holds chats and their append-only message logs. Message order
// within a chat is insertion order; with the one-writer-per-chat model the
// service assumes, subscribers observe appends in that same order.
type MessageStore interface {
	CreateChat(ctx context.Context, c chat.Chat) (chat.Chat, error)
	GetChat(ctx context.Context, chatID string) (chat.Chat, error)
	ChatsByUser(ctx context.Context, userID string) ([]chat.Chat, error)
	UpdateChatFields(ctx context.Context, chatID string, patch chat.Patch) error

	Append(ctx context.Context, chatID string, msg chat.Message) (string, error)
	Messages(ctx context.Context, chatID string) ([]chat.Message, error)

	// Subscribe registers fn for every message appended to the chat and
	// returns an unsubscribe func. Callbacks run synchronously on the
	// appending goroutine and must not re-enter the store. Notification
	// happens after the append commits; concurrent appends to the same chat
	// may reach subscribers out of log order.
	Subscribe(chatID string, fn func(chat.Message)) func()
}

// JournalStore holds each user's journal entries.
type JournalStore interface {
	CreateEntry(ctx context.Context, userID string, draft journal.Draft) (string, error)
	Entries(ctx context.Context, userID string) ([]journal.Entry, error)
	UpdateEntry(ctx context.Context, userID, entryID string, patch journal.Patch) error
	DeleteEntry(ctx context.Context, userID, entryID string) error
}

// Store combines both connectors; the memory and sqlite backends implement
// the full set.
type Store interface {
	MessageStore
	JournalStore
}
