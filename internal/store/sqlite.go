package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mindhaven/backend/internal/model/chat"
	"github.com/mindhaven/backend/internal/model/journal"
)

// SQLiteStore is the persistent backend over database/sql. Message order is
// the rowid insertion order, never wall-clock time.
type SQLiteStore struct {
	db   *sql.DB
	subs *subscribers
}

// NewSQLiteStore opens (creating if necessary) the database at dsn and runs
// migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db, subs: newSubscribers()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chats (
			chat_id TEXT PRIMARY KEY,
			title TEXT,
			participants TEXT NOT NULL,
			last_message TEXT,
			last_message_at DATETIME,
			last_offer_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			chat_id TEXT NOT NULL,
			type TEXT NOT NULL,
			text TEXT NOT NULL,
			sender_id TEXT NOT NULL,
			buttons TEXT,
			options TEXT,
			meta TEXT,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (chat_id) REFERENCES chats(chat_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id)`,
		`CREATE TABLE IF NOT EXISTS journals (
			journal_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			mood TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journals_user ON journals(user_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateChat provisions a chat, assigning ID and timestamps.
func (s *SQLiteStore) CreateChat(ctx context.Context, c chat.Chat) (chat.Chat, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	participants, err := json.Marshal(c.Participants)
	if err != nil {
		return chat.Chat{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chats (chat_id, title, participants, last_message, last_message_at, last_offer_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, string(participants), nullString(c.LastMessage), nullTime(c.LastMessageAt), nullTime(c.LastOfferAt), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return chat.Chat{}, err
	}
	return c, nil
}

// GetChat retrieves a chat by identifier.
func (s *SQLiteStore) GetChat(ctx context.Context, chatID string) (chat.Chat, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT chat_id, title, participants, last_message, last_message_at, last_offer_at, created_at, updated_at
		 FROM chats WHERE chat_id = ?`, chatID)
	return scanChat(row)
}

// ChatsByUser returns the chats the user participates in, most recently
// updated first.
func (s *SQLiteStore) ChatsByUser(ctx context.Context, userID string) ([]chat.Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_id, title, participants, last_message, last_message_at, last_offer_at, created_at, updated_at
		 FROM chats ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []chat.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		for _, p := range c.Participants {
			if p == userID {
				out = append(out, c)
				break
			}
		}
	}
	return out, rows.Err()
}

// UpdateChatFields applies the non-nil fields of the patch.
func (s *SQLiteStore) UpdateChatFields(ctx context.Context, chatID string, patch chat.Patch) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.LastMessage != nil {
		sets = append(sets, "last_message = ?")
		args = append(args, *patch.LastMessage)
	}
	if patch.LastMessageAt != nil {
		sets = append(sets, "last_message_at = ?")
		args = append(args, patch.LastMessageAt.UTC())
	}
	if patch.LastOfferAt != nil {
		sets = append(sets, "last_offer_at = ?")
		args = append(args, patch.LastOfferAt.UTC())
	}
	args = append(args, chatID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE chats SET "+strings.Join(sets, ", ")+" WHERE chat_id = ?", args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrChatNotFound
	}
	return nil
}

// Append adds a message to the chat's log and notifies subscribers.
func (s *SQLiteStore) Append(ctx context.Context, chatID string, msg chat.Message) (string, error) {
	if _, err := s.GetChat(ctx, chatID); err != nil {
		return "", err
	}

	msg.ID = uuid.NewString()
	msg.ChatID = chatID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	buttons, err := marshalOrNull(msg.Buttons, len(msg.Buttons) > 0)
	if err != nil {
		return "", err
	}
	options, err := marshalOrNull(msg.Options, len(msg.Options) > 0)
	if err != nil {
		return "", err
	}
	meta, err := marshalOrNull(msg.Meta, msg.Meta != nil)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, chat_id, type, text, sender_id, buttons, options, meta, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, chatID, string(msg.Type), msg.Text, msg.SenderID, buttons, options, meta, msg.CreatedAt)
	if err != nil {
		return "", err
	}

	s.subs.notify(msg)
	return msg.ID, nil
}

// Messages returns the chat's messages in append order.
func (s *SQLiteStore) Messages(ctx context.Context, chatID string) ([]chat.Message, error) {
	if _, err := s.GetChat(ctx, chatID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, chat_id, type, text, sender_id, buttons, options, meta, created_at
		 FROM messages WHERE chat_id = ? ORDER BY rowid ASC`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []chat.Message
	for rows.Next() {
		var (
			msg                    chat.Message
			msgType                string
			buttons, options, meta sql.NullString
		)
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msgType, &msg.Text, &msg.SenderID, &buttons, &options, &meta, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Type = chat.MessageType(msgType)
		if buttons.Valid {
			if err := json.Unmarshal([]byte(buttons.String), &msg.Buttons); err != nil {
				return nil, err
			}
		}
		if options.Valid {
			if err := json.Unmarshal([]byte(options.String), &msg.Options); err != nil {
				return nil, err
			}
		}
		if meta.Valid {
			msg.Meta = &chat.Meta{}
			if err := json.Unmarshal([]byte(meta.String), msg.Meta); err != nil {
				return nil, err
			}
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

// Subscribe registers fn for messages appended to the chat.
func (s *SQLiteStore) Subscribe(chatID string, fn func(chat.Message)) func() {
	return s.subs.add(chatID, fn)
}

// CreateEntry persists a new journal entry for the user.
func (s *SQLiteStore) CreateEntry(ctx context.Context, userID string, draft journal.Draft) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journals (journal_id, user_id, title, body, mood, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, userID, draft.Title, draft.Body, draft.Mood, now, now)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Entries returns the user's journal entries, newest first.
func (s *SQLiteStore) Entries(ctx context.Context, userID string) ([]journal.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT journal_id, title, body, mood, created_at, updated_at
		 FROM journals WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []journal.Entry
	for rows.Next() {
		var e journal.Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Body, &e.Mood, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateEntry applies the non-nil fields of the patch.
func (s *SQLiteStore) UpdateEntry(ctx context.Context, userID, entryID string, patch journal.Patch) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Body != nil {
		sets = append(sets, "body = ?")
		args = append(args, *patch.Body)
	}
	if patch.Mood != nil {
		sets = append(sets, "mood = ?")
		args = append(args, *patch.Mood)
	}
	args = append(args, entryID, userID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE journals SET "+strings.Join(sets, ", ")+" WHERE journal_id = ? AND user_id = ?", args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// DeleteEntry removes an entry from the user's journal.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, userID, entryID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM journals WHERE journal_id = ? AND user_id = ?`, entryID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

type chatScanner interface {
	Scan(dest ...any) error
}

func scanChat(row chatScanner) (chat.Chat, error) {
	var (
		c                        chat.Chat
		title, lastMsg           sql.NullString
		participants             string
		lastMessageAt, lastOffer sql.NullTime
	)
	err := row.Scan(&c.ID, &title, &participants, &lastMsg, &lastMessageAt, &lastOffer, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return chat.Chat{}, ErrChatNotFound
	}
	if err != nil {
		return chat.Chat{}, err
	}
	c.Title = title.String
	c.LastMessage = lastMsg.String
	if err := json.Unmarshal([]byte(participants), &c.Participants); err != nil {
		return chat.Chat{}, err
	}
	if lastMessageAt.Valid {
		t := lastMessageAt.Time
		c.LastMessageAt = &t
	}
	if lastOffer.Valid {
		t := lastOffer.Time
		c.LastOfferAt = &t
	}
	return c, nil
}

func marshalOrNull(v any, present bool) (any, error) {
	if !present {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
