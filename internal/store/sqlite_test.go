package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mindhaven/backend/internal/model/chat"
	"github.com/mindhaven/backend/internal/model/journal"
)

func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteChatRoundTrip(t *testing.T) {
	st := newSQLiteTestStore(t)
	ctx := context.Background()

	created, err := st.CreateChat(ctx, chat.Chat{
		Title:        "Therapy Buddy",
		Participants: []string{"u1", "therapist-bot"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := st.GetChat(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Title, got.Title)
	require.Equal(t, created.Participants, got.Participants)
	require.Nil(t, got.LastOfferAt)

	_, err = st.GetChat(ctx, "missing")
	require.ErrorIs(t, err, ErrChatNotFound)
}

func TestSQLiteMessageRoundTrip(t *testing.T) {
	st := newSQLiteTestStore(t)
	ctx := context.Background()

	c, err := st.CreateChat(ctx, chat.Chat{Participants: []string{"u1"}})
	require.NoError(t, err)

	_, err = st.Append(ctx, c.ID, chat.Message{
		Type:     chat.TypeSaveOffer,
		Text:     "Would you like to save this conversation to your journal?",
		SenderID: "therapist-bot",
		Buttons:  []string{"Save", "Not now"},
	})
	require.NoError(t, err)

	_, err = st.Append(ctx, c.ID, chat.Message{
		Type:     chat.TypeMoodPrompt,
		Text:     "How are you feeling about it?",
		SenderID: "therapist-bot",
		Options: []chat.MoodOption{
			{Value: 1, Emoji: "😞"},
			{Value: 5, Emoji: "😄"},
		},
	})
	require.NoError(t, err)

	_, err = st.Append(ctx, c.ID, chat.Message{
		Type:     chat.TypeUserReply,
		Text:     "Rough day",
		SenderID: "u1",
		Meta:     &chat.Meta{Field: chat.MetaFieldJournalTitle},
	})
	require.NoError(t, err)

	msgs, err := st.Messages(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	require.Equal(t, chat.TypeSaveOffer, msgs[0].Type)
	require.Equal(t, []string{"Save", "Not now"}, msgs[0].Buttons)
	require.Nil(t, msgs[0].Meta)

	require.Equal(t, []chat.MoodOption{{Value: 1, Emoji: "😞"}, {Value: 5, Emoji: "😄"}}, msgs[1].Options)

	require.NotNil(t, msgs[2].Meta)
	require.Equal(t, chat.MetaFieldJournalTitle, msgs[2].Meta.Field)
}

func TestSQLiteMessagesKeepInsertionOrder(t *testing.T) {
	st := newSQLiteTestStore(t)
	ctx := context.Background()

	c, err := st.CreateChat(ctx, chat.Chat{Participants: []string{"u1"}})
	require.NoError(t, err)

	// Identical timestamps: order must still come from insertion, not time.
	at := time.Now().UTC()
	for _, text := range []string{"a", "b", "c"} {
		_, err := st.Append(ctx, c.ID, chat.Message{Type: chat.TypeText, Text: text, SenderID: "u1", CreatedAt: at})
		require.NoError(t, err)
	}

	msgs, err := st.Messages(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, "a", msgs[0].Text)
	require.Equal(t, "b", msgs[1].Text)
	require.Equal(t, "c", msgs[2].Text)
}

func TestSQLiteUpdateChatFields(t *testing.T) {
	st := newSQLiteTestStore(t)
	ctx := context.Background()

	c, err := st.CreateChat(ctx, chat.Chat{Participants: []string{"u1"}})
	require.NoError(t, err)

	offerAt := time.Now().UTC().Truncate(time.Second)
	preview := "hello there"
	require.NoError(t, st.UpdateChatFields(ctx, c.ID, chat.Patch{LastMessage: &preview, LastOfferAt: &offerAt}))

	got, err := st.GetChat(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, preview, got.LastMessage)
	require.NotNil(t, got.LastOfferAt)
	require.True(t, got.LastOfferAt.Equal(offerAt))

	require.ErrorIs(t, st.UpdateChatFields(ctx, "missing", chat.Patch{LastMessage: &preview}), ErrChatNotFound)
}

func TestSQLiteJournalCRUD(t *testing.T) {
	st := newSQLiteTestStore(t)
	ctx := context.Background()

	id, err := st.CreateEntry(ctx, "u1", journal.Draft{Title: "Rough day", Body: "body", Mood: "😐"})
	require.NoError(t, err)

	entries, err := st.Entries(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, id, entries[0].ID)
	require.Equal(t, "😐", entries[0].Mood)

	other, err := st.Entries(ctx, "u2")
	require.NoError(t, err)
	require.Empty(t, other)

	mood := "😄"
	require.NoError(t, st.UpdateEntry(ctx, "u1", id, journal.Patch{Mood: &mood}))
	entries, err = st.Entries(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "😄", entries[0].Mood)
	require.Equal(t, "Rough day", entries[0].Title)

	require.ErrorIs(t, st.UpdateEntry(ctx, "u2", id, journal.Patch{Mood: &mood}), ErrEntryNotFound)

	require.NoError(t, st.DeleteEntry(ctx, "u1", id))
	require.ErrorIs(t, st.DeleteEntry(ctx, "u1", id), ErrEntryNotFound)
}
