package flow

import (
	"context"
	"testing"

	"github.com/mindhaven/backend/internal/model/chat"
)

func lastOfType(msgs []chat.Message, typ chat.MessageType) *chat.Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == typ {
			return &msgs[i]
		}
	}
	return nil
}

// TestFullSaveEpisode walks the happy path end to end: explicit trigger →
// offer → Save → title → mood → persisted entry plus confirmation messages.
func TestFullSaveEpisode(t *testing.T) {
	f, st := newTestFlow()
	ctx := context.Background()

	c, _ := st.CreateChat(ctx, chat.Chat{Participants: []string{"u1", "therapist-bot"}})
	seed := []string{
		"Hi, how are you feeling today?",
		"Rough start, my lecture went badly and I feel worried about exams",
	}
	_, _ = st.Append(ctx, c.ID, chat.Message{Type: chat.TypeText, Text: seed[0], SenderID: "therapist-bot"})
	_, _ = st.Append(ctx, c.ID, chat.Message{Type: chat.TypeText, Text: seed[1], SenderID: "u1"})

	if err := f.MaybeOfferAfterUserMessage(ctx, c.ID, "I save this to my journal"); err != nil {
		t.Fatalf("offer err: %v", err)
	}
	msgs, _ := st.Messages(ctx, c.ID)
	if got := countByType(msgs, chat.TypeSaveOffer); got != 1 {
		t.Fatalf("expected 1 save_offer, got %d", got)
	}
	if got := PhaseOf(msgs); got != PhaseOffered {
		t.Fatalf("phase after offer = %s", got)
	}

	if err := f.RespondToOffer(ctx, c.ID, ChoiceSave); err != nil {
		t.Fatalf("RespondToOffer err: %v", err)
	}
	msgs, _ = st.Messages(ctx, c.ID)
	if got := countByType(msgs, chat.TypeTitlePrompt); got != 1 {
		t.Fatalf("expected 1 title_prompt, got %d", got)
	}
	if got := PhaseOf(msgs); got != PhaseTitleCapture {
		t.Fatalf("phase after save choice = %s", got)
	}

	if err := f.OnTitleProvided(ctx, c.ID, "u1", "Rough day"); err != nil {
		t.Fatalf("OnTitleProvided err: %v", err)
	}
	msgs, _ = st.Messages(ctx, c.ID)

	reply := lastOfType(msgs, chat.TypeUserReply)
	if reply == nil || reply.Meta == nil || reply.Meta.Field != chat.MetaFieldJournalTitle {
		t.Fatal("expected user_reply tagged meta.field=journal_title")
	}
	if reply.Text != "Rough day" {
		t.Fatalf("unexpected title reply text %q", reply.Text)
	}

	moodPrompt := lastOfType(msgs, chat.TypeMoodPrompt)
	if moodPrompt == nil {
		t.Fatal("expected mood_prompt after title")
	}
	if len(moodPrompt.Options) != 5 {
		t.Fatalf("expected 5 mood options, got %d", len(moodPrompt.Options))
	}
	for i, opt := range moodPrompt.Options {
		if opt.Value != i+1 {
			t.Fatalf("mood option %d has value %d", i, opt.Value)
		}
	}
	if got := PhaseOf(msgs); got != PhaseMoodCapture {
		t.Fatalf("phase after title = %s", got)
	}

	if err := f.OnMoodSelected(ctx, c.ID, "u1", 4); err != nil {
		t.Fatalf("OnMoodSelected err: %v", err)
	}

	entries, _ := st.Entries(ctx, "u1")
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 journal entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Title != "Rough day" {
		t.Fatalf("entry title = %q", entry.Title)
	}
	if entry.Mood != "🙂" {
		t.Fatalf("entry mood = %q, want value-4 emoji", entry.Mood)
	}
	if len([]rune(entry.Body)) > 300 {
		t.Fatalf("entry body exceeds 300 chars: %d", len([]rune(entry.Body)))
	}
	if entry.Body == "" {
		t.Fatal("entry body should not be empty")
	}

	msgs, _ = st.Messages(ctx, c.ID)
	if got := countByType(msgs, chat.TypeInfo); got != 1 {
		t.Fatalf("expected 1 info confirmation, got %d", got)
	}
	if got := countByType(msgs, chat.TypeAssistantFollowup); got != 1 {
		t.Fatalf("expected 1 assistant_followup, got %d", got)
	}
	if got := PhaseOf(msgs); got != PhasePersisted {
		t.Fatalf("phase after persist = %s", got)
	}
}

func TestDeclineOffer(t *testing.T) {
	f, st := newTestFlow()
	ctx := context.Background()

	c, _ := st.CreateChat(ctx, chat.Chat{Participants: []string{"u1", "therapist-bot"}})
	if err := f.InjectSaveOffer(ctx, c.ID); err != nil {
		t.Fatalf("InjectSaveOffer err: %v", err)
	}
	before, _ := st.GetChat(ctx, c.ID)

	if err := f.RespondToOffer(ctx, c.ID, ChoiceNotNow); err != nil {
		t.Fatalf("RespondToOffer err: %v", err)
	}

	entries, _ := st.Entries(ctx, "u1")
	if len(entries) != 0 {
		t.Fatal("decline must not create a journal entry")
	}

	msgs, _ := st.Messages(ctx, c.ID)
	if got := countByType(msgs, chat.TypeInfo); got != 1 {
		t.Fatalf("expected 1 info message, got %d", got)
	}
	if got := countByType(msgs, chat.TypeAssistantFollowup); got != 1 {
		t.Fatalf("expected 1 assistant_followup, got %d", got)
	}

	after, _ := st.GetChat(ctx, c.ID)
	if after.LastOfferAt == nil || !after.LastOfferAt.After(*before.LastOfferAt) {
		t.Fatal("decline must refresh lastOfferAt")
	}

	if got := PhaseOf(msgs); got != PhaseDeclined {
		t.Fatalf("phase after decline = %s", got)
	}
}

func TestUnknownOfferChoiceRejected(t *testing.T) {
	f, st := newTestFlow()
	ctx := context.Background()

	c, _ := st.CreateChat(ctx, chat.Chat{Participants: []string{"u1", "therapist-bot"}})
	if err := f.RespondToOffer(ctx, c.ID, "Maybe"); err == nil {
		t.Fatal("expected error for unknown choice")
	}
}

func TestMoodWithoutUserIsDropped(t *testing.T) {
	f, st := newTestFlow()
	ctx := context.Background()

	c, _ := st.CreateChat(ctx, chat.Chat{Participants: []string{"u1", "therapist-bot"}})
	if err := f.OnMoodSelected(ctx, c.ID, "", 3); err != nil {
		t.Fatalf("expected silent drop, got %v", err)
	}

	msgs, _ := st.Messages(ctx, c.ID)
	if len(msgs) != 0 {
		t.Fatal("no messages should be injected without a user id")
	}
}

func TestPhaseOfEmptyHistory(t *testing.T) {
	if got := PhaseOf(nil); got != PhaseIdle {
		t.Fatalf("empty history phase = %s", got)
	}
	msgs := []chat.Message{
		{Type: chat.TypeText, Text: "hi", SenderID: "u1"},
		{Type: chat.TypeText, Text: "hello", SenderID: "therapist-bot"},
	}
	if got := PhaseOf(msgs); got != PhaseIdle {
		t.Fatalf("plain chat phase = %s", got)
	}
}

// TestOverlappingEpisodesAllowed documents that an unanswered prompt does not
// expire: a later offer starts a new episode on top of the open one.
func TestOverlappingEpisodesAllowed(t *testing.T) {
	f, st := newTestFlow()
	ctx := context.Background()

	c, _ := st.CreateChat(ctx, chat.Chat{Participants: []string{"u1", "therapist-bot"}})
	_ = f.InjectSaveOffer(ctx, c.ID)
	_ = f.RespondToOffer(ctx, c.ID, ChoiceSave)
	// User never supplies a title; an explicit request later still injects a
	// fresh offer.
	if err := f.MaybeOfferAfterUserMessage(ctx, c.ID, "save this to my journal"); err != nil {
		t.Fatalf("second offer err: %v", err)
	}

	msgs, _ := st.Messages(ctx, c.ID)
	if got := countByType(msgs, chat.TypeSaveOffer); got != 2 {
		t.Fatalf("expected 2 save_offers, got %d", got)
	}
	if got := PhaseOf(msgs); got != PhaseOffered {
		t.Fatalf("phase should follow the newest episode, got %s", got)
	}
}
