package flow

import (
	"context"
	"fmt"

	"github.com/mindhaven/backend/internal/model/chat"
	"github.com/mindhaven/backend/internal/model/journal"
)

// Offer choices as shown on the save_offer buttons.
const (
	ChoiceSave   = "Save"
	ChoiceNotNow = "Not now"
)

// RespondToOffer advances the episode after the user answers a save offer.
// Save moves to the title prompt; Not now closes the episode with a decline
// note and refreshes lastOfferAt so a new cooldown window starts.
func (f *Flow) RespondToOffer(ctx context.Context, chatID, choice string) error {
	switch choice {
	case ChoiceSave:
		_, err := f.messages.Append(ctx, chatID, chat.Message{
			Type:     chat.TypeTitlePrompt,
			Text:     f.cfg.TitlePromptText,
			SenderID: f.cfg.AssistantSender,
		})
		return err

	case ChoiceNotNow:
		if _, err := f.messages.Append(ctx, chatID, chat.Message{
			Type:     chat.TypeInfo,
			Text:     f.cfg.DeclineText,
			SenderID: f.cfg.AssistantSender,
		}); err != nil {
			return err
		}
		if _, err := f.messages.Append(ctx, chatID, chat.Message{
			Type:     chat.TypeAssistantFollowup,
			Text:     f.cfg.FollowupText,
			SenderID: f.cfg.AssistantSender,
		}); err != nil {
			return err
		}
		now := f.now()
		return f.messages.UpdateChatFields(ctx, chatID, chat.Patch{LastOfferAt: &now})

	default:
		return fmt.Errorf("unknown offer choice %q", choice)
	}
}

// OnTitleProvided records the user's title as a tagged user_reply and injects
// the mood prompt.
func (f *Flow) OnTitleProvided(ctx context.Context, chatID, userID, title string) error {
	if userID == "" {
		userID = "user"
	}
	if _, err := f.messages.Append(ctx, chatID, chat.Message{
		Type:     chat.TypeUserReply,
		Text:     title,
		Meta:     &chat.Meta{Field: chat.MetaFieldJournalTitle},
		SenderID: userID,
	}); err != nil {
		return err
	}

	_, err := f.messages.Append(ctx, chatID, chat.Message{
		Type:     chat.TypeMoodPrompt,
		Text:     f.cfg.MoodPromptText,
		Options:  f.cfg.MoodScale,
		SenderID: f.cfg.AssistantSender,
	})
	return err
}

// OnMoodSelected completes the episode: it summarizes the full transcript,
// persists the journal entry, and injects the confirmation and follow-up
// messages. Without a user id the selection is silently dropped.
func (f *Flow) OnMoodSelected(ctx context.Context, chatID, userID string, mood int) error {
	if userID == "" {
		return nil
	}

	messages, err := f.messages.Messages(ctx, chatID)
	if err != nil {
		return err
	}

	title, body := f.Summarize(messages)
	moodEmoji := f.moodEmoji(mood)

	if _, err := f.journals.CreateEntry(ctx, userID, journal.Draft{
		Title: title,
		Body:  body,
		Mood:  moodEmoji,
	}); err != nil {
		return err
	}

	if _, err := f.messages.Append(ctx, chatID, chat.Message{
		Type:     chat.TypeInfo,
		Text:     f.cfg.SavedText,
		SenderID: f.cfg.AssistantSender,
	}); err != nil {
		return err
	}
	if _, err := f.messages.Append(ctx, chatID, chat.Message{
		Type:     chat.TypeAssistantFollowup,
		Text:     f.cfg.FollowupText,
		SenderID: f.cfg.AssistantSender,
	}); err != nil {
		return err
	}

	f.log.Info().Str("chat_id", chatID).Str("user_id", userID).Msg("journal entry saved from chat")
	return nil
}

func (f *Flow) moodEmoji(mood int) string {
	for _, opt := range f.cfg.MoodScale {
		if opt.Value == mood {
			return opt.Emoji
		}
	}
	return "🙂"
}

// Phase is the derived position of the most recent save episode.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseOffered      Phase = "offered"
	PhaseTitleCapture Phase = "title_capture"
	PhaseMoodCapture  Phase = "mood_capture"
	PhaseDeclined     Phase = "declined"
	PhasePersisted    Phase = "persisted"
)

// PhaseOf re-derives the current episode phase from the transcript alone.
// The flow stores no separate state record, so this reconstruction is what
// lets an episode resume across app restarts. An unanswered prompt leaves
// the episode open indefinitely; there is deliberately no timeout.
func PhaseOf(messages []chat.Message) Phase {
	marker := -1
	var markerType chat.MessageType
	for i := len(messages) - 1; i >= 0; i-- {
		switch messages[i].Type {
		case chat.TypeSaveOffer, chat.TypeTitlePrompt, chat.TypeMoodPrompt:
			marker = i
			markerType = messages[i].Type
		}
		if marker != -1 {
			break
		}
	}
	if marker == -1 {
		return PhaseIdle
	}

	closed := false
	for _, m := range messages[marker+1:] {
		if m.Type == chat.TypeInfo {
			closed = true
			break
		}
	}

	switch markerType {
	case chat.TypeSaveOffer:
		if closed {
			return PhaseDeclined
		}
		return PhaseOffered
	case chat.TypeTitlePrompt:
		return PhaseTitleCapture
	default: // mood_prompt
		if closed {
			return PhasePersisted
		}
		return PhaseMoodCapture
	}
}
