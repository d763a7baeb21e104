package flow

import (
	"time"

	"github.com/mindhaven/backend/internal/model/chat"
)

// Config carries the flow's heuristics and canned prompt texts. Everything
// here is data, not code, so deployments and tests can substitute phrase
// lists, the mood scale, or the cooldown without touching the flow itself.
type Config struct {
	// TriggerPhrases are matched as lower-case substrings of the user's
	// message; any hit is an explicit save request.
	TriggerPhrases []string
	// Keywords make a long-enough message an implicit offer candidate.
	Keywords []string
	// MinImplicitLength is the exclusive length floor (in runes) for the
	// implicit-candidate heuristic.
	MinImplicitLength int
	// Cooldown is the minimum gap between unsolicited offers per chat.
	Cooldown time.Duration

	// AssistantSender is the reserved sender id for injected messages.
	AssistantSender string
	// MoodScale is the ordered option list attached to mood prompts.
	MoodScale []chat.MoodOption

	OfferText       string
	OfferButtons    []string
	TitlePromptText string
	MoodPromptText  string
	DeclineText     string
	FollowupText    string
	SavedText       string
	FallbackBody    string
	FallbackTitle   string
}

// DefaultConfig returns the production heuristics and texts.
func DefaultConfig() Config {
	return Config{
		TriggerPhrases: []string{
			"save this to my journal",
			"save to my journal",
			"save this in my journal",
			"save to journal",
			"can i save this to my journal",
			"please save this to my journal",
			"save this chat to my journal",
		},
		Keywords: []string{
			"stressed", "anxious", "overwhelmed", "sad", "panic",
			"burnt out", "depressed", "tired", "angry", "worried",
		},
		MinImplicitLength: 20,
		Cooldown:          10 * time.Minute,
		AssistantSender:   "therapist-bot",
		MoodScale: []chat.MoodOption{
			{Value: 1, Emoji: "😞"},
			{Value: 2, Emoji: "😕"},
			{Value: 3, Emoji: "😐"},
			{Value: 4, Emoji: "🙂"},
			{Value: 5, Emoji: "😄"},
		},
		OfferText:       "Would you like me to save a short summary of this chat to your Journal?",
		OfferButtons:    []string{"Save", "Not now"},
		TitlePromptText: "What would you like the title to be?",
		MoodPromptText:  "How are you feeling right now?",
		DeclineText:     "No problem — whenever you’re ready, just say “save this to my journal.”",
		FollowupText:    "Would you like to keep talking about this, or switch topics?",
		SavedText:       "Saved to your Journal. 🌿",
		FallbackBody:    "Talked about personal feelings and plans.",
		FallbackTitle:   "Journal entry",
	}
}
