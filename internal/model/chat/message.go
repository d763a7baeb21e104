package chat

import "time"

// MessageType distinguishes plain chat turns from the messages the
// journal-save flow injects into the transcript.
type MessageType string

const (
	TypeText              MessageType = "text"
	TypeSaveOffer         MessageType = "save_offer"
	TypeTitlePrompt       MessageType = "title_prompt"
	TypeMoodPrompt        MessageType = "mood_prompt"
	TypeInfo              MessageType = "info"
	TypeAssistantFollowup MessageType = "assistant_followup"
	TypeUserReply         MessageType = "user_reply"
)

// MetaFieldJournalTitle tags a user_reply that answers the title prompt.
const MetaFieldJournalTitle = "journal_title"

// Meta ties a user_reply to the prompt it answers, so it can be told apart
// from an ordinary chat message when scanning the history.
type Meta struct {
	Field string `json:"field"`
}

// MoodOption is one point of the mood scale attached to a mood_prompt.
type MoodOption struct {
	Value int    `json:"value"`
	Emoji string `json:"emoji"`
}

// Message is a single entry in a chat's append-only transcript. The store
// assigns ID and CreatedAt; past messages are never mutated or reordered.
type Message struct {
	ID        string       `json:"id"`
	ChatID    string       `json:"chatId"`
	Type      MessageType  `json:"type"`
	Text      string       `json:"text"`
	SenderID  string       `json:"senderId"`
	Buttons   []string     `json:"buttons,omitempty"`
	Options   []MoodOption `json:"options,omitempty"`
	Meta      *Meta        `json:"meta,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}
