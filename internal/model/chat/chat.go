package chat

import "time"

// Chat is one conversation between a user and the assistant.
// LastOfferAt records the most recent save-offer injection and exists solely
// to enforce the offer cooldown.
type Chat struct {
	ID            string     `json:"id"`
	Title         string     `json:"title,omitempty"`
	Participants  []string   `json:"participants"`
	LastMessage   string     `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	LastOfferAt   *time.Time `json:"lastOfferAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Patch updates individual chat fields; nil fields are left untouched.
type Patch struct {
	LastMessage   *string
	LastMessageAt *time.Time
	LastOfferAt   *time.Time
}
