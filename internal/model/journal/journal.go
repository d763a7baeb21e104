// Package journal defines the journal entry model persisted per user.
package journal

import "time"

// Entry is a saved journal entry. CreatedAt and UpdatedAt are assigned by
// the store.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Mood      string    `json:"mood"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft is the caller-supplied portion of a new entry.
type Draft struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Mood  string `json:"mood"`
}

// Patch updates individual entry fields; nil fields are left untouched.
type Patch struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
	Mood  *string `json:"mood,omitempty"`
}
