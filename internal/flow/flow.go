// Package flow implements the journal-save conversational flow: it watches a
// chat transcript, decides when to offer saving a journal entry, walks the
// user through the title and mood prompts, and synthesizes the entry from the
// conversation when the mood step completes.
//
// Episode state lives entirely in the message history; there is no separate
// state record, so the current phase is always reconstructible from the
// transcript alone (see PhaseOf).
package flow

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mindhaven/backend/internal/store"
)

// Flow drives a single chat's save episodes against the message and journal
// stores. It assumes one active writer per chat and performs no locking; the
// cooldown check is a plain read-then-write.
type Flow struct {
	cfg      Config
	messages store.MessageStore
	journals store.JournalStore
	log      zerolog.Logger

	now func() time.Time
}

// New wires a Flow over the supplied stores.
func New(cfg Config, messages store.MessageStore, journals store.JournalStore, log zerolog.Logger) *Flow {
	return &Flow{
		cfg:      cfg,
		messages: messages,
		journals: journals,
		log:      log,
		now:      time.Now,
	}
}

// Config exposes the flow's configuration, mainly so callers can render the
// assistant sender and mood scale consistently.
func (f *Flow) Config() Config {
	return f.cfg
}
