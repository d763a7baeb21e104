package flow

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/mindhaven/backend/internal/store"
)

func newTestFlow() (*Flow, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return New(DefaultConfig(), st, st, zerolog.Nop()), st
}

func TestIsExplicitSaveTrigger(t *testing.T) {
	f, _ := newTestFlow()

	positives := []string{
		"save this to my journal",
		"Save This To My Journal",
		"could you please SAVE TO JOURNAL now",
		"I save this to my journal",
		"hey, can i save this to my journal?",
	}
	for _, text := range positives {
		if !f.IsExplicitSaveTrigger(text) {
			t.Errorf("expected explicit trigger for %q", text)
		}
	}

	negatives := []string{
		"",
		"save",
		"my journal is great",
		"I want to write something down",
	}
	for _, text := range negatives {
		if f.IsExplicitSaveTrigger(text) {
			t.Errorf("unexpected explicit trigger for %q", text)
		}
	}
}

func TestIsImplicitCandidate(t *testing.T) {
	f, _ := newTestFlow()

	if !f.IsImplicitCandidate("I feel so stressed about work lately") {
		t.Error("expected long keyword message to be a candidate")
	}
	if f.IsImplicitCandidate("so stressed") {
		t.Error("short message should not be a candidate")
	}
	if f.IsImplicitCandidate("today was a fairly long but perfectly pleasant day") {
		t.Error("message without keywords should not be a candidate")
	}
	if !f.IsImplicitCandidate("honestly I have been feeling BURNT OUT for weeks") {
		t.Error("keyword match should be case-insensitive")
	}
}

func TestCustomHeuristicsInjectable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriggerPhrases = []string{"archive this"}
	cfg.Keywords = []string{"exhausted"}
	st := store.NewMemoryStore()
	f := New(cfg, st, st, zerolog.Nop())

	if !f.IsExplicitSaveTrigger("please ARCHIVE THIS for me") {
		t.Error("substituted trigger phrase should match")
	}
	if f.IsExplicitSaveTrigger("save this to my journal") {
		t.Error("default phrases should be replaced, not merged")
	}
	if !f.IsImplicitCandidate("I am completely exhausted by everything") {
		t.Error("substituted keyword should match")
	}
}
