package flow

import (
	"strings"
	"unicode/utf8"
)

// IsExplicitSaveTrigger reports whether the text contains any canonical
// save-request phrase. Matching is a case-insensitive substring check, no
// tokenization or fuzzing.
func (f *Flow) IsExplicitSaveTrigger(text string) bool {
	lc := strings.ToLower(text)
	for _, phrase := range f.cfg.TriggerPhrases {
		if strings.Contains(lc, phrase) {
			return true
		}
	}
	return false
}

// IsImplicitCandidate reports whether the text qualifies for an unsolicited
// offer: long enough and containing at least one emotional keyword. This is
// a heuristic; false positives and negatives are accepted.
func (f *Flow) IsImplicitCandidate(text string) bool {
	lc := strings.ToLower(text)
	if utf8.RuneCountInString(lc) <= f.cfg.MinImplicitLength {
		return false
	}
	for _, kw := range f.cfg.Keywords {
		if strings.Contains(lc, kw) {
			return true
		}
	}
	return false
}
