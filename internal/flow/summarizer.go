package flow

import (
	"strings"
	"unicode/utf8"

	"github.com/mindhaven/backend/internal/model/chat"
)

const (
	sentenceLimit = 120
	bodyLimit     = 300
	// crudeCutFloor is the earliest character a word-boundary cut may land
	// on; a space before it means we cut mid-word instead.
	crudeCutFloor = 40
)

// Summarize derives a journal title and body from the transcript. It is a
// deterministic text-slicing procedure, not language understanding: same
// input, same output.
func (f *Flow) Summarize(messages []chat.Message) (title, body string) {
	title = f.lastUserTitle(messages)
	if title == "" {
		title = f.defaultTitle(messages)
	}
	body = f.summarizeBody(messages)
	return title, body
}

// lastUserTitle finds the most recent user_reply tagged as a journal title,
// scanning backwards.
func (f *Flow) lastUserTitle(messages []chat.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Type == chat.TypeUserReply && m.Meta != nil && m.Meta.Field == chat.MetaFieldJournalTitle {
			return strings.TrimSpace(m.Text)
		}
	}
	return ""
}

// defaultTitle falls back to the first six words of the most recent
// non-assistant message.
func (f *Flow) defaultTitle(messages []chat.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.SenderID == f.cfg.AssistantSender {
			continue
		}
		words := strings.Fields(m.Text)
		if len(words) > 6 {
			words = words[:6]
		}
		if joined := strings.Join(words, " "); joined != "" {
			return joined
		}
		return f.cfg.FallbackTitle
	}
	return f.cfg.FallbackTitle
}

// summarizeBody takes the last six non-assistant, non-empty texts and joins
// the first and last of them (deduplicated) into a two-sentence summary.
func (f *Flow) summarizeBody(messages []chat.Message) string {
	var userTexts []string
	for _, m := range messages {
		if m.SenderID == f.cfg.AssistantSender {
			continue
		}
		if text := strings.TrimSpace(m.Text); text != "" {
			userTexts = append(userTexts, text)
		}
	}
	if len(userTexts) > 6 {
		userTexts = userTexts[len(userTexts)-6:]
	}

	var first, last string
	if len(userTexts) > 0 {
		first = userTexts[0]
		last = userTexts[len(userTexts)-1]
	}

	var parts []string
	if first != "" {
		parts = append(parts, trimSentence(first, sentenceLimit))
	}
	if last != "" && last != first {
		parts = append(parts, trimSentence(last, sentenceLimit))
	}

	summary := strings.Join(parts, " ")
	if summary == "" {
		summary = f.cfg.FallbackBody
	}

	if runes := []rune(summary); len(runes) > bodyLimit {
		summary = string(runes[:bodyLimit-3]) + "..."
	}
	return summary
}

// trimSentence cuts s to at most max characters, preferring the last word
// boundary unless that boundary is implausibly early.
func trimSentence(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx >= 0 && utf8.RuneCountInString(cut[:idx]) > crudeCutFloor {
		cut = cut[:idx]
	}
	return cut + "..."
}
