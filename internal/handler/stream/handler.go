// Package stream serves assistant replies over Server-Sent Events.
package stream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindhaven/backend/internal/flow"
	"github.com/mindhaven/backend/internal/model/chat"
	"github.com/mindhaven/backend/internal/store"
	"github.com/mindhaven/backend/pkg/utils"
)

// Generator is the slice of the AI service the stream handler needs.
type Generator interface {
	StreamingEnabled() bool
	GenerateReply(ctx context.Context, history []chat.Message, userText string) (string, error)
	StreamReply(ctx context.Context, history []chat.Message, userText string, onDelta func(string)) (string, error)
}

// Handler streams AI responses for a chat.
type Handler struct {
	ai       Generator
	flow     *flow.Flow
	messages store.MessageStore
	log      zerolog.Logger
}

// New creates the stream handler.
func New(ai Generator, fl *flow.Flow, messages store.MessageStore, log zerolog.Logger) *Handler {
	return &Handler{ai: ai, flow: fl, messages: messages, log: log}
}

// Response is one streamed event.
type Response struct {
	Event    string `json:"event"`
	Content  string `json:"content,omitempty"`
	ChatID   string `json:"chatId,omitempty"`
	Finished bool   `json:"finished,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HandleStreamRequest persists the user's message, streams the assistant
// reply, and lets the journal-save flow react to the user's text.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, chatID, userID, userText string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	history, err := h.messages.Messages(ctx, chatID)
	if err != nil {
		h.sendError(w, flusher, fmt.Sprintf("failed to load conversation: %v", err))
		return err
	}

	// Skip the append when the client already persisted the message via REST.
	if !hasMatchingUserMessage(history, userText) {
		if _, err := h.messages.Append(ctx, chatID, chat.Message{
			Type:     chat.TypeText,
			Text:     userText,
			SenderID: userID,
		}); err != nil {
			h.sendError(w, flusher, fmt.Sprintf("failed to save message: %v", err))
			return err
		}
	}

	if err := h.flow.MaybeOfferAfterUserMessage(ctx, chatID, userText); err != nil {
		h.log.Warn().Err(err).Str("chat_id", chatID).Msg("offer scheduling failed")
	}

	h.send(w, flusher, Response{Event: "start", ChatID: chatID})

	reply, err := h.dispatch(ctx, w, flusher, chatID, history, userText)
	if err != nil {
		h.sendError(w, flusher, fmt.Sprintf("AI generation failed: %v", err))
		return err
	}

	assistant := h.flow.Config().AssistantSender
	if _, err := h.messages.Append(ctx, chatID, chat.Message{
		Type:     chat.TypeText,
		Text:     reply,
		SenderID: assistant,
	}); err != nil {
		h.log.Error().Err(err).Str("chat_id", chatID).Msg("failed to save assistant message")
	}
	now := time.Now().UTC()
	if err := h.messages.UpdateChatFields(ctx, chatID, chat.Patch{LastMessage: &reply, LastMessageAt: &now}); err != nil {
		h.log.Warn().Err(err).Str("chat_id", chatID).Msg("failed to update chat preview")
	}

	h.send(w, flusher, Response{Event: "end", ChatID: chatID, Finished: true})
	h.log.Debug().Str("chat_id", chatID).Msg("completed streamed response")
	return nil
}

func (h *Handler) dispatch(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, chatID string, history []chat.Message, userText string) (string, error) {
	if h.ai.StreamingEnabled() {
		return h.ai.StreamReply(ctx, history, userText, func(delta string) {
			h.send(w, flusher, Response{Event: "delta", ChatID: chatID, Content: delta})
		})
	}

	reply, err := h.ai.GenerateReply(ctx, history, userText)
	if err != nil {
		return "", err
	}
	h.send(w, flusher, Response{Event: "message", ChatID: chatID, Content: reply})
	return reply, nil
}

func hasMatchingUserMessage(messages []chat.Message, content string) bool {
	if len(messages) == 0 {
		return false
	}
	last := messages[len(messages)-1]
	return last.Type == chat.TypeText && last.Text == content
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, resp Response) {
	utils.SendSSEChunk(w, flusher, resp)
}

func (h *Handler) sendError(w http.ResponseWriter, flusher http.Flusher, msg string) {
	h.send(w, flusher, Response{Event: "error", Error: msg})
}
