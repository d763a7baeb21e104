// Package chat orchestrates the send-message path: persist the user's turn,
// let the journal-save flow react, and append the assistant's reply.
package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindhaven/backend/internal/flow"
	"github.com/mindhaven/backend/internal/model/chat"
	"github.com/mindhaven/backend/internal/store"
)

const (
	defaultChatTitle = "Therapy Buddy"
	greetingText     = "Hi, how are you feeling today?"
)

// ReplyGenerator produces assistant replies; nil disables AI replies while
// keeping the rest of the chat working.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, history []chat.Message, userText string) (string, error)
}

// Service encapsulates conversation state management.
type Service struct {
	store store.MessageStore
	flow  *flow.Flow
	ai    ReplyGenerator
	log   zerolog.Logger
}

// NewService wires the orchestration service. ai may be nil.
func NewService(st store.MessageStore, fl *flow.Flow, ai ReplyGenerator, log zerolog.Logger) *Service {
	return &Service{store: st, flow: fl, ai: ai, log: log}
}

// CreateChat provisions a chat between the user and the assistant, seeded
// with the assistant's greeting.
func (s *Service) CreateChat(ctx context.Context, userID string) (chat.Chat, error) {
	assistant := s.flow.Config().AssistantSender
	now := time.Now().UTC()

	c, err := s.store.CreateChat(ctx, chat.Chat{
		Title:         defaultChatTitle,
		Participants:  []string{userID, assistant},
		LastMessage:   greetingText,
		LastMessageAt: &now,
	})
	if err != nil {
		return chat.Chat{}, err
	}

	if _, err := s.store.Append(ctx, c.ID, chat.Message{
		Type:     chat.TypeText,
		Text:     greetingText,
		SenderID: assistant,
	}); err != nil {
		return chat.Chat{}, err
	}
	return c, nil
}

// SendMessage appends the user's message, runs the offer scheduler, and when
// AI is available appends and returns the assistant reply.
func (s *Service) SendMessage(ctx context.Context, chatID, userID, text string) (*chat.Message, error) {
	history, err := s.store.Messages(ctx, chatID)
	if err != nil {
		return nil, err
	}

	userMsg := chat.Message{
		Type:     chat.TypeText,
		Text:     text,
		SenderID: userID,
	}
	if _, err := s.store.Append(ctx, chatID, userMsg); err != nil {
		return nil, err
	}
	s.touchLastMessage(ctx, chatID, text)

	if err := s.flow.MaybeOfferAfterUserMessage(ctx, chatID, text); err != nil {
		return nil, err
	}

	if s.ai == nil {
		return nil, nil
	}

	reply, err := s.ai.GenerateReply(ctx, history, text)
	if err != nil {
		return nil, err
	}

	assistant := s.flow.Config().AssistantSender
	replyMsg := chat.Message{
		Type:     chat.TypeText,
		Text:     reply,
		SenderID: assistant,
	}
	id, err := s.store.Append(ctx, chatID, replyMsg)
	if err != nil {
		return nil, err
	}
	replyMsg.ID = id
	replyMsg.ChatID = chatID
	s.touchLastMessage(ctx, chatID, reply)

	return &replyMsg, nil
}

func (s *Service) touchLastMessage(ctx context.Context, chatID, text string) {
	now := time.Now().UTC()
	if err := s.store.UpdateChatFields(ctx, chatID, chat.Patch{
		LastMessage:   &text,
		LastMessageAt: &now,
	}); err != nil {
		s.log.Warn().Err(err).Str("chat_id", chatID).Msg("failed to update chat preview")
	}
}
