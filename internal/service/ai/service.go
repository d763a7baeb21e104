// Package ai wraps the hosted chat-completion endpoint behind the assistant
// persona. The journal summarizer never goes through here; it is a local
// text procedure.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/mindhaven/backend/internal/config"
	"github.com/mindhaven/backend/internal/model/chat"
)

// historyLimit caps how many prior turns are replayed to the model.
const historyLimit = 6

// fallbackReply covers empty completions so the user never sees a blank
// bubble.
const fallbackReply = "I'm here with you. Take your time; we can go slowly."

// Service generates assistant replies for a chat.
type Service struct {
	client          openai.Client
	cfg             config.AIConfig
	assistantSender string
	log             zerolog.Logger
}

// NewService builds the client for the configured endpoint.
func NewService(cfg config.AIConfig, assistantSender string, log zerolog.Logger) (*Service, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("AI_TOKEN is not configured")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.Token)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Service{
		client:          openai.NewClient(opts...),
		cfg:             cfg,
		assistantSender: assistantSender,
		log:             log,
	}, nil
}

// StreamingEnabled reports whether SSE delta streaming is configured.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// GenerateReply produces one assistant reply for the user's message given
// the recent history.
func (s *Service) GenerateReply(ctx context.Context, history []chat.Message, userText string) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, s.buildParams(history, userText))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	var content string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	reply := orFallback(content)
	s.log.Debug().Int("length", len(reply)).Msg("generated assistant reply")
	return reply, nil
}

// StreamReply streams the assistant reply, invoking onDelta per content
// chunk, and returns the full text.
func (s *Service) StreamReply(ctx context.Context, history []chat.Message, userText string, onDelta func(string)) (string, error) {
	stream := s.client.Chat.Completions.NewStreaming(ctx, s.buildParams(history, userText))
	defer stream.Close()

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) > 0 {
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				onDelta(delta)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("chat completion stream failed: %w", err)
	}

	var content string
	if len(acc.Choices) > 0 {
		content = acc.Choices[0].Message.Content
	}
	return orFallback(content), nil
}

func (s *Service) buildParams(history []chat.Message, userText string) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(fewshots)+historyLimit+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, shot := range fewshots {
		if shot.Role == "assistant" {
			messages = append(messages, openai.AssistantMessage(shot.Content))
		} else {
			messages = append(messages, openai.UserMessage(shot.Content))
		}
	}
	messages = append(messages, s.historyMessages(history)...)
	messages = append(messages, openai.UserMessage(userText))

	return openai.ChatCompletionNewParams{
		Model:            openai.ChatModel(s.cfg.Model),
		Messages:         messages,
		MaxTokens:        openai.Int(int64(s.cfg.MaxTokens)),
		Temperature:      openai.Float(s.cfg.Temperature),
		TopP:             openai.Float(s.cfg.TopP),
		PresencePenalty:  openai.Float(s.cfg.PresencePenalty),
		FrequencyPenalty: openai.Float(s.cfg.FrequencyPenalty),
		Stop: openai.ChatCompletionNewParamsStopUnion{
			OfString: openai.String("User:"),
		},
	}
}

// historyMessages replays the last few plain chat turns. Flow-injected
// prompts and replies stay out of the model context.
func (s *Service) historyMessages(history []chat.Message) []openai.ChatCompletionMessageParamUnion {
	var turns []chat.Message
	for _, msg := range history {
		if msg.Type == chat.TypeText && strings.TrimSpace(msg.Text) != "" {
			turns = append(turns, msg)
		}
	}
	if len(turns) > historyLimit {
		turns = turns[len(turns)-historyLimit:]
	}

	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, msg := range turns {
		if msg.SenderID == s.assistantSender {
			out = append(out, openai.AssistantMessage(msg.Text))
		} else {
			out = append(out, openai.UserMessage(msg.Text))
		}
	}
	return out
}

func orFallback(content string) string {
	if trimmed := strings.TrimSpace(content); trimmed != "" {
		return trimmed
	}
	return fallbackReply
}
