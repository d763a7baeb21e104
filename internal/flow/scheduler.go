package flow

import (
	"context"
	"errors"

	"github.com/mindhaven/backend/internal/model/chat"
	"github.com/mindhaven/backend/internal/store"
)

// MaybeOfferAfterUserMessage decides whether the user's latest message should
// trigger a save offer. Explicit requests always inject one; implicit
// candidates only outside the cooldown window. A missing chat is a no-op.
// Store errors propagate to the caller untouched.
func (f *Flow) MaybeOfferAfterUserMessage(ctx context.Context, chatID, userText string) error {
	if f.IsExplicitSaveTrigger(userText) {
		return f.InjectSaveOffer(ctx, chatID)
	}

	c, err := f.messages.GetChat(ctx, chatID)
	if errors.Is(err, store.ErrChatNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if c.LastOfferAt != nil && f.now().Sub(*c.LastOfferAt) < f.cfg.Cooldown {
		return nil
	}

	if f.IsImplicitCandidate(userText) {
		return f.InjectSaveOffer(ctx, chatID)
	}
	return nil
}

// InjectSaveOffer appends the save_offer message and stamps lastOfferAt so a
// fresh cooldown window starts.
func (f *Flow) InjectSaveOffer(ctx context.Context, chatID string) error {
	_, err := f.messages.Append(ctx, chatID, chat.Message{
		Type:     chat.TypeSaveOffer,
		Text:     f.cfg.OfferText,
		Buttons:  f.cfg.OfferButtons,
		SenderID: f.cfg.AssistantSender,
	})
	if err != nil {
		return err
	}

	now := f.now()
	if err := f.messages.UpdateChatFields(ctx, chatID, chat.Patch{LastOfferAt: &now}); err != nil {
		return err
	}

	f.log.Debug().Str("chat_id", chatID).Msg("save offer injected")
	return nil
}
