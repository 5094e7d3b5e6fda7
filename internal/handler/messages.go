package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/service"
)

// handleIncomingMessage processes non-command messages. Only forwards from
// the configured source channel, sent in a private chat, are accepted.
func handleIncomingMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	// Skip if no sender information or sender is a bot
	if message.From == nil || message.From.IsBot {
		return nil
	}

	if message.Chat.Type != "private" {
		return nil
	}

	if message.ForwardOrigin == nil {
		logger.Debugf("message %d is not forwarded, skipping", message.MessageID)
		return reply(ctx, bot, message, "Forward a message from your channel to schedule it for deletion. Send /help for details.")
	}

	origin, ok := message.ForwardOrigin.(*telego.MessageOriginChannel)
	if !ok {
		logger.Debugf("message %d forwarded from a non-channel origin, skipping", message.MessageID)
		return reply(ctx, bot, message, "❌ Only messages forwarded from your channel can be scheduled.")
	}

	// The forward origin carries the original send date; fall back to the
	// local clock if Telegram omitted it.
	forwardedAt := time.Now()
	if origin.Date > 0 {
		forwardedAt = time.Unix(origin.Date, 0)
	}

	rec, err := intake.HandleForward(origin.Chat.ID, origin.MessageID, forwardedAt)
	if err != nil {
		if errors.Is(err, service.ErrWrongChannel) {
			logger.Infof("rejected forward from channel %d (user %d)", origin.Chat.ID, message.From.ID)
			return reply(ctx, bot, message, "❌ This message is not from the configured channel.")
		}
		logger.Errorf("Error scheduling forwarded message: %v", err)
		return reply(ctx, bot, message, "❌ Failed to schedule message for deletion.")
	}

	return reply(ctx, bot, message, fmt.Sprintf(
		"✅ Message scheduled for deletion on %s",
		rec.ScheduledFor.Format("2006-01-02 15:04:05 MST"),
	))
}
