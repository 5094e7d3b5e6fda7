package handler

import (
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/models"
)

// handleCommand dispatches slash commands. The returned bool reports
// whether the message was a command, whatever its outcome.
func handleCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) (bool, error) {
	switch message.Text {
	case "/start":
		return true, handleStartCommand(ctx, bot, message)
	case "/help":
		return true, handleHelpCommand(ctx, bot, message)
	case "/status":
		return true, handleStatusCommand(ctx, bot, message)
	case "/cleanup":
		return true, handleCleanupCommand(ctx, bot, message)
	}
	return false, nil
}

func handleStartCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	text := fmt.Sprintf(
		"🤖 Auto-Delete Bot is running!\n\n"+
			"Forward any message from your channel to me, and I'll automatically delete it after %d days.\n\n"+
			"Use /help for more information.",
		globalConfig.Retention.MessageDays,
	)
	return reply(ctx, bot, message, text)
}

func handleHelpCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	text := fmt.Sprintf(
		"📚 <b>Auto-Delete Bot Help</b>\n\n"+
			"<b>Commands:</b>\n"+
			"/start - Start the bot\n"+
			"/help - Show this help message\n"+
			"/status - Show bot status and message counts\n"+
			"/cleanup - Purge old processed records\n\n"+
			"<b>How to use:</b>\n"+
			"1. Forward any message from your Telegram channel to this bot\n"+
			"2. The bot schedules it for deletion after %d days\n"+
			"3. A periodic job deletes due messages and notifies you\n\n"+
			"<b>Note:</b> The bot must be an admin in your channel with delete message permissions.",
		globalConfig.Retention.MessageDays,
	)
	return reply(ctx, bot, message, text)
}

func handleStatusCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	counts, err := deletionRepo.CountByStatus()
	if err != nil {
		logger.Errorf("Error getting status counts: %v", err)
		return reply(ctx, bot, message, "❌ Error getting status. Check logs for details.")
	}

	total := counts[models.StatusPending] + counts[models.StatusDeleted] + counts[models.StatusFailed]
	text := fmt.Sprintf(
		"📊 <b>Bot Status</b>\n\n"+
			"<b>Total messages tracked:</b> %d\n"+
			"<b>Pending deletion:</b> %d\n"+
			"<b>Deleted:</b> %d\n"+
			"<b>Failed:</b> %d\n"+
			"<b>Deletion delay:</b> %d days\n\n"+
			"Bot is running and monitoring messages.",
		total,
		counts[models.StatusPending],
		counts[models.StatusDeleted],
		counts[models.StatusFailed],
		globalConfig.Retention.MessageDays,
	)
	return reply(ctx, bot, message, text)
}

func handleCleanupCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	cutoff := time.Now().UTC().Add(-time.Duration(globalConfig.Retention.RecordsDays) * 24 * time.Hour)
	purged, err := deletionRepo.PurgeOlderThan(cutoff)
	if err != nil {
		logger.Errorf("Error during manual cleanup: %v", err)
		return reply(ctx, bot, message, "❌ Error during cleanup. Check logs for details.")
	}
	return reply(ctx, bot, message, fmt.Sprintf("🧹 Cleanup completed! Removed %d old records.", purged))
}

func reply(ctx *th.Context, bot *telego.Bot, message telego.Message, text string) error {
	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: message.Chat.ID},
		Text:      text,
		ParseMode: "HTML",
	})
	return err
}
