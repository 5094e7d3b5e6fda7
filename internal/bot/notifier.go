package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"

	"tg-autodelete/internal/config"
	"tg-autodelete/internal/logger"
)

const notifyTimeFormat = "2006-01-02 15:04:05"

// Notifier sends deletion reports to the configured owner. User id takes
// precedence over username. With neither configured it degrades to a log
// line instead of an error: notifications are fire-and-forget.
type Notifier struct {
	bot   *telego.Bot
	owner config.OwnerConfig
}

// NewNotifier creates a Notifier for the configured owner.
func NewNotifier(bot *telego.Bot, owner config.OwnerConfig) *Notifier {
	return &Notifier{bot: bot, owner: owner}
}

func (n *Notifier) ownerChatID() (telego.ChatID, bool) {
	if n.owner.UserID != 0 {
		return telego.ChatID{ID: n.owner.UserID}, true
	}
	if n.owner.Username != "" {
		return telego.ChatID{Username: "@" + n.owner.Username}, true
	}
	return telego.ChatID{}, false
}

// NotifyDeleted reports a successful deletion to the owner.
func (n *Notifier) NotifyDeleted(ctx context.Context, channelID int64, messageID int, deletedAt time.Time) error {
	text := fmt.Sprintf(
		"✅ <b>Message Deleted Successfully</b>\n\n"+
			"<b>Message ID:</b> %d\n"+
			"<b>Channel ID:</b> %d\n"+
			"<b>Deleted at:</b> %s",
		messageID, channelID, deletedAt.Format(notifyTimeFormat),
	)
	return n.send(ctx, text)
}

// NotifyFailed reports a failed deletion attempt to the owner.
func (n *Notifier) NotifyFailed(ctx context.Context, channelID int64, messageID int, reason string, at time.Time) error {
	text := fmt.Sprintf(
		"❌ <b>Message Deletion Failed</b>\n\n"+
			"<b>Message ID:</b> %d\n"+
			"<b>Channel ID:</b> %d\n"+
			"<b>Error:</b> %s\n"+
			"<b>Time:</b> %s",
		messageID, channelID, reason, at.Format(notifyTimeFormat),
	)
	return n.send(ctx, text)
}

func (n *Notifier) send(ctx context.Context, text string) error {
	chatID, ok := n.ownerChatID()
	if !ok {
		logger.Warningf("no owner configured for deletion notifications")
		return nil
	}

	_, err := n.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
