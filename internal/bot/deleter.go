package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"

	"tg-autodelete/internal/cleaner"
)

// defaultDeleteTimeout bounds one remote delete call so a stalled API
// request cannot hold up the rest of the cycle.
const defaultDeleteTimeout = 10 * time.Second

// Deleter wraps the Telegram deleteMessage call and classifies its result
// into the cleaner's outcome variants.
type Deleter struct {
	bot     *telego.Bot
	timeout time.Duration
}

// NewDeleter creates a Deleter for the given bot.
func NewDeleter(bot *telego.Bot) *Deleter {
	return &Deleter{bot: bot, timeout: defaultDeleteTimeout}
}

// DeleteMessage deletes one message from a channel and maps the API
// response onto a DeleteOutcome.
func (d *Deleter) DeleteMessage(ctx context.Context, channelID int64, messageID int) cleaner.DeleteOutcome {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.bot.DeleteMessage(callCtx, &telego.DeleteMessageParams{
		ChatID:    telego.ChatID{ID: channelID},
		MessageID: messageID,
	})
	if err == nil {
		return cleaner.DeleteOutcome{Kind: cleaner.OutcomeDeleted}
	}

	return cleaner.DeleteOutcome{Kind: classify(err), Err: err}
}

// classify maps a deleteMessage error onto an outcome kind. Telegram
// reports "message not found" style errors for already-deleted messages;
// rights problems come back as 401/403 or a "can't be deleted" 400.
func classify(err error) cleaner.OutcomeKind {
	var apiErr *telegoapi.Error
	if !errors.As(err, &apiErr) {
		// Network failure, timeout or malformed response.
		return cleaner.OutcomeTransient
	}

	desc := strings.ToLower(apiErr.Description)
	switch {
	case strings.Contains(desc, "message to delete not found"),
		strings.Contains(desc, "message_id_invalid"):
		return cleaner.OutcomeAlreadyGone
	case apiErr.ErrorCode == 401, apiErr.ErrorCode == 403,
		strings.Contains(desc, "not enough rights"),
		strings.Contains(desc, "can't be deleted"):
		return cleaner.OutcomePermissionDenied
	case apiErr.ErrorCode >= 500:
		return cleaner.OutcomeTransient
	default:
		// Remaining 4xx responses (bad chat id and similar) will not get
		// better on a retry.
		return cleaner.OutcomePermissionDenied
	}
}
