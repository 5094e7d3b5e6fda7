package cleaner

import (
	"context"
	"time"

	"tg-autodelete/internal/models"
)

// OutcomeKind classifies the result of one remote delete attempt. The
// executor branches on the kind instead of inspecting error text.
type OutcomeKind int

const (
	// OutcomeDeleted means the remote API confirmed the deletion.
	OutcomeDeleted OutcomeKind = iota
	// OutcomeAlreadyGone means the message no longer exists. The end state
	// the system cares about holds, so this counts as success.
	OutcomeAlreadyGone
	// OutcomePermissionDenied means the bot lacks rights to delete the
	// message. Not retryable.
	OutcomePermissionDenied
	// OutcomeTransient covers network failures, timeouts and server-side
	// errors from the remote API.
	OutcomeTransient
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeAlreadyGone:
		return "already_gone"
	case OutcomePermissionDenied:
		return "permission_denied"
	case OutcomeTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// DeleteOutcome is the tagged result of a remote delete call. Err carries
// the underlying error for the failure kinds and is nil otherwise.
type DeleteOutcome struct {
	Kind OutcomeKind
	Err  error
}

// Succeeded reports whether the message is now absent from the channel.
func (o DeleteOutcome) Succeeded() bool {
	return o.Kind == OutcomeDeleted || o.Kind == OutcomeAlreadyGone
}

// MessageDeleter is the remote message-delete capability.
type MessageDeleter interface {
	DeleteMessage(ctx context.Context, channelID int64, messageID int) DeleteOutcome
}

// Notifier delivers deletion reports to the configured owner. Failures are
// the implementation's problem to log; the executor never escalates them.
type Notifier interface {
	NotifyDeleted(ctx context.Context, channelID int64, messageID int, deletedAt time.Time) error
	NotifyFailed(ctx context.Context, channelID int64, messageID int, reason string, at time.Time) error
}

// RecordStore is the slice of the repository the cleaner needs.
type RecordStore interface {
	Due(now time.Time) ([]models.ScheduledDeletion, error)
	MarkDeleted(id uint, processedAt time.Time) error
	MarkFailed(id uint, processedAt time.Time, errorMessage string) error
	PurgeOlderThan(cutoff time.Time) (int64, error)
}
