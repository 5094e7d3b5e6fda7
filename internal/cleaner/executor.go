package cleaner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/models"
	"tg-autodelete/internal/storage"
)

// Result summarizes what happened to one record.
type Result int

const (
	ResultDeleted Result = iota
	ResultFailed
)

// Executor attempts the remote deletion for one due record, persists the
// outcome and notifies the owner. Each record gets exactly one delete
// attempt, ever: failures (including transient ones) move the row to its
// terminal failed state and it is never reconsidered.
type Executor struct {
	store    RecordStore
	deleter  MessageDeleter
	notifier Notifier
}

// NewExecutor creates an Executor over the given collaborators.
func NewExecutor(store RecordStore, deleter MessageDeleter, notifier Notifier) *Executor {
	return &Executor{
		store:    store,
		deleter:  deleter,
		notifier: notifier,
	}
}

// Process runs the delete-classify-persist-notify sequence for one record.
// A returned error means the store update failed; in that case no
// notification is sent, since the state it would describe was never
// persisted. Ordering is fixed: remote attempt, then store, then notify.
func (e *Executor) Process(ctx context.Context, rec *models.ScheduledDeletion) (Result, error) {
	outcome := e.deleter.DeleteMessage(ctx, rec.ChannelID, rec.MessageID)
	processedAt := time.Now().UTC()

	if outcome.Succeeded() {
		if outcome.Kind == OutcomeAlreadyGone {
			logger.Infof("message %d in channel %d already gone, treating as deleted", rec.MessageID, rec.ChannelID)
		}

		if err := e.store.MarkDeleted(rec.ID, processedAt); err != nil {
			if errors.Is(err, storage.ErrNotPending) {
				// Another invocation got here first; nothing left to do.
				logger.Warningf("record %d already processed: %v", rec.ID, err)
				return ResultDeleted, nil
			}
			return ResultDeleted, fmt.Errorf("record %d: %w", rec.ID, err)
		}

		if err := e.notifier.NotifyDeleted(ctx, rec.ChannelID, rec.MessageID, processedAt); err != nil {
			logger.Warningf("failed to send deletion notification for record %d: %v", rec.ID, err)
		}
		return ResultDeleted, nil
	}

	reason := fmt.Sprintf("%s: %v", outcome.Kind, outcome.Err)
	logger.Errorf("failed to delete message %d in channel %d: %s", rec.MessageID, rec.ChannelID, reason)

	if err := e.store.MarkFailed(rec.ID, processedAt, reason); err != nil {
		if errors.Is(err, storage.ErrNotPending) {
			logger.Warningf("record %d already processed: %v", rec.ID, err)
			return ResultFailed, nil
		}
		return ResultFailed, fmt.Errorf("record %d: %w", rec.ID, err)
	}

	if err := e.notifier.NotifyFailed(ctx, rec.ChannelID, rec.MessageID, reason, processedAt); err != nil {
		logger.Warningf("failed to send failure notification for record %d: %v", rec.ID, err)
	}
	return ResultFailed, nil
}
