package service

import (
	"errors"
	"fmt"
	"time"

	"tg-autodelete/internal/config"
	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/models"
)

// ErrWrongChannel is returned when a forward did not originate from the
// configured source channel. No record is created in that case; the
// messaging layer tells the user.
var ErrWrongChannel = errors.New("message is not from the configured source channel")

// RecordInserter is the slice of the repository intake needs.
type RecordInserter interface {
	Insert(channelID int64, messageID int, createdAt, scheduledFor time.Time) (*models.ScheduledDeletion, error)
}

// Intake turns a forwarded channel message into a pending deletion record.
type Intake struct {
	sourceChannelID int64
	retention       time.Duration
	store           RecordInserter
}

// NewIntake creates an Intake bound to the configured source channel and
// message retention window.
func NewIntake(cfg *config.Config, store RecordInserter) *Intake {
	return &Intake{
		sourceChannelID: cfg.Bot.SourceChannelID,
		retention:       time.Duration(cfg.Retention.MessageDays) * 24 * time.Hour,
		store:           store,
	}
}

// Retention returns the configured message lifetime.
func (i *Intake) Retention() time.Duration {
	return i.retention
}

// HandleForward validates the origin channel and schedules the message for
// deletion at now + retention. CreatedAt and ScheduledFor both derive from
// the single now argument, so the deadline is exact with no clock drift
// between the two fields.
func (i *Intake) HandleForward(channelID int64, messageID int, now time.Time) (*models.ScheduledDeletion, error) {
	if channelID != i.sourceChannelID {
		return nil, fmt.Errorf("channel %d (expected %d): %w", channelID, i.sourceChannelID, ErrWrongChannel)
	}

	now = now.UTC()
	rec, err := i.store.Insert(channelID, messageID, now, now.Add(i.retention))
	if err != nil {
		return nil, err
	}

	logger.Infof("message %d from channel %d scheduled for deletion at %s",
		messageID, channelID, rec.ScheduledFor.Format(time.RFC3339))
	return rec, nil
}
