package models

import "time"

// Status values for a ScheduledDeletion. A row starts pending and moves to
// exactly one of the terminal states; terminal rows never transition again.
const (
	StatusPending = "pending"
	StatusDeleted = "deleted"
	StatusFailed  = "failed"
)

// ScheduledDeletion is one forwarded channel message tracked for deletion.
// (ChannelID, MessageID) is intentionally not unique: forwarding the same
// message twice schedules it twice.
type ScheduledDeletion struct {
	ID        uint `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time

	ChannelID    int64     `gorm:"index;not null"`
	MessageID    int       `gorm:"not null"`
	ScheduledFor time.Time `gorm:"index;not null"`
	Status       string    `gorm:"index;not null;default:pending"`
	ProcessedAt  *time.Time
	ErrorMessage string `gorm:"type:text"`
}

// IsPending reports whether the row is still awaiting its delete attempt.
func (s *ScheduledDeletion) IsPending() bool {
	return s.Status == StatusPending
}
