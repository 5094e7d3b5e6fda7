package storage

import (
	"errors"
	"fmt"
	"time"

	"tg-autodelete/internal/models"

	"gorm.io/gorm"
)

// ErrNotPending is returned when a status transition is requested for a row
// that does not exist or has already left the pending state. Callers treat
// it as benign: the transition simply did not apply.
var ErrNotPending = errors.New("record does not exist or is not pending")

// DeletionRepository handles database operations for ScheduledDeletion.
// It is the single source of truth for what still needs deleting.
type DeletionRepository struct {
	db *gorm.DB
}

// NewDeletionRepository creates a new DeletionRepository
func NewDeletionRepository(db *gorm.DB) *DeletionRepository {
	return &DeletionRepository{db: db}
}

// MigrateTable ensures the ScheduledDeletion table exists
func (r *DeletionRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.ScheduledDeletion{})
}

// Insert adds a new pending deletion record and returns it with its
// assigned id. CreatedAt and ScheduledFor are both supplied by the caller
// so they derive from one captured clock read.
func (r *DeletionRepository) Insert(channelID int64, messageID int, createdAt, scheduledFor time.Time) (*models.ScheduledDeletion, error) {
	rec := &models.ScheduledDeletion{
		ChannelID:    channelID,
		MessageID:    messageID,
		CreatedAt:    createdAt.UTC(),
		ScheduledFor: scheduledFor.UTC(),
		Status:       models.StatusPending,
	}
	if err := r.db.Create(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to insert deletion record: %w", err)
	}
	return rec, nil
}

// Due returns all pending records whose deadline has passed, earliest
// deadline first (ties broken by id for determinism). The result is a
// snapshot: rows inserted afterwards are not reflected.
func (r *DeletionRepository) Due(now time.Time) ([]models.ScheduledDeletion, error) {
	var recs []models.ScheduledDeletion
	result := r.db.
		Where("status = ? AND scheduled_for <= ?", models.StatusPending, now.UTC()).
		Order("scheduled_for ASC, id ASC").
		Find(&recs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query due records: %w", result.Error)
	}
	return recs, nil
}

// MarkDeleted transitions a pending row to deleted. The status guard and
// the processed_at write happen in one UPDATE so a crash can never leave
// the pair half-applied, and a second caller finds zero rows to touch.
func (r *DeletionRepository) MarkDeleted(id uint, processedAt time.Time) error {
	return r.markTerminal(id, models.StatusDeleted, processedAt, "")
}

// MarkFailed transitions a pending row to failed with a human-readable
// reason. Same idempotence contract as MarkDeleted.
func (r *DeletionRepository) MarkFailed(id uint, processedAt time.Time, errorMessage string) error {
	return r.markTerminal(id, models.StatusFailed, processedAt, errorMessage)
}

func (r *DeletionRepository) markTerminal(id uint, status string, processedAt time.Time, errorMessage string) error {
	at := processedAt.UTC()
	result := r.db.Model(&models.ScheduledDeletion{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":        status,
			"processed_at":  at,
			"error_message": errorMessage,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark record %d %s: %w", id, status, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("record %d: %w", id, ErrNotPending)
	}
	return nil
}

// PurgeOlderThan hard-deletes terminal rows processed strictly before the
// cutoff and returns how many were removed. Pending rows are never purged.
func (r *DeletionRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("status <> ? AND processed_at < ?", models.StatusPending, cutoff.UTC()).
		Delete(&models.ScheduledDeletion{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge old records: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CountByStatus returns the number of records per status.
func (r *DeletionRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	result := r.db.Model(&models.ScheduledDeletion{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to count records: %w", result.Error)
	}

	counts := map[string]int64{
		models.StatusPending: 0,
		models.StatusDeleted: 0,
		models.StatusFailed:  0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
