package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tg-autodelete/internal/models"
)

func newTestRepo(t *testing.T) *DeletionRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo := NewDeletionRepository(db)
	require.NoError(t, repo.MigrateTable())
	return repo
}

func TestInsertCreatesPendingRecord(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(30 * 24 * time.Hour)

	rec, err := repo.Insert(100, 55, now, deadline)
	require.NoError(t, err)

	assert.NotZero(t, rec.ID)
	assert.Equal(t, models.StatusPending, rec.Status)
	assert.Equal(t, int64(100), rec.ChannelID)
	assert.Equal(t, 55, rec.MessageID)
	assert.True(t, rec.ScheduledFor.Equal(deadline))
	assert.True(t, rec.ScheduledFor.Sub(rec.CreatedAt) == 30*24*time.Hour)
	assert.Nil(t, rec.ProcessedAt)
}

func TestDueReturnsEarliestFirst(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	first, err := repo.Insert(100, 1, now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	require.NoError(t, err)
	second, err := repo.Insert(100, 2, now.Add(-72*time.Hour), now.Add(-24*time.Hour))
	require.NoError(t, err)
	// Not yet due, must not appear
	_, err = repo.Insert(100, 3, now, now.Add(24*time.Hour))
	require.NoError(t, err)

	due, err := repo.Due(now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, first.ID, due[0].ID)
	assert.Equal(t, second.ID, due[1].ID)
}

func TestDueBreaksTiesByID(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(-time.Hour)

	first, err := repo.Insert(100, 1, now.Add(-2*time.Hour), deadline)
	require.NoError(t, err)
	second, err := repo.Insert(100, 2, now.Add(-2*time.Hour), deadline)
	require.NoError(t, err)

	due, err := repo.Due(now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, first.ID, due[0].ID)
	assert.Equal(t, second.ID, due[1].ID)
}

func TestDueNeverReturnsTerminalRows(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	rec, err := repo.Insert(100, 1, now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	failed, err := repo.Insert(100, 2, now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)

	require.NoError(t, repo.MarkDeleted(rec.ID, now))
	require.NoError(t, repo.MarkFailed(failed.ID, now, "no rights"))

	due, err := repo.Due(now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDuplicateForwardsAllowed(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	_, err := repo.Insert(100, 55, now, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = repo.Insert(100, 55, now, now.Add(time.Hour))
	require.NoError(t, err)

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.StatusPending])
}

func TestMarkDeletedIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	rec, err := repo.Insert(100, 1, now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)

	firstAt := now
	require.NoError(t, repo.MarkDeleted(rec.ID, firstAt))

	// Second transition must not apply and must not overwrite processed_at
	err = repo.MarkDeleted(rec.ID, now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotPending)

	var stored models.ScheduledDeletion
	require.NoError(t, repo.db.First(&stored, rec.ID).Error)
	assert.Equal(t, models.StatusDeleted, stored.Status)
	require.NotNil(t, stored.ProcessedAt)
	assert.True(t, stored.ProcessedAt.Equal(firstAt))
}

func TestMarkFailedStoresReason(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	rec, err := repo.Insert(100, 3, now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)

	require.NoError(t, repo.MarkFailed(rec.ID, now, "permission_denied: not enough rights"))

	var stored models.ScheduledDeletion
	require.NoError(t, repo.db.First(&stored, rec.ID).Error)
	assert.Equal(t, models.StatusFailed, stored.Status)
	assert.Equal(t, "permission_denied: not enough rights", stored.ErrorMessage)
	require.NotNil(t, stored.ProcessedAt)

	// A failed row is terminal: it cannot be marked deleted afterwards
	assert.ErrorIs(t, repo.MarkDeleted(rec.ID, now), ErrNotPending)
}

func TestMarkUnknownIDReturnsNotPending(t *testing.T) {
	repo := newTestRepo(t)
	assert.ErrorIs(t, repo.MarkDeleted(12345, time.Now()), ErrNotPending)
	assert.ErrorIs(t, repo.MarkFailed(12345, time.Now(), "x"), ErrNotPending)
}

func TestPurgeBoundaryIsStrict(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-7 * 24 * time.Hour)

	older, err := repo.Insert(100, 1, now.Add(-30*24*time.Hour), now.Add(-20*24*time.Hour))
	require.NoError(t, err)
	newer, err := repo.Insert(100, 2, now.Add(-30*24*time.Hour), now.Add(-20*24*time.Hour))
	require.NoError(t, err)
	exact, err := repo.Insert(100, 3, now.Add(-30*24*time.Hour), now.Add(-20*24*time.Hour))
	require.NoError(t, err)

	require.NoError(t, repo.MarkDeleted(older.ID, cutoff.Add(-time.Second)))
	require.NoError(t, repo.MarkDeleted(newer.ID, cutoff.Add(time.Second)))
	require.NoError(t, repo.MarkDeleted(exact.ID, cutoff))

	purged, err := repo.PurgeOlderThan(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.StatusDeleted])
}

func TestPurgeNeverTouchesPendingRows(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Long overdue but still pending
	_, err := repo.Insert(100, 1, now.Add(-365*24*time.Hour), now.Add(-300*24*time.Hour))
	require.NoError(t, err)

	purged, err := repo.PurgeOlderThan(now)
	require.NoError(t, err)
	assert.Zero(t, purged)

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.StatusPending])
}

func TestRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	rec, err := repo.Insert(100, 55, now, now.Add(time.Hour))
	require.NoError(t, err)

	due, err := repo.Due(now)
	require.NoError(t, err)
	assert.Empty(t, due)

	// Simulate the clock passing the deadline
	later := now.Add(2 * time.Hour)
	due, err = repo.Due(later)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, rec.ID, due[0].ID)

	require.NoError(t, repo.MarkDeleted(rec.ID, later))

	due, err = repo.Due(later)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestCountByStatusIncludesZeroBuckets(t *testing.T) {
	repo := newTestRepo(t)

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts[models.StatusPending])
	assert.Equal(t, int64(0), counts[models.StatusDeleted])
	assert.Equal(t, int64(0), counts[models.StatusFailed])
}
