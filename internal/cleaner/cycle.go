package cleaner

import (
	"context"
	"fmt"
	"time"

	"tg-autodelete/internal/logger"
)

// Summary is the aggregate report of one cleanup cycle.
type Summary struct {
	Attempted int
	Deleted   int
	Failed    int
	Errored   int
	Purged    int64
}

func (s Summary) String() string {
	return fmt.Sprintf("attempted=%d deleted=%d failed=%d errored=%d purged=%d",
		s.Attempted, s.Deleted, s.Failed, s.Errored, s.Purged)
}

// Cycle is one run-to-completion pass over the due records. It is invoked
// by an external timer (cron/systemd); there is no in-process scheduling.
type Cycle struct {
	store            RecordStore
	executor         *Executor
	recordsRetention time.Duration
	now              func() time.Time
}

// NewCycle creates a Cycle. recordsRetention bounds how long terminal rows
// are kept before the purge step removes them.
func NewCycle(store RecordStore, executor *Executor, recordsRetention time.Duration) *Cycle {
	return &Cycle{
		store:            store,
		executor:         executor,
		recordsRetention: recordsRetention,
		now:              time.Now,
	}
}

// Run executes one cycle: fetch due records, process each, purge old
// terminal rows, report. A single record's failure never aborts the rest;
// only an unreachable store makes Run itself return an error.
func (c *Cycle) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	now := c.now().UTC()

	due, err := c.store.Due(now)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch due records: %w", err)
	}

	if len(due) == 0 {
		logger.Infof("no messages due for deletion")
	} else {
		logger.Infof("found %d messages due for deletion", len(due))
	}

	for i := range due {
		rec := &due[i]
		summary.Attempted++

		result, err := c.executor.Process(ctx, rec)
		if err != nil {
			// Store update failed for this row; logged and skipped so the
			// remaining rows still get their attempt.
			logger.Errorf("error processing record %d: %v", rec.ID, err)
			summary.Errored++
			continue
		}

		switch result {
		case ResultDeleted:
			summary.Deleted++
		case ResultFailed:
			summary.Failed++
		}
	}

	cutoff := now.Add(-c.recordsRetention)
	purged, err := c.store.PurgeOlderThan(cutoff)
	if err != nil {
		logger.Errorf("failed to purge old records: %v", err)
	} else {
		summary.Purged = purged
		if purged > 0 {
			logger.Infof("purged %d old records processed before %s", purged, cutoff.Format(time.RFC3339))
		}
	}

	logger.Infof("cleanup cycle completed: %s", summary)
	return summary, nil
}
