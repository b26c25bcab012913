package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetentionConfig contains configuration for the retention pruner.
type RetentionConfig struct {
	// RetentionDays is the number of days to retain records.
	// Zero or negative disables age-based pruning.
	RetentionDays int

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string
}

// DefaultRetentionConfig returns the default retention configuration.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		RetentionDays: 90,
		MaxRecords:    0,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner enforces retention policies on validation records.
type Pruner struct {
	storage   Storage
	config    *RetentionConfig
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(storage Storage, config *RetentionConfig) *Pruner {
	if config == nil {
		config = DefaultRetentionConfig()
	}

	pruner := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "history.retention"),
	}
	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes records older than the retention period or exceeding the max
// record count.
//
// Pruning happens in two phases:
//  1. Age-based: delete records older than RetentionDays
//  2. Count-based: if total records > MaxRecords, delete oldest
//
// Returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.storage.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned records by age",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.storage.TrimToCount(ctx, p.config.MaxRecords)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned records by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	if totalDeleted == 0 {
		p.logger.Debug("no records pruned",
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Info("history pruning completed",
			"total_deleted", totalDeleted,
		)
	}

	return totalDeleted, nil
}

// Start starts the automatic pruning scheduler.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
