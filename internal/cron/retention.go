package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

const (
	outboxRetentionDays       = 7
	outboxMinAttempts         = 10
	notificationRetentionDays = 30
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// pruneJob deletes rows older than a day-based cutoff.
type pruneJob struct {
	name  string
	days  int
	logg  *logger.Logger
	now   func() time.Time
	prune func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (j *pruneJob) Name() string { return j.name }

func (j *pruneJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -j.days)
	deleted, err := j.prune(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("%s: %w", j.name, err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.days,
		"rows_deleted":   deleted,
	}), "rows pruned")
	return nil
}

type OutboxRetentionJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository outboxRetentionRepo
	Retention  int
	// MinAttempts is the publisher's max attempts; unpublished rows at that
	// count already have a DLQ copy.
	MinAttempts int
}

type outboxRetentionRepo interface {
	DeletePublishedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time, minAttemptCount int) (int64, error)
}

func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	switch {
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	case params.DB == nil:
		return nil, fmt.Errorf("db runner required")
	case params.Repository == nil:
		return nil, fmt.Errorf("outbox repository required")
	}
	minAttempts := positiveOr(params.MinAttempts, outboxMinAttempts)
	return &pruneJob{
		name: "outbox-retention",
		days: positiveOr(params.Retention, outboxRetentionDays),
		logg: params.Logger,
		now:  time.Now,
		prune: func(ctx context.Context, cutoff time.Time) (int64, error) {
			var deleted int64
			err := params.DB.WithTx(ctx, func(tx *gorm.DB) error {
				n, err := params.Repository.DeletePublishedBefore(ctx, tx, cutoff, minAttempts)
				deleted = n
				return err
			})
			return deleted, err
		},
	}, nil
}

type NotificationCleanupJobParams struct {
	Logger     *logger.Logger
	Repository notificationsCleanupRepo
	Retention  int
}

type notificationsCleanupRepo interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewNotificationCleanupJob prunes read inbox entries. Unread ones are kept
// regardless of age.
func NewNotificationCleanupJob(params NotificationCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &pruneJob{
		name:  "notification-cleanup",
		days:  positiveOr(params.Retention, notificationRetentionDays),
		logg:  params.Logger,
		now:   time.Now,
		prune: params.Repository.DeleteReadBefore,
	}, nil
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
