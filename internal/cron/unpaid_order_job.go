package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

const (
	defaultUnpaidOrderTTL = 24 * time.Hour
	defaultExpiryBatch    = 100
)

type UnpaidOrderJobParams struct {
	Logger    *logger.Logger
	Orders    unpaidOrderExpirer
	TTL       time.Duration
	BatchSize int
}

type unpaidOrderExpirer interface {
	ExpireUnpaid(ctx context.Context, cutoff time.Time, limit int) (int, error)
}

// NewUnpaidOrderJob cancels online-payment orders that were never paid within
// TTL, handing their stock back.
func NewUnpaidOrderJob(params UnpaidOrderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultUnpaidOrderTTL
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultExpiryBatch
	}
	return &unpaidOrderJob{
		logg:   params.Logger,
		orders: params.Orders,
		ttl:    ttl,
		batch:  batch,
		now:    time.Now,
	}, nil
}

type unpaidOrderJob struct {
	logg   *logger.Logger
	orders unpaidOrderExpirer
	ttl    time.Duration
	batch  int
	now    func() time.Time
}

func (j *unpaidOrderJob) Name() string { return "unpaid-order-expiry" }

// Run expires one batch per cycle. Orders cancelled before a per-order failure
// are still counted.
func (j *unpaidOrderJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	expired, err := j.orders.ExpireUnpaid(ctx, cutoff, j.batch)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"orders_expired": expired,
	})
	if err != nil {
		j.logg.Warn(logCtx, "unpaid order expiry incomplete")
		return fmt.Errorf("expire unpaid orders: %w", err)
	}
	j.logg.Info(logCtx, "unpaid order expiry complete")
	return nil
}
