package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/multierr"

	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

type fakeExpirer struct {
	cutoff  time.Time
	limit   int
	expired int
	err     error
}

func (f *fakeExpirer) ExpireUnpaid(_ context.Context, cutoff time.Time, limit int) (int, error) {
	f.cutoff = cutoff
	f.limit = limit
	return f.expired, f.err
}

func newUnpaidOrderJob(t *testing.T, expirer *fakeExpirer, ttl time.Duration) *unpaidOrderJob {
	t.Helper()
	jobIface, err := NewUnpaidOrderJob(UnpaidOrderJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Orders: expirer,
		TTL:    ttl,
	})
	if err != nil {
		t.Fatalf("NewUnpaidOrderJob: %v", err)
	}
	return jobIface.(*unpaidOrderJob)
}

func TestUnpaidOrderJobUsesTTLCutoff(t *testing.T) {
	now := time.Date(2026, 6, 2, 8, 0, 0, 0, time.UTC)
	expirer := &fakeExpirer{expired: 3}
	job := newUnpaidOrderJob(t, expirer, 6*time.Hour)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := now.Add(-6 * time.Hour); !expirer.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, expirer.cutoff)
	}
	if expirer.limit != defaultExpiryBatch {
		t.Fatalf("expected batch %d, got %d", defaultExpiryBatch, expirer.limit)
	}
}

func TestUnpaidOrderJobDefaultsTTL(t *testing.T) {
	now := time.Date(2026, 6, 2, 8, 0, 0, 0, time.UTC)
	expirer := &fakeExpirer{}
	job := newUnpaidOrderJob(t, expirer, 0)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := now.Add(-24 * time.Hour); !expirer.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, expirer.cutoff)
	}
}

func TestUnpaidOrderJobReportsPerOrderFailures(t *testing.T) {
	combined := multierr.Combine(errors.New("expire order LUM-1: boom"), errors.New("expire order LUM-2: boom"))
	job := newUnpaidOrderJob(t, &fakeExpirer{expired: 1, err: combined}, time.Hour)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := len(multierr.Errors(errors.Unwrap(err))); got != 2 {
		t.Fatalf("expected both order failures preserved, got %d", got)
	}
}
