package main

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeConsumer struct {
	ran bool
	err error
}

func (f *fakeConsumer) Run(ctx context.Context) error {
	f.ran = true
	return f.err
}

func newTestService(t *testing.T, redisErr error, consumer *fakeConsumer) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger:               logger.New(logger.Options{ServiceName: "worker-test", Output: io.Discard}),
		DB:                   fakePinger{},
		Redis:                fakePinger{err: redisErr},
		PubSub:               fakePinger{},
		NotificationConsumer: consumer,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRunStopsWhenDependencyIsDown(t *testing.T) {
	consumer := &fakeConsumer{}
	svc := newTestService(t, errors.New("connection refused"), consumer)

	if err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected readiness error")
	}
	if consumer.ran {
		t.Fatal("consumer must not start before dependencies are ready")
	}
}

func TestRunSurfacesConsumerFailure(t *testing.T) {
	boom := errors.New("subscription deleted")
	svc := newTestService(t, nil, &fakeConsumer{err: boom})

	if err := svc.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected consumer error, got %v", err)
	}
}

func TestRunTreatsCancellationAsCleanStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newTestService(t, nil, &fakeConsumer{err: context.Canceled})

	if err := svc.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
