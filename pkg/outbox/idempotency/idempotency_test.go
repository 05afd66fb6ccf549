package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/abhinavyadav-ai/asset-manager/pkg/redis"
)

func newManager(t *testing.T, ttl time.Duration) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	manager, err := NewManager(client, ttl)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return manager, srv
}

func TestCheckAndMarkProcessed(t *testing.T) {
	ctx := context.Background()
	manager, srv := newManager(t, 24*time.Hour)
	eventID := uuid.New()

	already, err := manager.CheckAndMarkProcessed(ctx, "notifications", eventID)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if already {
		t.Fatalf("expected first delivery to be new")
	}

	key := "lc:idempotency:evt:processed:notifications:" + eventID.String()
	if !srv.Exists(key) {
		t.Fatalf("expected key %s to be set", key)
	}
	if ttl := srv.TTL(key); ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl %s", ttl)
	}

	already, err = manager.CheckAndMarkProcessed(ctx, "notifications", eventID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !already {
		t.Fatalf("expected redelivery to be detected")
	}

	other, err := manager.CheckAndMarkProcessed(ctx, "audit", eventID)
	if err != nil || other {
		t.Fatalf("consumers must be tracked separately, got %v err=%v", other, err)
	}
}

func TestDeleteAllowsRetry(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t, time.Hour)
	eventID := uuid.New()

	if _, err := manager.CheckAndMarkProcessed(ctx, "notifications", eventID); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := manager.Delete(ctx, "notifications", eventID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	already, err := manager.CheckAndMarkProcessed(ctx, "notifications", eventID)
	if err != nil || already {
		t.Fatalf("expected event to be processable again, got %v err=%v", already, err)
	}
}

func TestValidation(t *testing.T) {
	if _, err := NewManager(nil, time.Hour); err == nil {
		t.Fatalf("expected nil store error")
	}
	manager, _ := newManager(t, time.Hour)
	if _, err := manager.CheckAndMarkProcessed(context.Background(), "", uuid.New()); err == nil {
		t.Fatalf("expected consumer error")
	}
	if _, err := manager.CheckAndMarkProcessed(context.Background(), "notifications", uuid.Nil); err == nil {
		t.Fatalf("expected event id error")
	}
}
