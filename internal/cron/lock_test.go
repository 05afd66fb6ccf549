package cron

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redisclient "github.com/abhinavyadav-ai/asset-manager/pkg/redis"
)

func TestRedisLockIsExclusiveUntilReleased(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redisclient.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	first, err := NewRedisLock(client, "luxe:maintenance:lock", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	second, err := NewRedisLock(client, "luxe:maintenance:lock", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("expected first acquire, got %v %v", ok, err)
	}
	if ok, err := second.Acquire(ctx); err != nil || ok {
		t.Fatalf("expected second acquire refused, got %v %v", ok, err)
	}

	// Releasing a lock it never held must not free the owner's key.
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if !mr.Exists("luxe:maintenance:lock") {
		t.Fatal("lock released by non-owner")
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, err := second.Acquire(ctx); err != nil || !ok {
		t.Fatalf("expected acquire after release, got %v %v", ok, err)
	}
}

func TestRedisLockExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redisclient.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	lock, err := NewRedisLock(client, "luxe:maintenance:lock", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}
	mr.FastForward(2 * time.Minute)

	other, _ := NewRedisLock(client, "luxe:maintenance:lock", time.Minute)
	if ok, err := other.Acquire(ctx); err != nil || !ok {
		t.Fatalf("expected acquire after ttl, got %v %v", ok, err)
	}
}

func TestRedisLockTokenNamesReplica(t *testing.T) {
	t.Setenv("LUXE_WORKER_ID", "cron-7")
	mr := miniredis.RunT(t)
	client := redisclient.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	lock, err := NewRedisLock(client, "luxe:maintenance:lock", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	if ok, _ := lock.Acquire(context.Background()); !ok {
		t.Fatal("expected acquire")
	}
	value, err := mr.Get("luxe:maintenance:lock")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.HasPrefix(value, "cron-7:") {
		t.Fatalf("expected replica prefix, got %q", value)
	}
}
