package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeLockStore struct {
	values map[string]string
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{values: map[string]string{}}
}

func (f *fakeLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeLockStore) Get(_ context.Context, key string) (string, error) {
	value, exists := f.values[key]
	if !exists {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeLockStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireAndRelease(t *testing.T) {
	store := newFakeLockStore()
	lock, err := NewRedisLock(store, "cron:test", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	ok, err := lock.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected first acquire to win, got ok=%v err=%v", ok, err)
	}

	second, err := NewRedisLock(store, "cron:test", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	ok, err = second.Acquire(context.Background())
	if err != nil || ok {
		t.Fatalf("expected second acquire to lose, got ok=%v err=%v", ok, err)
	}

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	ok, err = second.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected acquire after release to win, got ok=%v err=%v", ok, err)
	}
}

func TestRedisLockReleaseLeavesForeignOwner(t *testing.T) {
	store := newFakeLockStore()
	lock, err := NewRedisLock(store, "cron:test", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if _, err := lock.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// Simulate TTL expiry followed by another replica taking the lock.
	store.values["cron:test"] = "someone-else"

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if store.values["cron:test"] != "someone-else" {
		t.Fatal("expected a foreign owner to keep the lock")
	}
}

func TestRedisLockReleaseAfterExpiryIsNoop(t *testing.T) {
	store := newFakeLockStore()
	lock, err := NewRedisLock(store, "cron:test", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if _, err := lock.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	delete(store.values, "cron:test")

	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("expected release of an expired lock to succeed, got %v", err)
	}
}
