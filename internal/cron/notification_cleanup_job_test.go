package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePruner struct {
	lastCutoff time.Time
	deleted    int64
	calls      int
	err        error
}

func (f *fakePruner) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.lastCutoff = cutoff
	return f.deleted, f.err
}

func TestNotificationCleanupJobAppliesRetention(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	pruner := &fakePruner{deleted: 42}
	jobIface, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:        testLogger(),
		Notifications: pruner,
		Retention:     30 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}
	job := jobIface.(*notificationCleanupJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	expected := now.Add(-30 * 24 * time.Hour)
	if !pruner.lastCutoff.Equal(expected) {
		t.Fatalf("expected cutoff %s, got %s", expected, pruner.lastCutoff)
	}
	if pruner.calls != 1 {
		t.Fatalf("expected a single prune, got %d", pruner.calls)
	}
}

func TestNotificationCleanupJobDefaultsRetention(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	pruner := &fakePruner{}
	jobIface, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:        testLogger(),
		Notifications: pruner,
	})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}
	job := jobIface.(*notificationCleanupJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !pruner.lastCutoff.Equal(now.Add(-defaultNotificationRetention)) {
		t.Fatalf("expected the default retention window, got cutoff %s", pruner.lastCutoff)
	}
}

func TestNotificationCleanupJobPropagatesErrors(t *testing.T) {
	pruner := &fakePruner{err: errors.New("boom")}
	jobIface, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:        testLogger(),
		Notifications: pruner,
	})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}

	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
