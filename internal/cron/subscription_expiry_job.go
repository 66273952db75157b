package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mokolo-app/mokolo-backend/internal/notifications"
	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
)

const (
	expiryBatchSize = 500
	maxExpirySweeps = 20
)

// subscriptionExpirer is the slice of the subscriptions service the job uses.
type subscriptionExpirer interface {
	ExpireDue(ctx context.Context, now time.Time, batchSize int) ([]models.UserSubscription, error)
}

// expiryNotifier delivers the expiry notices. Kept narrow so the job does
// not depend on the full notifications service in tests.
type expiryNotifier interface {
	SendBatch(ctx context.Context, batch []notifications.Notify) error
}

// SubscriptionExpiryJobParams configure the expiry sweep.
type SubscriptionExpiryJobParams struct {
	Logger        *logger.Logger
	Subscriptions subscriptionExpirer
	Notifier      expiryNotifier
	BatchSize     int
}

// NewSubscriptionExpiryJob constructs the job that flips lapsed active
// subscriptions to expired and notifies their owners. Expiry is otherwise
// lazy; this sweep only makes sure users hear about it without logging in.
func NewSubscriptionExpiryJob(params SubscriptionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions service required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = expiryBatchSize
	}
	return &subscriptionExpiryJob{
		logg:      params.Logger,
		subs:      params.Subscriptions,
		notifier:  params.Notifier,
		batchSize: batchSize,
		now:       time.Now,
	}, nil
}

type subscriptionExpiryJob struct {
	logg      *logger.Logger
	subs      subscriptionExpirer
	notifier  expiryNotifier
	batchSize int
	now       func() time.Time
}

func (j *subscriptionExpiryJob) Name() string { return "subscription-expiry" }

func (j *subscriptionExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var expired int
	for sweep := 0; sweep < maxExpirySweeps; sweep++ {
		due, err := j.subs.ExpireDue(ctx, now, j.batchSize)
		if err != nil {
			return fmt.Errorf("expire due subscriptions: %w", err)
		}
		if len(due) == 0 {
			break
		}
		expired += len(due)
		j.notify(ctx, due)
		if len(due) < j.batchSize {
			break
		}
	}

	logCtx := j.logg.WithField(ctx, "rows_expired", expired)
	j.logg.Info(logCtx, "subscription expiry sweep complete")
	return nil
}

// notify delivers expiry notices best effort; a notification failure never
// rolls back expiry, which has already been persisted.
func (j *subscriptionExpiryJob) notify(ctx context.Context, due []models.UserSubscription) {
	if j.notifier == nil {
		return
	}
	plansLink := "/subscriptions/plans"
	batch := make([]notifications.Notify, 0, len(due))
	for _, sub := range due {
		if sub.UserID == uuid.Nil {
			continue
		}
		batch = append(batch, notifications.Notify{
			UserID:  sub.UserID,
			Type:    enums.NotificationTypeSubscriptionExpiry,
			Title:   "Your subscription has expired",
			Message: "Your plan ended on " + sub.EndDate.Format("2 January 2006") + ". You can still edit your listings during the grace period. Renew to keep posting.",
			Link:    &plansLink,
		})
	}
	if len(batch) == 0 {
		return
	}
	if err := j.notifier.SendBatch(ctx, batch); err != nil {
		j.logg.Error(ctx, "failed to send expiry notifications", err)
	}
}
