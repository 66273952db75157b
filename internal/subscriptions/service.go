package subscriptions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/internal/plans"
	"github.com/mokolo-app/mokolo-backend/pkg/config"
	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/metrics"
)

// Resolution pairs the computed access state with the record it came from so
// callers that mutate usage afterwards do not have to refetch.
type Resolution struct {
	Access       Access
	Subscription *models.UserSubscription
}

// Service resolves access scenarios and manages the subscription lifecycle.
type Service interface {
	// Resolve computes the caller's access scenario, applying the lazy
	// usage-cycle reset first when a calendar month has elapsed.
	Resolve(ctx context.Context, userID uuid.UUID) (*Resolution, error)
	// Activate creates or renews a subscription on the given plan. It is
	// called after a successful charge, inside the payment transaction.
	Activate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, plan *models.SubscriptionPlan) (*models.UserSubscription, error)
	// Cancel marks the current subscription cancelled. Access drops to
	// locked on the next resolution.
	Cancel(ctx context.Context, userID uuid.UUID) error
	// ExpireDue flips active rows whose end_date has elapsed to expired and
	// returns them for follow-up notifications.
	ExpireDue(ctx context.Context, now time.Time, batchSize int) ([]models.UserSubscription, error)
}

type service struct {
	repo     Repository
	flags    config.FeatureFlagsConfig
	freePlan *models.SubscriptionPlan
	metrics  *metrics.QuotaMetrics
	nowFn    func() time.Time
}

// NewService wires the subscription repository with the deployment flags.
func NewService(repo Repository, flags config.FeatureFlagsConfig, free config.FreeAccessConfig, m *metrics.QuotaMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "subscriptions repository required")
	}
	return &service{
		repo:     repo,
		flags:    flags,
		freePlan: plans.FreeAccessPlan(free),
		metrics:  m,
		nowFn:    time.Now,
	}, nil
}

func (s *service) Resolve(ctx context.Context, userID uuid.UUID) (*Resolution, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	now := s.nowFn()

	sub, err := s.repo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get subscription")
		}
		sub = nil
	}

	// Counters reset opportunistically on fetch; there is no background
	// reset job. A failed persist keeps the stale counters, which only
	// under-grants until the next fetch.
	if ResetIfNewCycle(sub, now) {
		if err := s.repo.SaveCounters(ctx, sub); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist quota reset")
		}
	}

	access := ResolveScenario(sub, now, s.flags.SubscriptionsEnabled, s.freePlan)
	s.metrics.IncScenario(access.Kind.String())

	return &Resolution{Access: access, Subscription: sub}, nil
}

func (s *service) Activate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, plan *models.SubscriptionPlan) (*models.UserSubscription, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if plan == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan required")
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}
	now := s.nowFn()

	current, err := repo.GetCurrentByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get subscription")
	}

	// Renewal on the same plan extends the cycle and keeps the usage
	// counters; anything else starts a fresh record.
	if current != nil && current.PlanID == plan.ID && current.Status == enums.SubscriptionStatusActive && current.EndDate.After(now) {
		current.EndDate = current.EndDate.AddDate(0, 1, 0)
		if err := repo.Update(ctx, current); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeActivationFailed, err, "extend subscription")
		}
		current.Plan = plan
		return current, nil
	}

	sub := &models.UserSubscription{
		UserID:            userID,
		PlanID:            plan.ID,
		Status:            enums.SubscriptionStatusActive,
		StartDate:         now,
		EndDate:           now.AddDate(0, 1, 0),
		CurrentMonthStart: now,
	}
	if err := repo.Create(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeActivationFailed, err, "create subscription")
	}
	sub.Plan = plan
	return sub, nil
}

func (s *service) Cancel(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	sub, err := s.repo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no subscription to cancel")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get subscription")
	}
	if sub.Status == enums.SubscriptionStatusCancelled {
		return nil
	}

	sub.Status = enums.SubscriptionStatusCancelled
	if err := s.repo.Update(ctx, sub); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel subscription")
	}
	return nil
}

func (s *service) ExpireDue(ctx context.Context, now time.Time, batchSize int) ([]models.UserSubscription, error) {
	due, err := s.repo.ListDueForExpiry(ctx, now, batchSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list due subscriptions")
	}
	if len(due) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(due))
	for _, sub := range due {
		ids = append(ids, sub.ID)
	}
	if _, err := s.repo.MarkExpired(ctx, ids); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark subscriptions expired")
	}
	return due, nil
}
