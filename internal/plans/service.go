package plans

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/pkg/config"
	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
)

// FreeAccessPlanID is the synthetic plan id used when subscriptions are
// globally disabled. It never exists in the catalog table.
const FreeAccessPlanID = "plan_free_access"

// Service exposes the plan catalog.
type Service interface {
	List(ctx context.Context) ([]models.SubscriptionPlan, error)
	GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error)
	GetByName(ctx context.Context, name enums.PlanName) (*models.SubscriptionPlan, error)
}

type service struct {
	repo Repository
}

// NewService wires the catalog repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "plans repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.SubscriptionPlan, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plans")
	}
	return rows, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id required")
	}
	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get plan")
	}
	return plan, nil
}

func (s *service) GetByName(ctx context.Context, name enums.PlanName) (*models.SubscriptionPlan, error) {
	if !name.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plan name")
	}
	plan, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get plan")
	}
	return plan, nil
}

// FreeAccessPlan materializes the operator-configured limits applied when the
// paid tiers are switched off. It is substituted at resolution time only and
// never persisted.
func FreeAccessPlan(cfg config.FreeAccessConfig) *models.SubscriptionPlan {
	return &models.SubscriptionPlan{
		ID:               FreeAccessPlanID,
		Name:             enums.PlanNameFreeAccess,
		MaxPostsPerMonth: cfg.MaxPostsPerMonth,
		MaxImagesPerPost: cfg.MaxImagesPerPost,
		MaxVideosPerPost: cfg.MaxVideosPerPost,
		HasAnalytics:     cfg.GrantAnalytics,
		HasVerifiedBadge: false,
		Price:            decimal.Zero,
		CurrencyCode:     "XAF",
	}
}
