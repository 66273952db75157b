package analytics

import (
	"context"

	"github.com/google/uuid"

	"github.com/mokolo-app/mokolo-backend/internal/subscriptions"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
)

// Dashboard is the owner overview available to dashboard-level access.
type Dashboard struct {
	Rentals     OwnerTotals `json:"rentals"`
	Marketplace OwnerTotals `json:"marketplace"`
}

// Report adds the per-listing breakdown reserved for analytics-level plans.
type Report struct {
	Dashboard
	RentalListings      []ListingStats `json:"rental_listings"`
	MarketplaceListings []ListingStats `json:"marketplace_listings"`
}

// Service serves seller dashboards and plan-gated analytics.
type Service interface {
	// Dashboard returns aggregate totals. It needs dashboard access, which
	// grace-period subscribers retain.
	Dashboard(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error)
	// Report returns the per-listing breakdown. It is gated on the plan's
	// analytics flag, not just dashboard access.
	Report(ctx context.Context, ownerID uuid.UUID) (*Report, error)
}

type service struct {
	repo Repository
	subs subscriptions.Service
}

// NewService wires the analytics repository with access resolution.
func NewService(repo Repository, subs subscriptions.Service) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "analytics repository required")
	}
	if subs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "subscriptions service required")
	}
	return &service{repo: repo, subs: subs}, nil
}

func (s *service) Dashboard(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error) {
	res, err := s.subs.Resolve(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !res.Access.HasDashboardAccess {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "dashboard is not available under the current subscription")
	}
	return s.dashboard(ctx, ownerID)
}

func (s *service) Report(ctx context.Context, ownerID uuid.UUID) (*Report, error) {
	res, err := s.subs.Resolve(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !res.Access.HasAnalyticsAccess {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "analytics requires a plan with analytics included")
	}

	dashboard, err := s.dashboard(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	rentalStats, err := s.repo.RentalListingStats(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rental listing stats")
	}
	marketStats, err := s.repo.MarketplaceListingStats(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marketplace listing stats")
	}
	return &Report{
		Dashboard:           *dashboard,
		RentalListings:      rentalStats,
		MarketplaceListings: marketStats,
	}, nil
}

func (s *service) dashboard(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error) {
	rentals, err := s.repo.RentalTotals(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rental totals")
	}
	marketplace, err := s.repo.MarketplaceTotals(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marketplace totals")
	}
	return &Dashboard{Rentals: *rentals, Marketplace: *marketplace}, nil
}
