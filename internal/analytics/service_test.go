package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/internal/subscriptions"
	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
)

type fakeRepo struct {
	rentalTotals      *OwnerTotals
	marketplaceTotals *OwnerTotals
	rentalStats       []ListingStats
	marketplaceStats  []ListingStats
}

func (f *fakeRepo) RentalTotals(ctx context.Context, ownerID uuid.UUID) (*OwnerTotals, error) {
	return f.rentalTotals, nil
}

func (f *fakeRepo) MarketplaceTotals(ctx context.Context, ownerID uuid.UUID) (*OwnerTotals, error) {
	return f.marketplaceTotals, nil
}

func (f *fakeRepo) RentalListingStats(ctx context.Context, ownerID uuid.UUID) ([]ListingStats, error) {
	return f.rentalStats, nil
}

func (f *fakeRepo) MarketplaceListingStats(ctx context.Context, ownerID uuid.UUID) ([]ListingStats, error) {
	return f.marketplaceStats, nil
}

type fakeSubs struct {
	access subscriptions.Access
}

func (f *fakeSubs) Resolve(ctx context.Context, userID uuid.UUID) (*subscriptions.Resolution, error) {
	return &subscriptions.Resolution{Access: f.access}, nil
}

func (f *fakeSubs) Activate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, plan *models.SubscriptionPlan) (*models.UserSubscription, error) {
	panic("not used")
}

func (f *fakeSubs) Cancel(ctx context.Context, userID uuid.UUID) error {
	panic("not used")
}

func (f *fakeSubs) ExpireDue(ctx context.Context, now time.Time, batchSize int) ([]models.UserSubscription, error) {
	panic("not used")
}

func testRepo() *fakeRepo {
	return &fakeRepo{
		rentalTotals:      &OwnerTotals{Listings: 3, Active: 2, Views: 120, WhatsAppClicks: 14},
		marketplaceTotals: &OwnerTotals{Listings: 1, Active: 1, Views: 40, WhatsAppClicks: 5},
		rentalStats:       []ListingStats{{Title: "Apartment", Views: 100}},
		marketplaceStats:  []ListingStats{{Title: "Phone", Views: 40}},
	}
}

func newService(t *testing.T, subs *fakeSubs) Service {
	t.Helper()
	svc, err := NewService(testRepo(), subs)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestDashboardWithDashboardAccess(t *testing.T) {
	svc := newService(t, &fakeSubs{access: subscriptions.Access{
		Kind:               enums.ScenarioGracePeriod,
		HasDashboardAccess: true,
	}})

	dash, err := svc.Dashboard(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dash.Rentals.Views != 120 || dash.Marketplace.Listings != 1 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
}

func TestDashboardDeniedWhenLocked(t *testing.T) {
	svc := newService(t, &fakeSubs{access: subscriptions.Access{Kind: enums.ScenarioLocked}})

	_, err := svc.Dashboard(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestReportRequiresAnalyticsFlag(t *testing.T) {
	// Dashboard access alone is not enough for the per-listing report.
	svc := newService(t, &fakeSubs{access: subscriptions.Access{
		Kind:               enums.ScenarioActive,
		HasDashboardAccess: true,
		HasAnalyticsAccess: false,
	}})

	_, err := svc.Report(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden without the analytics flag, got %v", err)
	}
}

func TestReportWithAnalyticsAccess(t *testing.T) {
	svc := newService(t, &fakeSubs{access: subscriptions.Access{
		Kind:               enums.ScenarioActive,
		HasDashboardAccess: true,
		HasAnalyticsAccess: true,
	}})

	report, err := svc.Report(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.RentalListings) != 1 || report.RentalListings[0].Title != "Apartment" {
		t.Fatalf("unexpected report %+v", report)
	}
}
