package analytics

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// OwnerTotals aggregates one owner's listings in a single domain.
type OwnerTotals struct {
	Listings       int64 `json:"listings"`
	Active         int64 `json:"active"`
	Views          int64 `json:"views"`
	WhatsAppClicks int64 `json:"whatsapp_clicks"`
}

// ListingStats is the per-listing breakdown for the analytics view.
type ListingStats struct {
	ListingID      uuid.UUID           `json:"listing_id"`
	ListingDomain  enums.ListingDomain `json:"listing_domain"`
	Title          string              `json:"title"`
	Views          int64               `json:"views"`
	WhatsAppClicks int64               `json:"whatsapp_clicks"`
	ReviewCount    int64               `json:"review_count"`
	AverageRating  float64             `json:"average_rating"`
}

// Repository runs the aggregate queries behind the seller dashboard.
type Repository interface {
	RentalTotals(ctx context.Context, ownerID uuid.UUID) (*OwnerTotals, error)
	MarketplaceTotals(ctx context.Context, ownerID uuid.UUID) (*OwnerTotals, error)
	RentalListingStats(ctx context.Context, ownerID uuid.UUID) ([]ListingStats, error)
	MarketplaceListingStats(ctx context.Context, ownerID uuid.UUID) ([]ListingStats, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) RentalTotals(ctx context.Context, ownerID uuid.UUID) (*OwnerTotals, error) {
	return r.totals(ctx, &models.RentalProperty{}, ownerID)
}

func (r *repository) MarketplaceTotals(ctx context.Context, ownerID uuid.UUID) (*OwnerTotals, error) {
	return r.totals(ctx, &models.MarketplaceItem{}, ownerID)
}

func (r *repository) totals(ctx context.Context, model any, ownerID uuid.UUID) (*OwnerTotals, error) {
	var out struct {
		Listings int64
		Active   int64
		Views    *int64
		Clicks   *int64
	}
	err := r.db.WithContext(ctx).
		Model(model).
		Select(`COUNT(*) AS listings,
			COUNT(*) FILTER (WHERE is_available) AS active,
			SUM(views_count) AS views,
			SUM(whatsapp_clicks) AS clicks`).
		Where("owner_id = ?", ownerID).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	totals := &OwnerTotals{Listings: out.Listings, Active: out.Active}
	if out.Views != nil {
		totals.Views = *out.Views
	}
	if out.Clicks != nil {
		totals.WhatsAppClicks = *out.Clicks
	}
	return totals, nil
}

func (r *repository) RentalListingStats(ctx context.Context, ownerID uuid.UUID) ([]ListingStats, error) {
	return r.listingStats(ctx, "rental_properties", enums.ListingDomainRental, ownerID)
}

func (r *repository) MarketplaceListingStats(ctx context.Context, ownerID uuid.UUID) ([]ListingStats, error) {
	return r.listingStats(ctx, "marketplace_items", enums.ListingDomainMarketplace, ownerID)
}

func (r *repository) listingStats(ctx context.Context, table string, domain enums.ListingDomain, ownerID uuid.UUID) ([]ListingStats, error) {
	var rows []ListingStats
	err := r.db.WithContext(ctx).
		Table(table+" AS l").
		Select(`l.id AS listing_id,
			? AS listing_domain,
			l.title,
			l.views_count AS views,
			l.whatsapp_clicks AS whats_app_clicks,
			COUNT(rv.id) AS review_count,
			COALESCE(AVG(rv.rating), 0) AS average_rating`, domain).
		Joins("LEFT JOIN reviews rv ON rv.listing_id = l.id AND rv.listing_domain = ?", domain).
		Where("l.owner_id = ?", ownerID).
		Group("l.id, l.title, l.views_count, l.whatsapp_clicks").
		Order("l.views_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
