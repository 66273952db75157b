package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// RatingSummary aggregates the reviews for one listing.
type RatingSummary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// Repository persists listing reviews.
type Repository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByListing(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID, limit int) ([]models.Review, error)
	Summary(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) (*RatingSummary, error)
	Delete(ctx context.Context, reviewerID, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reviews repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) ListByListing(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID, limit int) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("listing_domain = ? AND listing_id = ?", domain, listingID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Summary(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) (*RatingSummary, error) {
	var out struct {
		Count   int64
		Average *float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS count, AVG(rating) AS average").
		Where("listing_domain = ? AND listing_id = ?", domain, listingID).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	summary := &RatingSummary{Count: out.Count}
	if out.Average != nil {
		summary.Average = *out.Average
	}
	return summary, nil
}

// Delete scopes on reviewer_id so users can only remove their own reviews.
func (r *repository) Delete(ctx context.Context, reviewerID, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND reviewer_id = ?", id, reviewerID).
		Delete(&models.Review{})
	return res.RowsAffected, res.Error
}
