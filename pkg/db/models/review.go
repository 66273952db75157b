package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// Review is a rating left by a user against a listing.
type Review struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ReviewerID    uuid.UUID           `gorm:"column:reviewer_id;type:uuid;not null;uniqueIndex:idx_reviews_one_per_listing,priority:1"`
	ListingDomain enums.ListingDomain `gorm:"column:listing_domain;type:listing_domain;not null;uniqueIndex:idx_reviews_one_per_listing,priority:2"`
	ListingID     uuid.UUID           `gorm:"column:listing_id;type:uuid;not null;index;uniqueIndex:idx_reviews_one_per_listing,priority:3"`
	Rating        int                 `gorm:"column:rating;not null"`
	Comment       *string             `gorm:"column:comment"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
