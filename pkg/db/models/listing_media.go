package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// ListingMedia stores ordered media entries for a listing in either domain.
// DisplayOrder is reserved deterministically before uploads start so that
// concurrent uploads never produce duplicate or gapped positions.
type ListingMedia struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ListingDomain enums.ListingDomain `gorm:"column:listing_domain;type:listing_domain;not null;uniqueIndex:idx_listing_media_order,priority:1"`
	ListingID     uuid.UUID           `gorm:"column:listing_id;type:uuid;not null;uniqueIndex:idx_listing_media_order,priority:2"`
	MediaType     enums.MediaType     `gorm:"column:media_type;type:media_type;not null"`
	MediaURL      string              `gorm:"column:media_url;not null"`
	StorageKey    string              `gorm:"column:storage_key;not null"`
	DisplayOrder  int                 `gorm:"column:display_order;not null;uniqueIndex:idx_listing_media_order,priority:3"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
