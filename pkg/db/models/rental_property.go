package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// RentalProperty is a listing in the rentals domain.
type RentalProperty struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID       uuid.UUID           `gorm:"column:owner_id;type:uuid;not null;index"`
	Title         string              `gorm:"column:title;not null"`
	Description   string              `gorm:"column:description;not null"`
	PricePerMonth decimal.Decimal     `gorm:"column:price_per_month;type:numeric(12,2);not null"`
	City          string              `gorm:"column:city;not null"`
	Quarter       string              `gorm:"column:quarter"`
	Bedrooms      int                 `gorm:"column:bedrooms;not null;default:0"`
	Bathrooms     int                 `gorm:"column:bathrooms;not null;default:0"`
	Furnished     bool                `gorm:"column:furnished;not null;default:false"`
	ListingStatus enums.ListingStatus `gorm:"column:listing_status;type:listing_status;not null;default:'pending'"`
	IsAvailable   bool                `gorm:"column:is_available;not null;default:true"`

	// Denormalized counters, bumped atomically server-side.
	ViewsCount     int64 `gorm:"column:views_count;not null;default:0"`
	WhatsAppClicks int64 `gorm:"column:whatsapp_clicks;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
