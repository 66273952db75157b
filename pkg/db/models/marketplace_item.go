package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// MarketplaceItem is a listing in one of the marketplace categories.
type MarketplaceItem struct {
	ID            uuid.UUID                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID       uuid.UUID                 `gorm:"column:owner_id;type:uuid;not null;index"`
	Category      enums.MarketplaceCategory `gorm:"column:category;type:marketplace_category;not null;index"`
	Title         string                    `gorm:"column:title;not null"`
	Description   string                    `gorm:"column:description;not null"`
	Price         decimal.Decimal           `gorm:"column:price;type:numeric(12,2);not null"`
	City          string                    `gorm:"column:city;not null"`
	Quarter       string                    `gorm:"column:quarter"`
	Condition     *string                   `gorm:"column:condition"`
	ListingStatus enums.ListingStatus       `gorm:"column:listing_status;type:listing_status;not null;default:'pending'"`
	IsAvailable   bool                      `gorm:"column:is_available;not null;default:true"`

	ViewsCount     int64 `gorm:"column:views_count;not null;default:0"`
	WhatsAppClicks int64 `gorm:"column:whatsapp_clicks;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
