package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// SubscriptionPlan captures the catalog metadata for a subscription tier.
// Catalog rows are immutable at runtime; changes ship as migrations.
type SubscriptionPlan struct {
	ID               string          `gorm:"column:id;primaryKey"`
	Name             enums.PlanName  `gorm:"column:name;not null;uniqueIndex"`
	MaxPostsPerMonth int             `gorm:"column:max_posts_per_month;not null"`
	MaxImagesPerPost int             `gorm:"column:max_images_per_post;not null"`
	MaxVideosPerPost int             `gorm:"column:max_videos_per_post;not null"`
	HasAnalytics     bool            `gorm:"column:has_analytics;not null;default:false"`
	HasVerifiedBadge bool            `gorm:"column:has_verified_badge;not null;default:false"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CurrencyCode     string          `gorm:"column:currency_code;not null;default:'XAF'"`
	GracePeriodDays  int             `gorm:"column:grace_period_days;not null;default:7"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
