package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// UserSubscription persists per-user subscription state and usage counters.
// One active-or-most-recent record per user; history rows may exist behind it.
type UserSubscription struct {
	ID     uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	PlanID string                   `gorm:"column:plan_id;not null"`
	Plan   *SubscriptionPlan        `gorm:"foreignKey:PlanID"`
	Status enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'pending'"`

	StartDate time.Time `gorm:"column:start_date;not null"`
	// EndDate is the billing-cycle boundary that determines expiry.
	EndDate time.Time `gorm:"column:end_date;not null"`

	PostsUsedThisMonth  int `gorm:"column:posts_used_this_month;not null;default:0"`
	ImagesUsedThisMonth int `gorm:"column:images_used_this_month;not null;default:0"`
	VideosUsedThisMonth int `gorm:"column:videos_used_this_month;not null;default:0"`

	// CurrentMonthStart anchors the usage window; counters reset lazily when a
	// calendar month has elapsed since this timestamp.
	CurrentMonthStart time.Time  `gorm:"column:current_month_start;not null"`
	LastQuotaReset    *time.Time `gorm:"column:last_quota_reset"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
