package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// Repository persists subscription records and their usage counters.
type Repository interface {
	GetCurrentByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSubscription, error)
	Create(ctx context.Context, sub *models.UserSubscription) error
	Update(ctx context.Context, sub *models.UserSubscription) error
	SaveCounters(ctx context.Context, sub *models.UserSubscription) error
	IncrementUsage(ctx context.Context, id uuid.UUID, posts, images, videos int) error
	ListDueForExpiry(ctx context.Context, now time.Time, limit int) ([]models.UserSubscription, error)
	MarkExpired(ctx context.Context, ids []uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a subscription repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// GetCurrentByUserID returns the most recent subscription row for the user
// with its plan preloaded, or gorm.ErrRecordNotFound when none exists.
func (r *repository) GetCurrentByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) Create(ctx context.Context, sub *models.UserSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *repository) Update(ctx context.Context, sub *models.UserSubscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

// SaveCounters persists only the usage-cycle columns so a lazy reset cannot
// clobber concurrent status transitions.
func (r *repository) SaveCounters(ctx context.Context, sub *models.UserSubscription) error {
	return r.db.WithContext(ctx).
		Model(&models.UserSubscription{}).
		Where("id = ?", sub.ID).
		Updates(map[string]any{
			"posts_used_this_month":  sub.PostsUsedThisMonth,
			"images_used_this_month": sub.ImagesUsedThisMonth,
			"videos_used_this_month": sub.VideosUsedThisMonth,
			"current_month_start":    sub.CurrentMonthStart,
			"last_quota_reset":       sub.LastQuotaReset,
		}).Error
}

// IncrementUsage bumps counters atomically in SQL rather than read-modify-write.
func (r *repository) IncrementUsage(ctx context.Context, id uuid.UUID, posts, images, videos int) error {
	updates := map[string]any{}
	if posts != 0 {
		updates["posts_used_this_month"] = gorm.Expr("posts_used_this_month + ?", posts)
	}
	if images != 0 {
		updates["images_used_this_month"] = gorm.Expr("images_used_this_month + ?", images)
	}
	if videos != 0 {
		updates["videos_used_this_month"] = gorm.Expr("videos_used_this_month + ?", videos)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.UserSubscription{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ListDueForExpiry returns active rows whose end_date has elapsed, oldest
// first, for the expiry sweep.
func (r *repository) ListDueForExpiry(ctx context.Context, now time.Time, limit int) ([]models.UserSubscription, error) {
	var rows []models.UserSubscription
	q := r.db.WithContext(ctx).
		Where("status = ? AND end_date <= ?", enums.SubscriptionStatusActive, now).
		Order("end_date ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) MarkExpired(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.UserSubscription{}).
		Where("id IN ? AND status = ?", ids, enums.SubscriptionStatusActive).
		Update("status", enums.SubscriptionStatusExpired)
	return res.RowsAffected, res.Error
}
