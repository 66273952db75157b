package support

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
)

// Repository persists support messages.
type Repository interface {
	Create(ctx context.Context, msg *models.SupportMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SupportMessage, error)
	MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a support repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, msg *models.SupportMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error) {
	var msg models.SupportMessage
	if err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SupportMessage, error) {
	var rows []models.SupportMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SupportMessage{}).
		Where("id = ? AND resolved = ?", id, false).
		Updates(map[string]any{"resolved": true, "resolved_at": at})
	return res.RowsAffected, res.Error
}
