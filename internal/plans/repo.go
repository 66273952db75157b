package plans

import (
	"context"

	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// Repository exposes read access to the plan catalog.
type Repository interface {
	List(ctx context.Context) ([]models.SubscriptionPlan, error)
	GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error)
	GetByName(ctx context.Context, name enums.PlanName) (*models.SubscriptionPlan, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var rows []models.SubscriptionPlan
	if err := r.db.WithContext(ctx).Order("price ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) GetByName(ctx context.Context, name enums.PlanName) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.WithContext(ctx).First(&plan, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}
