package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
)

// Repository persists payment transactions.
type Repository interface {
	Create(ctx context.Context, txn *models.PaymentTransaction) error
	Update(ctx context.Context, txn *models.PaymentTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentTransaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.PaymentTransaction, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *repository) Create(ctx context.Context, txn *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) Update(ctx context.Context, txn *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	if err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.PaymentTransaction, error) {
	var rows []models.PaymentTransaction
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
