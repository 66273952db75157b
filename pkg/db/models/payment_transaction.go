package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// PaymentTransaction records one mobile money charge attempt.
type PaymentTransaction struct {
	ID                uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	PlanID            string              `gorm:"column:plan_id;not null"`
	PhoneNumber       string              `gorm:"column:phone_number;not null"`
	Amount            decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	CurrencyCode      string              `gorm:"column:currency_code;not null;default:'XAF'"`
	Method            enums.PaymentMethod `gorm:"column:method;type:payment_method;not null"`
	Status            enums.PaymentStatus `gorm:"column:status;type:payment_status;not null;default:'pending'"`
	ProviderReference *string             `gorm:"column:provider_reference"`
	FailureReason     *string             `gorm:"column:failure_reason"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
