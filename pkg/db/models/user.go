package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash   string     `gorm:"column:password_hash;not null"`
	FullName       string     `gorm:"column:full_name;not null"`
	Phone          *string    `gorm:"column:phone"`
	WhatsAppNumber *string    `gorm:"column:whatsapp_number"`
	AvatarURL      *string    `gorm:"column:avatar_url"`
	IsActive       bool       `gorm:"column:is_active;not null;default:true"`
	IsVerified     bool       `gorm:"column:is_verified;not null;default:false"`
	LastLoginAt    *time.Time `gorm:"column:last_login_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
