package models

import (
	"time"

	"github.com/google/uuid"
)

// SupportMessage is a user-submitted support request.
type SupportMessage struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	Subject    string     `gorm:"column:subject;not null"`
	Message    string     `gorm:"column:message;not null"`
	Resolved   bool       `gorm:"column:resolved;not null;default:false"`
	ResolvedAt *time.Time `gorm:"column:resolved_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
