package support

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/pagination"
)

const maxMessageLength = 4000

// Service manages user support requests.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, subject, message string) (*models.SupportMessage, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SupportMessage, error)
	// Resolve closes the caller's own message. Closing an already resolved
	// message is a no-op.
	Resolve(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo  Repository
	nowFn func() time.Time
}

// NewService wires the support repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "support repository required")
	}
	return &service{repo: repo, nowFn: time.Now}, nil
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, subject, message string) (*models.SupportMessage, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" || message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject and message required")
	}
	if len(message) > maxMessageLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message too long")
	}

	msg := &models.SupportMessage{
		UserID:  userID,
		Subject: subject,
		Message: message,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create support message")
	}
	return msg, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SupportMessage, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByUser(ctx, userID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list support messages")
	}
	return rows, nil
}

func (s *service) Resolve(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and message id required")
	}
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "support message not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load support message")
	}
	if msg.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "support message not found")
	}
	if _, err := s.repo.MarkResolved(ctx, id, s.nowFn()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve support message")
	}
	return nil
}
