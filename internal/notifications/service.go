package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/pagination"
)

// Notify describes one notification to deliver.
type Notify struct {
	UserID  uuid.UUID
	Type    enums.NotificationType
	Title   string
	Message string
	Link    *string
}

// Service manages in-app notifications.
type Service interface {
	Send(ctx context.Context, n Notify) error
	SendBatch(ctx context.Context, batch []Notify) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	// Prune deletes notifications older than the cutoff, returning how many
	// rows went away. The cleanup job drives this.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

type service struct {
	repo  Repository
	nowFn func() time.Time
}

// NewService wires the notifications repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo, nowFn: time.Now}, nil
}

func (s *service) Send(ctx context.Context, n Notify) error {
	row, err := buildRow(n)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

func (s *service) SendBatch(ctx context.Context, batch []Notify) error {
	if len(batch) == 0 {
		return nil
	}
	rows := make([]models.Notification, 0, len(batch))
	for _, n := range batch {
		row, err := buildRow(n)
		if err != nil {
			return err
		}
		rows = append(rows, *row)
	}
	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notifications")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByUser(ctx, userID, unreadOnly, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return rows, nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and notification id required")
	}
	affected, err := s.repo.MarkRead(ctx, userID, id, s.nowFn())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found or already read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	affected, err := s.repo.MarkAllRead(ctx, userID, s.nowFn())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return affected, nil
}

func (s *service) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prune notifications")
	}
	return deleted, nil
}

func buildRow(n Notify) (*models.Notification, error) {
	if n.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !n.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	if strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and message required")
	}
	return &models.Notification{
		UserID:  n.UserID,
		Type:    n.Type,
		Title:   strings.TrimSpace(n.Title),
		Message: strings.TrimSpace(n.Message),
		Link:    n.Link,
	}, nil
}
