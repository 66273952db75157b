package support

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
)

type fakeRepo struct {
	createFn       func(ctx context.Context, msg *models.SupportMessage) error
	getFn          func(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error)
	listFn         func(ctx context.Context, userID uuid.UUID, limit int) ([]models.SupportMessage, error)
	markResolvedFn func(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
}

func (f *fakeRepo) Create(ctx context.Context, msg *models.SupportMessage) error {
	return f.createFn(ctx, msg)
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error) {
	return f.getFn(ctx, id)
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.SupportMessage, error) {
	return f.listFn(ctx, userID, limit)
}

func (f *fakeRepo) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	return f.markResolvedFn(ctx, id, at)
}

func newService(t *testing.T, repo *fakeRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSubmitTrimsAndPersists(t *testing.T) {
	var created *models.SupportMessage
	repo := &fakeRepo{
		createFn: func(ctx context.Context, msg *models.SupportMessage) error {
			created = msg
			return nil
		},
	}
	svc := newService(t, repo)

	msg, err := svc.Submit(context.Background(), uuid.New(), "  Payment issue  ", "  My MoMo charge never completed.  ")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created == nil || msg.Subject != "Payment issue" {
		t.Fatalf("subject should be trimmed, got %q", msg.Subject)
	}
	if msg.Resolved {
		t.Fatalf("new messages start unresolved")
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := newService(t, &fakeRepo{})

	if _, err := svc.Submit(context.Background(), uuid.Nil, "s", "m"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for nil user, got %v", err)
	}
	if _, err := svc.Submit(context.Background(), uuid.New(), "", "m"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty subject, got %v", err)
	}
	long := strings.Repeat("x", maxMessageLength+1)
	if _, err := svc.Submit(context.Background(), uuid.New(), "s", long); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for oversized message, got %v", err)
	}
}

func TestResolveChecksOwnership(t *testing.T) {
	owner := uuid.New()
	msgID := uuid.New()
	repo := &fakeRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error) {
			return &models.SupportMessage{ID: msgID, UserID: owner}, nil
		},
		markResolvedFn: func(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
			return 1, nil
		},
	}
	svc := newService(t, repo)

	if err := svc.Resolve(context.Background(), uuid.New(), msgID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for a foreign message, got %v", err)
	}
	if err := svc.Resolve(context.Background(), owner, msgID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func TestResolveAlreadyResolvedIsNoop(t *testing.T) {
	owner := uuid.New()
	msgID := uuid.New()
	repo := &fakeRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error) {
			return &models.SupportMessage{ID: msgID, UserID: owner, Resolved: true}, nil
		},
		markResolvedFn: func(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
			return 0, nil
		},
	}
	svc := newService(t, repo)

	if err := svc.Resolve(context.Background(), owner, msgID); err != nil {
		t.Fatalf("resolving an already resolved message should be a no-op, got %v", err)
	}
}

func TestResolveUnknownMessage(t *testing.T) {
	repo := &fakeRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.SupportMessage, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newService(t, repo)

	err := svc.Resolve(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
