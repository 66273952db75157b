package reviews

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mokolo-app/mokolo-backend/internal/notifications"
	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
)

type fakeRepo struct {
	createFn  func(ctx context.Context, review *models.Review) error
	listFn    func(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID, limit int) ([]models.Review, error)
	summaryFn func(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) (*RatingSummary, error)
	deleteFn  func(ctx context.Context, reviewerID, id uuid.UUID) (int64, error)
}

func (f *fakeRepo) Create(ctx context.Context, review *models.Review) error {
	return f.createFn(ctx, review)
}

func (f *fakeRepo) ListByListing(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID, limit int) ([]models.Review, error) {
	return f.listFn(ctx, domain, listingID, limit)
}

func (f *fakeRepo) Summary(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) (*RatingSummary, error) {
	return f.summaryFn(ctx, domain, listingID)
}

func (f *fakeRepo) Delete(ctx context.Context, reviewerID, id uuid.UUID) (int64, error) {
	return f.deleteFn(ctx, reviewerID, id)
}

type fakeNotifier struct {
	sent []notifications.Notify
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, n notifications.Notify) error {
	f.sent = append(f.sent, n)
	return f.err
}

func (f *fakeNotifier) SendBatch(ctx context.Context, batch []notifications.Notify) error {
	panic("not used")
}

func (f *fakeNotifier) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	panic("not used")
}

func (f *fakeNotifier) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	panic("not used")
}

func (f *fakeNotifier) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	panic("not used")
}

func (f *fakeNotifier) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	panic("not used")
}

func (f *fakeNotifier) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	panic("not used")
}

func newService(t *testing.T, repo *fakeRepo, notifier notifications.Service) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "reviews-test", Output: io.Discard})
	svc, err := NewService(repo, notifier, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateReviewNotifiesOwner(t *testing.T) {
	reviewerID := uuid.New()
	ownerID := uuid.New()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, review *models.Review) error {
			review.ID = uuid.New()
			return nil
		},
	}
	notifier := &fakeNotifier{}
	svc := newService(t, repo, notifier)

	comment := "  Great landlord, quick repairs.  "
	review, err := svc.Create(context.Background(), reviewerID, CreateInput{
		ListingDomain:  enums.ListingDomainRental,
		ListingID:      uuid.New(),
		ListingOwnerID: ownerID,
		Rating:         5,
		Comment:        &comment,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if review.Comment == nil || *review.Comment != "Great landlord, quick repairs." {
		t.Fatalf("comment should be trimmed, got %v", review.Comment)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].UserID != ownerID {
		t.Fatalf("owner should be notified, got %+v", notifier.sent)
	}
	if notifier.sent[0].Type != enums.NotificationTypeReviewReceived {
		t.Fatalf("unexpected notification type %s", notifier.sent[0].Type)
	}
}

func TestCreateReviewRatingBounds(t *testing.T) {
	svc := newService(t, &fakeRepo{}, nil)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
			ListingDomain: enums.ListingDomainRental,
			ListingID:     uuid.New(),
			Rating:        rating,
		})
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("rating %d should be rejected, got %v", rating, err)
		}
	}
}

func TestCreateReviewRejectsSelfReview(t *testing.T) {
	svc := newService(t, &fakeRepo{}, nil)
	userID := uuid.New()

	_, err := svc.Create(context.Background(), userID, CreateInput{
		ListingDomain:  enums.ListingDomainMarketplace,
		ListingID:      uuid.New(),
		ListingOwnerID: userID,
		Rating:         4,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for self review, got %v", err)
	}
}

func TestCreateReviewDuplicateConflict(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, review *models.Review) error {
			return errors.New(`duplicate key value violates unique constraint "idx_reviews_one_per_listing"`)
		},
	}
	svc := newService(t, repo, nil)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		ListingDomain: enums.ListingDomainRental,
		ListingID:     uuid.New(),
		Rating:        3,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate review, got %v", err)
	}
}

func TestCreateReviewSurvivesNotificationFailure(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, review *models.Review) error {
			return nil
		},
	}
	notifier := &fakeNotifier{err: errors.New("notification store down")}
	svc := newService(t, repo, notifier)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		ListingDomain:  enums.ListingDomainRental,
		ListingID:      uuid.New(),
		ListingOwnerID: uuid.New(),
		Rating:         4,
	})
	if err != nil {
		t.Fatalf("review should survive a notification failure: %v", err)
	}
}

func TestDeleteReviewNotFound(t *testing.T) {
	repo := &fakeRepo{
		deleteFn: func(ctx context.Context, reviewerID, id uuid.UUID) (int64, error) {
			return 0, nil
		},
	}
	svc := newService(t, repo, nil)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSummaryPassthrough(t *testing.T) {
	repo := &fakeRepo{
		summaryFn: func(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) (*RatingSummary, error) {
			return &RatingSummary{Count: 3, Average: 4.3}, nil
		},
	}
	svc := newService(t, repo, nil)

	summary, err := svc.Summary(context.Background(), enums.ListingDomainRental, uuid.New())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Count != 3 || summary.Average != 4.3 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}
