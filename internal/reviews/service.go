package reviews

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mokolo-app/mokolo-backend/internal/notifications"
	"github.com/mokolo-app/mokolo-backend/pkg/db"
	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
	"github.com/mokolo-app/mokolo-backend/pkg/pagination"
)

// CreateInput carries a new review.
type CreateInput struct {
	ListingDomain enums.ListingDomain
	ListingID     uuid.UUID
	// ListingOwnerID receives the review notification.
	ListingOwnerID uuid.UUID
	Rating         int
	Comment        *string
}

// Service manages listing reviews.
type Service interface {
	Create(ctx context.Context, reviewerID uuid.UUID, input CreateInput) (*models.Review, error)
	ListByListing(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID, limit int) ([]models.Review, error)
	Summary(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) (*RatingSummary, error)
	Delete(ctx context.Context, reviewerID, id uuid.UUID) error
}

type service struct {
	repo     Repository
	notifier notifications.Service
	logger   *logger.Logger
}

// NewService wires the reviews repository. notifier may be nil when review
// notifications are not wanted.
func NewService(repo Repository, notifier notifications.Service, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reviews repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, notifier: notifier, logger: logg}, nil
}

func (s *service) Create(ctx context.Context, reviewerID uuid.UUID, input CreateInput) (*models.Review, error) {
	if reviewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviewer id required")
	}
	if !input.ListingDomain.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing domain")
	}
	if input.ListingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if reviewerID == input.ListingOwnerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot review your own listing")
	}

	review := &models.Review{
		ReviewerID:    reviewerID,
		ListingDomain: input.ListingDomain,
		ListingID:     input.ListingID,
		Rating:        input.Rating,
		Comment:       trimComment(input.Comment),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if db.IsUniqueViolation(err, "idx_reviews_one_per_listing") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this listing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}

	// Notification failures never fail the review itself.
	if s.notifier != nil && input.ListingOwnerID != uuid.Nil {
		err := s.notifier.Send(ctx, notifications.Notify{
			UserID:  input.ListingOwnerID,
			Type:    enums.NotificationTypeReviewReceived,
			Title:   "New review received",
			Message: "One of your listings received a new review.",
		})
		if err != nil {
			s.logger.Error(ctx, "review notification failed", err)
		}
	}
	return review, nil
}

func (s *service) ListByListing(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID, limit int) ([]models.Review, error) {
	if !domain.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing domain")
	}
	rows, err := s.repo.ListByListing(ctx, domain, listingID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return rows, nil
}

func (s *service) Summary(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) (*RatingSummary, error) {
	if !domain.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing domain")
	}
	summary, err := s.repo.Summary(ctx, domain, listingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "review summary")
	}
	return summary, nil
}

func (s *service) Delete(ctx context.Context, reviewerID, id uuid.UUID) error {
	if reviewerID == uuid.Nil || id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "reviewer id and review id required")
	}
	affected, err := s.repo.Delete(ctx, reviewerID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return nil
}

func trimComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
