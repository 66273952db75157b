package listings

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/internal/quota"
	"github.com/mokolo-app/mokolo-backend/internal/subscriptions"
	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
	"github.com/mokolo-app/mokolo-backend/pkg/pagination"
)

type fakeRepo struct {
	createRentalFn func(ctx context.Context, listing *models.RentalProperty) error
	getRentalFn    func(ctx context.Context, id uuid.UUID) (*models.RentalProperty, error)
	updateRentalFn func(ctx context.Context, listing *models.RentalProperty) error
	deleteRentalFn func(ctx context.Context, id uuid.UUID) error
	listRentalsFn  func(ctx context.Context, filter RentalFilter, cursor *pagination.Cursor, limit int) ([]models.RentalProperty, error)
	createItemFn   func(ctx context.Context, item *models.MarketplaceItem) error
	getItemFn      func(ctx context.Context, id uuid.UUID) (*models.MarketplaceItem, error)
	updateItemFn   func(ctx context.Context, item *models.MarketplaceItem) error
	deleteItemFn   func(ctx context.Context, id uuid.UUID) error
	listItemsFn    func(ctx context.Context, filter MarketplaceFilter, cursor *pagination.Cursor, limit int) ([]models.MarketplaceItem, error)
	createMediaFn  func(ctx context.Context, rows []models.ListingMedia) error
	listMediaFn    func(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) ([]models.ListingMedia, error)
	deleteMediaFn  func(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) error
	incViewsFn     func(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error
	incClicksFn    func(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error
}

func (f *fakeRepo) CreateRental(ctx context.Context, listing *models.RentalProperty) error {
	return f.createRentalFn(ctx, listing)
}

func (f *fakeRepo) GetRental(ctx context.Context, id uuid.UUID) (*models.RentalProperty, error) {
	return f.getRentalFn(ctx, id)
}

func (f *fakeRepo) UpdateRental(ctx context.Context, listing *models.RentalProperty) error {
	return f.updateRentalFn(ctx, listing)
}

func (f *fakeRepo) DeleteRental(ctx context.Context, id uuid.UUID) error {
	return f.deleteRentalFn(ctx, id)
}

func (f *fakeRepo) ListRentals(ctx context.Context, filter RentalFilter, cursor *pagination.Cursor, limit int) ([]models.RentalProperty, error) {
	return f.listRentalsFn(ctx, filter, cursor, limit)
}

func (f *fakeRepo) CreateMarketplaceItem(ctx context.Context, item *models.MarketplaceItem) error {
	return f.createItemFn(ctx, item)
}

func (f *fakeRepo) GetMarketplaceItem(ctx context.Context, id uuid.UUID) (*models.MarketplaceItem, error) {
	return f.getItemFn(ctx, id)
}

func (f *fakeRepo) UpdateMarketplaceItem(ctx context.Context, item *models.MarketplaceItem) error {
	return f.updateItemFn(ctx, item)
}

func (f *fakeRepo) DeleteMarketplaceItem(ctx context.Context, id uuid.UUID) error {
	return f.deleteItemFn(ctx, id)
}

func (f *fakeRepo) ListMarketplaceItems(ctx context.Context, filter MarketplaceFilter, cursor *pagination.Cursor, limit int) ([]models.MarketplaceItem, error) {
	return f.listItemsFn(ctx, filter, cursor, limit)
}

func (f *fakeRepo) CreateMedia(ctx context.Context, rows []models.ListingMedia) error {
	return f.createMediaFn(ctx, rows)
}

func (f *fakeRepo) ListMedia(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) ([]models.ListingMedia, error) {
	return f.listMediaFn(ctx, domain, listingID)
}

func (f *fakeRepo) DeleteMedia(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) error {
	return f.deleteMediaFn(ctx, domain, listingID)
}

func (f *fakeRepo) IncrementViews(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error {
	return f.incViewsFn(ctx, domain, id)
}

func (f *fakeRepo) IncrementWhatsAppClicks(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error {
	return f.incClicksFn(ctx, domain, id)
}

func (f *fakeRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository {
	return f
}

type fakeSubsService struct {
	resolveFn func(ctx context.Context, userID uuid.UUID) (*subscriptions.Resolution, error)
}

func (f *fakeSubsService) Resolve(ctx context.Context, userID uuid.UUID) (*subscriptions.Resolution, error) {
	return f.resolveFn(ctx, userID)
}

func (f *fakeSubsService) Activate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, plan *models.SubscriptionPlan) (*models.UserSubscription, error) {
	panic("not used")
}

func (f *fakeSubsService) Cancel(ctx context.Context, userID uuid.UUID) error {
	panic("not used")
}

func (f *fakeSubsService) ExpireDue(ctx context.Context, now time.Time, batchSize int) ([]models.UserSubscription, error) {
	panic("not used")
}

type fakeSubsRepo struct {
	getCurrentFn func(ctx context.Context, userID uuid.UUID) (*models.UserSubscription, error)
	incrementFn  func(ctx context.Context, id uuid.UUID, posts, images, videos int) error
}

func (f *fakeSubsRepo) GetCurrentByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSubscription, error) {
	return f.getCurrentFn(ctx, userID)
}

func (f *fakeSubsRepo) Create(ctx context.Context, sub *models.UserSubscription) error {
	panic("not used")
}

func (f *fakeSubsRepo) Update(ctx context.Context, sub *models.UserSubscription) error {
	panic("not used")
}

func (f *fakeSubsRepo) SaveCounters(ctx context.Context, sub *models.UserSubscription) error {
	panic("not used")
}

func (f *fakeSubsRepo) IncrementUsage(ctx context.Context, id uuid.UUID, posts, images, videos int) error {
	return f.incrementFn(ctx, id, posts, images, videos)
}

func (f *fakeSubsRepo) ListDueForExpiry(ctx context.Context, now time.Time, limit int) ([]models.UserSubscription, error) {
	panic("not used")
}

func (f *fakeSubsRepo) MarkExpired(ctx context.Context, ids []uuid.UUID) (int64, error) {
	panic("not used")
}

func (f *fakeSubsRepo) WithTx(tx *gorm.DB) subscriptions.Repository {
	return f
}

func activeResolution(ownerID uuid.UUID, maxPosts, used int) *subscriptions.Resolution {
	plan := &models.SubscriptionPlan{
		ID:               "plan_standard",
		MaxPostsPerMonth: maxPosts,
		MaxImagesPerPost: 5,
		MaxVideosPerPost: 1,
	}
	sub := &models.UserSubscription{
		ID:                 uuid.New(),
		UserID:             ownerID,
		PlanID:             plan.ID,
		Plan:               plan,
		Status:             enums.SubscriptionStatusActive,
		PostsUsedThisMonth: used,
	}
	return &subscriptions.Resolution{
		Access: subscriptions.Access{
			Kind:              enums.ScenarioActive,
			Plan:              plan,
			CanPost:           true,
			CanEditListings:   true,
			PostsRemaining:    maxPosts - used,
			ImageLimitPerPost: plan.MaxImagesPerPost,
			VideoLimitPerPost: plan.MaxVideosPerPost,
		},
		Subscription: sub,
	}
}

func newTestService(t *testing.T, repo *fakeRepo, subs *fakeSubsService, subsRepo *fakeSubsRepo) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "listings-test", Output: io.Discard})
	svc, err := NewService(repo, subs, subsRepo, quota.NewGuard(nil), logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func rentalInput(media ...MediaInput) CreateRentalInput {
	return CreateRentalInput{
		Title:         "Two bedroom apartment in Bonamoussadi",
		Description:   "Tiled floors, water and electricity included.",
		PricePerMonth: decimal.NewFromInt(75000),
		City:          "Douala",
		Quarter:       "Bonamoussadi",
		Bedrooms:      2,
		Bathrooms:     1,
		Media:         media,
	}
}

func TestCreateRentalPersistsListingMediaAndUsageTogether(t *testing.T) {
	ownerID := uuid.New()
	res := activeResolution(ownerID, 20, 3)

	var createdMedia []models.ListingMedia
	var usagePosts, usageImages, usageVideos int
	repo := &fakeRepo{
		createRentalFn: func(ctx context.Context, listing *models.RentalProperty) error {
			listing.ID = uuid.New()
			return nil
		},
		createMediaFn: func(ctx context.Context, rows []models.ListingMedia) error {
			createdMedia = rows
			return nil
		},
	}
	subs := &fakeSubsService{
		resolveFn: func(ctx context.Context, userID uuid.UUID) (*subscriptions.Resolution, error) {
			return res, nil
		},
	}
	subsRepo := &fakeSubsRepo{
		getCurrentFn: func(ctx context.Context, userID uuid.UUID) (*models.UserSubscription, error) {
			return res.Subscription, nil
		},
		incrementFn: func(ctx context.Context, id uuid.UUID, posts, images, videos int) error {
			usagePosts, usageImages, usageVideos = posts, images, videos
			return nil
		},
	}
	svc := newTestService(t, repo, subs, subsRepo)

	input := rentalInput(
		MediaInput{MediaType: enums.MediaTypeImage, MediaURL: "https://cdn.example/a.jpg", StorageKey: "a.jpg"},
		MediaInput{MediaType: enums.MediaTypeImage, MediaURL: "https://cdn.example/b.jpg", StorageKey: "b.jpg"},
		MediaInput{MediaType: enums.MediaTypeVideo, MediaURL: "https://cdn.example/c.mp4", StorageKey: "c.mp4"},
	)
	out, err := svc.CreateRental(context.Background(), ownerID, input)
	if err != nil {
		t.Fatalf("CreateRental: %v", err)
	}

	if len(createdMedia) != 3 {
		t.Fatalf("expected 3 media rows, got %d", len(createdMedia))
	}
	for i, row := range createdMedia {
		if row.DisplayOrder != i {
			t.Fatalf("display order must follow input order, row %d has %d", i, row.DisplayOrder)
		}
		if row.ListingID != out.Listing.ID {
			t.Fatalf("media row %d points at the wrong listing", i)
		}
	}
	if usagePosts != 1 || usageImages != 2 || usageVideos != 1 {
		t.Fatalf("usage should count 1 post, 2 images, 1 video; got %d %d %d", usagePosts, usageImages, usageVideos)
	}
	if out.Listing.ListingStatus != enums.ListingStatusPending {
		t.Fatalf("new listings start pending, got %s", out.Listing.ListingStatus)
	}
}

func TestCreateRentalDeniedWhenQuotaSpent(t *testing.T) {
	ownerID := uuid.New()
	res := activeResolution(ownerID, 20, 20)
	res.Access.PostsRemaining = 0

	repo := &fakeRepo{
		createRentalFn: func(ctx context.Context, listing *models.RentalProperty) error {
			t.Fatalf("listing must not be created")
			return nil
		},
	}
	subs := &fakeSubsService{
		resolveFn: func(ctx context.Context, userID uuid.UUID) (*subscriptions.Resolution, error) {
			return res, nil
		},
	}
	svc := newTestService(t, repo, subs, &fakeSubsRepo{})

	_, err := svc.CreateRental(context.Background(), ownerID, rentalInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeQuotaExhausted) {
		t.Fatalf("expected quota exhausted, got %v", err)
	}
}

func TestCreateRentalRechecksQuotaInTransaction(t *testing.T) {
	ownerID := uuid.New()
	res := activeResolution(ownerID, 20, 19)

	// A concurrent create consumed the last slot between the speculative
	// check and the transaction.
	raced := *res.Subscription
	raced.PostsUsedThisMonth = 20

	repo := &fakeRepo{
		createRentalFn: func(ctx context.Context, listing *models.RentalProperty) error {
			t.Fatalf("listing must not be created after the recheck fails")
			return nil
		},
	}
	subs := &fakeSubsService{
		resolveFn: func(ctx context.Context, userID uuid.UUID) (*subscriptions.Resolution, error) {
			return res, nil
		},
	}
	subsRepo := &fakeSubsRepo{
		getCurrentFn: func(ctx context.Context, userID uuid.UUID) (*models.UserSubscription, error) {
			return &raced, nil
		},
	}
	svc := newTestService(t, repo, subs, subsRepo)

	_, err := svc.CreateRental(context.Background(), ownerID, rentalInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeQuotaExhausted) {
		t.Fatalf("expected quota exhausted from the transactional recheck, got %v", err)
	}
}

func TestCreateRentalDeniedOverImageLimit(t *testing.T) {
	ownerID := uuid.New()
	res := activeResolution(ownerID, 20, 0)

	subs := &fakeSubsService{
		resolveFn: func(ctx context.Context, userID uuid.UUID) (*subscriptions.Resolution, error) {
			return res, nil
		},
	}
	svc := newTestService(t, &fakeRepo{}, subs, &fakeSubsRepo{})

	media := make([]MediaInput, 0, 6)
	for i := 0; i < 6; i++ {
		media = append(media, MediaInput{MediaType: enums.MediaTypeImage, MediaURL: "https://cdn.example/x.jpg", StorageKey: "x.jpg"})
	}
	_, err := svc.CreateRental(context.Background(), ownerID, rentalInput(media...))
	if !pkgerrors.IsCode(err, pkgerrors.CodeMediaLimit) {
		t.Fatalf("expected media limit with 6 images on a 5-image plan, got %v", err)
	}
}

func TestCreateMarketplaceItemFreeAccessSkipsUsage(t *testing.T) {
	ownerID := uuid.New()
	res := &subscriptions.Resolution{
		Access: subscriptions.Access{
			Kind:              enums.ScenarioSubscriptionsDisabled,
			CanPost:           true,
			CanEditListings:   true,
			PostsRemaining:    1000,
			ImageLimitPerPost: 5,
			VideoLimitPerPost: 1,
		},
	}

	repo := &fakeRepo{
		createItemFn: func(ctx context.Context, item *models.MarketplaceItem) error {
			item.ID = uuid.New()
			return nil
		},
		createMediaFn: func(ctx context.Context, rows []models.ListingMedia) error {
			return nil
		},
	}
	subs := &fakeSubsService{
		resolveFn: func(ctx context.Context, userID uuid.UUID) (*subscriptions.Resolution, error) {
			return res, nil
		},
	}
	subsRepo := &fakeSubsRepo{
		incrementFn: func(ctx context.Context, id uuid.UUID, posts, images, videos int) error {
			t.Fatalf("free access has no subscription record to count against")
			return nil
		},
	}
	svc := newTestService(t, repo, subs, subsRepo)

	input := CreateMarketplaceItemInput{
		Category:    enums.MarketplaceCategoryPropertiesForSale,
		Title:       "Land title in Yassa",
		Description: "500 square metres, titled.",
		Price:       decimal.NewFromInt(15000000),
		City:        "Douala",
	}
	if _, err := svc.CreateMarketplaceItem(context.Background(), ownerID, input); err != nil {
		t.Fatalf("CreateMarketplaceItem: %v", err)
	}
}

func TestUpdateRentalDeniedWhenLocked(t *testing.T) {
	ownerID := uuid.New()
	res := &subscriptions.Resolution{Access: subscriptions.Access{Kind: enums.ScenarioLocked}}

	subs := &fakeSubsService{
		resolveFn: func(ctx context.Context, userID uuid.UUID) (*subscriptions.Resolution, error) {
			return res, nil
		},
	}
	svc := newTestService(t, &fakeRepo{}, subs, &fakeSubsRepo{})

	_, err := svc.UpdateRental(context.Background(), ownerID, uuid.New(), UpdateRentalInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeEditingDisabled) {
		t.Fatalf("expected editing disabled, got %v", err)
	}
}

func TestUpdateRentalAllowedInGracePeriod(t *testing.T) {
	ownerID := uuid.New()
	listing := &models.RentalProperty{ID: uuid.New(), OwnerID: ownerID, Title: "Old title"}
	res := &subscriptions.Resolution{Access: subscriptions.Access{Kind: enums.ScenarioGracePeriod, CanEditListings: true}}

	var updated *models.RentalProperty
	repo := &fakeRepo{
		getRentalFn: func(ctx context.Context, id uuid.UUID) (*models.RentalProperty, error) {
			return listing, nil
		},
		updateRentalFn: func(ctx context.Context, got *models.RentalProperty) error {
			updated = got
			return nil
		},
	}
	subs := &fakeSubsService{
		resolveFn: func(ctx context.Context, userID uuid.UUID) (*subscriptions.Resolution, error) {
			return res, nil
		},
	}
	svc := newTestService(t, repo, subs, &fakeSubsRepo{})

	title := "New title"
	out, err := svc.UpdateRental(context.Background(), ownerID, listing.ID, UpdateRentalInput{Title: &title})
	if err != nil {
		t.Fatalf("UpdateRental: %v", err)
	}
	if updated == nil || out.Title != "New title" {
		t.Fatalf("expected the title patch to apply, got %+v", out)
	}
}

func TestUpdateRentalForbiddenForNonOwner(t *testing.T) {
	ownerID := uuid.New()
	listing := &models.RentalProperty{ID: uuid.New(), OwnerID: uuid.New()}
	res := &subscriptions.Resolution{Access: subscriptions.Access{Kind: enums.ScenarioActive, CanEditListings: true}}

	repo := &fakeRepo{
		getRentalFn: func(ctx context.Context, id uuid.UUID) (*models.RentalProperty, error) {
			return listing, nil
		},
	}
	subs := &fakeSubsService{
		resolveFn: func(ctx context.Context, userID uuid.UUID) (*subscriptions.Resolution, error) {
			return res, nil
		},
	}
	svc := newTestService(t, repo, subs, &fakeSubsRepo{})

	_, err := svc.UpdateRental(context.Background(), ownerID, listing.ID, UpdateRentalInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestMarkUnavailableIsIdempotent(t *testing.T) {
	ownerID := uuid.New()
	item := &models.MarketplaceItem{ID: uuid.New(), OwnerID: ownerID, IsAvailable: false}

	repo := &fakeRepo{
		getItemFn: func(ctx context.Context, id uuid.UUID) (*models.MarketplaceItem, error) {
			return item, nil
		},
		updateItemFn: func(ctx context.Context, got *models.MarketplaceItem) error {
			t.Fatalf("already-unavailable listing must not be rewritten")
			return nil
		},
	}
	svc := newTestService(t, repo, &fakeSubsService{}, &fakeSubsRepo{})

	if err := svc.MarkUnavailable(context.Background(), ownerID, enums.ListingDomainMarketplace, item.ID); err != nil {
		t.Fatalf("MarkUnavailable: %v", err)
	}
}

func TestDeleteRemovesMediaWithListing(t *testing.T) {
	ownerID := uuid.New()
	listing := &models.RentalProperty{ID: uuid.New(), OwnerID: ownerID}

	var mediaDeleted, listingDeleted bool
	repo := &fakeRepo{
		getRentalFn: func(ctx context.Context, id uuid.UUID) (*models.RentalProperty, error) {
			return listing, nil
		},
		deleteMediaFn: func(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) error {
			mediaDeleted = true
			return nil
		},
		deleteRentalFn: func(ctx context.Context, id uuid.UUID) error {
			listingDeleted = true
			return nil
		},
	}
	svc := newTestService(t, repo, &fakeSubsService{}, &fakeSubsRepo{})

	if err := svc.Delete(context.Background(), ownerID, enums.ListingDomainRental, listing.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !mediaDeleted || !listingDeleted {
		t.Fatalf("expected media and listing deleted together, got media=%v listing=%v", mediaDeleted, listingDeleted)
	}
}

func TestListRentalsPaginates(t *testing.T) {
	now := time.Now()
	rows := make([]models.RentalProperty, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, models.RentalProperty{ID: uuid.New(), CreatedAt: now.Add(-time.Duration(i) * time.Minute)})
	}

	repo := &fakeRepo{
		listRentalsFn: func(ctx context.Context, filter RentalFilter, cursor *pagination.Cursor, limit int) ([]models.RentalProperty, error) {
			if limit != 3 {
				t.Fatalf("expected buffered limit 3 for page size 2, got %d", limit)
			}
			return rows, nil
		},
	}
	svc := newTestService(t, repo, &fakeSubsService{}, &fakeSubsRepo{})

	page, err := svc.ListRentals(context.Background(), RentalFilter{}, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("ListRentals: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Fatalf("expected a next cursor when more rows exist")
	}

	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if cursor.ID != page.Items[1].ID {
		t.Fatalf("cursor should point at the last returned row")
	}
}

func TestRecordViewAndClick(t *testing.T) {
	var views, clicks int
	repo := &fakeRepo{
		incViewsFn: func(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error {
			views++
			return nil
		},
		incClicksFn: func(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error {
			clicks++
			return nil
		},
	}
	svc := newTestService(t, repo, &fakeSubsService{}, &fakeSubsRepo{})

	if err := svc.RecordView(context.Background(), enums.ListingDomainRental, uuid.New()); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if err := svc.RecordWhatsAppClick(context.Background(), enums.ListingDomainMarketplace, uuid.New()); err != nil {
		t.Fatalf("RecordWhatsAppClick: %v", err)
	}
	if views != 1 || clicks != 1 {
		t.Fatalf("expected one view and one click recorded")
	}

	if err := svc.RecordView(context.Background(), enums.ListingDomain("auction"), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown domain, got %v", err)
	}
}
