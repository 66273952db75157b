package listings

import (
	"context"
	"errors"
	"strings"

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

// MediaInput names one already-uploaded object to attach to a listing.
// Display order follows slice position.
type MediaInput struct {
	MediaType  enums.MediaType
	MediaURL   string
	StorageKey string
}

// CreateRentalInput carries the fields for a new rental listing.
type CreateRentalInput struct {
	Title         string
	Description   string
	PricePerMonth decimal.Decimal
	City          string
	Quarter       string
	Bedrooms      int
	Bathrooms     int
	Furnished     bool
	Media         []MediaInput
}

// CreateMarketplaceItemInput carries the fields for a new marketplace listing.
type CreateMarketplaceItemInput struct {
	Category    enums.MarketplaceCategory
	Title       string
	Description string
	Price       decimal.Decimal
	City        string
	Quarter     string
	Condition   *string
	Media       []MediaInput
}

// UpdateRentalInput patches a rental listing. Nil fields are left untouched.
type UpdateRentalInput struct {
	Title         *string
	Description   *string
	PricePerMonth *decimal.Decimal
	City          *string
	Quarter       *string
	Bedrooms      *int
	Bathrooms     *int
	Furnished     *bool
}

// UpdateMarketplaceItemInput patches a marketplace listing.
type UpdateMarketplaceItemInput struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	City        *string
	Quarter     *string
	Condition   *string
}

// RentalListing pairs a rental row with its ordered media.
type RentalListing struct {
	Listing models.RentalProperty `json:"listing"`
	Media   []models.ListingMedia `json:"media"`
}

// MarketplaceListing pairs a marketplace row with its ordered media.
type MarketplaceListing struct {
	Listing models.MarketplaceItem `json:"listing"`
	Media   []models.ListingMedia  `json:"media"`
}

// RentalPage is one page of the rental feed.
type RentalPage struct {
	Items      []models.RentalProperty `json:"items"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

// MarketplacePage is one page of the marketplace feed.
type MarketplacePage struct {
	Items      []models.MarketplaceItem `json:"items"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

// Service manages listings in both domains under quota enforcement.
type Service interface {
	CreateRental(ctx context.Context, ownerID uuid.UUID, input CreateRentalInput) (*RentalListing, error)
	GetRental(ctx context.Context, id uuid.UUID) (*RentalListing, error)
	UpdateRental(ctx context.Context, ownerID, id uuid.UUID, input UpdateRentalInput) (*models.RentalProperty, error)
	ListRentals(ctx context.Context, filter RentalFilter, params pagination.Params) (*RentalPage, error)

	CreateMarketplaceItem(ctx context.Context, ownerID uuid.UUID, input CreateMarketplaceItemInput) (*MarketplaceListing, error)
	GetMarketplaceItem(ctx context.Context, id uuid.UUID) (*MarketplaceListing, error)
	UpdateMarketplaceItem(ctx context.Context, ownerID, id uuid.UUID, input UpdateMarketplaceItemInput) (*models.MarketplaceItem, error)
	ListMarketplaceItems(ctx context.Context, filter MarketplaceFilter, params pagination.Params) (*MarketplacePage, error)

	// MarkUnavailable flips is_available off, covering both rented-out
	// properties and sold items. The row stays visible to its owner.
	MarkUnavailable(ctx context.Context, ownerID uuid.UUID, domain enums.ListingDomain, id uuid.UUID) error
	Delete(ctx context.Context, ownerID uuid.UUID, domain enums.ListingDomain, id uuid.UUID) error

	RecordView(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error
	RecordWhatsAppClick(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error
}

type service struct {
	repo     Repository
	subs     subscriptions.Service
	subsRepo subscriptions.Repository
	guard    *quota.Guard
	logger   *logger.Logger
}

// NewService wires the listings repository with the quota layer.
func NewService(repo Repository, subs subscriptions.Service, subsRepo subscriptions.Repository, guard *quota.Guard, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "listings repository required")
	}
	if subs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "subscriptions service required")
	}
	if subsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "subscriptions repository required")
	}
	if guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "quota guard required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, subs: subs, subsRepo: subsRepo, guard: guard, logger: logg}, nil
}

func (s *service) CreateRental(ctx context.Context, ownerID uuid.UUID, input CreateRentalInput) (*RentalListing, error) {
	if err := validateRentalInput(input); err != nil {
		return nil, err
	}

	res, err := s.authorizeCreate(ctx, ownerID, input.Media)
	if err != nil {
		return nil, err
	}

	listing := &models.RentalProperty{
		OwnerID:       ownerID,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		PricePerMonth: input.PricePerMonth,
		City:          strings.TrimSpace(input.City),
		Quarter:       strings.TrimSpace(input.Quarter),
		Bedrooms:      input.Bedrooms,
		Bathrooms:     input.Bathrooms,
		Furnished:     input.Furnished,
		ListingStatus: enums.ListingStatusPending,
		IsAvailable:   true,
	}

	var media []models.ListingMedia
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := s.recheckPostQuota(ctx, tx, res); err != nil {
			return err
		}
		if err := txRepo.CreateRental(ctx, listing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rental listing")
		}
		media = mediaRows(enums.ListingDomainRental, listing.ID, input.Media)
		if err := txRepo.CreateMedia(ctx, media); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing media")
		}
		return s.recordUsage(ctx, tx, res, input.Media)
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logger.WithFields(ctx, map[string]any{
		"listing_id": listing.ID.String(),
		"owner_id":   ownerID.String(),
		"media":      len(media),
	})
	s.logger.Info(logCtx, "rental listing created")
	return &RentalListing{Listing: *listing, Media: media}, nil
}

func (s *service) CreateMarketplaceItem(ctx context.Context, ownerID uuid.UUID, input CreateMarketplaceItemInput) (*MarketplaceListing, error) {
	if err := validateMarketplaceInput(input); err != nil {
		return nil, err
	}

	res, err := s.authorizeCreate(ctx, ownerID, input.Media)
	if err != nil {
		return nil, err
	}

	item := &models.MarketplaceItem{
		OwnerID:       ownerID,
		Category:      input.Category,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price,
		City:          strings.TrimSpace(input.City),
		Quarter:       strings.TrimSpace(input.Quarter),
		Condition:     input.Condition,
		ListingStatus: enums.ListingStatusPending,
		IsAvailable:   true,
	}

	var media []models.ListingMedia
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := s.recheckPostQuota(ctx, tx, res); err != nil {
			return err
		}
		if err := txRepo.CreateMarketplaceItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create marketplace listing")
		}
		media = mediaRows(enums.ListingDomainMarketplace, item.ID, input.Media)
		if err := txRepo.CreateMedia(ctx, media); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing media")
		}
		return s.recordUsage(ctx, tx, res, input.Media)
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logger.WithFields(ctx, map[string]any{
		"listing_id": item.ID.String(),
		"owner_id":   ownerID.String(),
		"category":   item.Category.String(),
		"media":      len(media),
	})
	s.logger.Info(logCtx, "marketplace listing created")
	return &MarketplaceListing{Listing: *item, Media: media}, nil
}

// authorizeCreate resolves the caller's access and runs the speculative
// create_post and media checks. The post count is re-checked inside the
// transaction; the media limits depend only on the draft and need no re-check.
func (s *service) authorizeCreate(ctx context.Context, ownerID uuid.UUID, media []MediaInput) (*subscriptions.Resolution, error) {
	res, err := s.subs.Resolve(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	counts := quota.Counts{}
	if res.Subscription != nil {
		counts.PostsUsedThisMonth = res.Subscription.PostsUsedThisMonth
	}
	if err := s.guard.Check(res.Access, enums.QuotaActionCreatePost, counts); err != nil {
		return nil, err
	}

	images, videos := mediaCounts(media)
	if images > 0 {
		if err := s.guard.Check(res.Access, enums.QuotaActionAddImage, quota.Counts{ImagesOnListing: images - 1}); err != nil {
			return nil, err
		}
	}
	if videos > 0 {
		if err := s.guard.Check(res.Access, enums.QuotaActionAddVideo, quota.Counts{VideosOnListing: videos - 1}); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// recheckPostQuota repeats the monthly-count check against a fresh row inside
// the transaction so two concurrent creates cannot both consume the last slot.
func (s *service) recheckPostQuota(ctx context.Context, tx *gorm.DB, res *subscriptions.Resolution) error {
	if res.Subscription == nil {
		return nil
	}

	current, err := s.subsRepo.WithTx(tx).GetCurrentByUserID(ctx, res.Subscription.UserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recheck post quota")
	}
	limit := res.Subscription.PostsUsedThisMonth + res.Access.PostsRemaining
	if res.Access.Plan != nil {
		limit = res.Access.Plan.MaxPostsPerMonth
	}
	if current.PostsUsedThisMonth >= limit {
		return pkgerrors.New(pkgerrors.CodeQuotaExhausted, "monthly post limit reached")
	}
	return nil
}

// recordUsage counts the new post and its media against the subscription,
// inside the same transaction as the listing rows. Free-access callers have
// no record to count against.
func (s *service) recordUsage(ctx context.Context, tx *gorm.DB, res *subscriptions.Resolution, media []MediaInput) error {
	if res.Subscription == nil {
		return nil
	}
	images, videos := mediaCounts(media)
	if err := s.subsRepo.WithTx(tx).IncrementUsage(ctx, res.Subscription.ID, 1, images, videos); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record post usage")
	}
	return nil
}

func (s *service) GetRental(ctx context.Context, id uuid.UUID) (*RentalListing, error) {
	listing, err := s.repo.GetRental(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "rental listing not found", "get rental listing")
	}
	media, err := s.repo.ListMedia(ctx, enums.ListingDomainRental, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listing media")
	}
	return &RentalListing{Listing: *listing, Media: media}, nil
}

func (s *service) GetMarketplaceItem(ctx context.Context, id uuid.UUID) (*MarketplaceListing, error) {
	item, err := s.repo.GetMarketplaceItem(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "marketplace listing not found", "get marketplace listing")
	}
	media, err := s.repo.ListMedia(ctx, enums.ListingDomainMarketplace, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listing media")
	}
	return &MarketplaceListing{Listing: *item, Media: media}, nil
}

func (s *service) UpdateRental(ctx context.Context, ownerID, id uuid.UUID, input UpdateRentalInput) (*models.RentalProperty, error) {
	if err := s.authorizeEdit(ctx, ownerID); err != nil {
		return nil, err
	}

	listing, err := s.repo.GetRental(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "rental listing not found", "get rental listing")
	}
	if listing.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another user")
	}

	applyRentalPatch(listing, input)
	if err := s.repo.UpdateRental(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rental listing")
	}
	return listing, nil
}

func (s *service) UpdateMarketplaceItem(ctx context.Context, ownerID, id uuid.UUID, input UpdateMarketplaceItemInput) (*models.MarketplaceItem, error) {
	if err := s.authorizeEdit(ctx, ownerID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetMarketplaceItem(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "marketplace listing not found", "get marketplace listing")
	}
	if item.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another user")
	}

	applyMarketplacePatch(item, input)
	if err := s.repo.UpdateMarketplaceItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update marketplace listing")
	}
	return item, nil
}

func (s *service) authorizeEdit(ctx context.Context, ownerID uuid.UUID) error {
	res, err := s.subs.Resolve(ctx, ownerID)
	if err != nil {
		return err
	}
	return s.guard.Check(res.Access, enums.QuotaActionEditListing, quota.Counts{})
}

func (s *service) ListRentals(ctx context.Context, filter RentalFilter, params pagination.Params) (*RentalPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListRentals(ctx, filter, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rental listings")
	}

	page, more := pagination.Window(rows, params.Limit)
	out := &RentalPage{Items: page}
	if more && len(page) > 0 {
		last := page[len(page)-1]
		out.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return out, nil
}

func (s *service) ListMarketplaceItems(ctx context.Context, filter MarketplaceFilter, params pagination.Params) (*MarketplacePage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListMarketplaceItems(ctx, filter, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list marketplace listings")
	}

	page, more := pagination.Window(rows, params.Limit)
	out := &MarketplacePage{Items: page}
	if more && len(page) > 0 {
		last := page[len(page)-1]
		out.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return out, nil
}

func (s *service) MarkUnavailable(ctx context.Context, ownerID uuid.UUID, domain enums.ListingDomain, id uuid.UUID) error {
	switch domain {
	case enums.ListingDomainRental:
		listing, err := s.repo.GetRental(ctx, id)
		if err != nil {
			return notFoundOr(err, "rental listing not found", "get rental listing")
		}
		if listing.OwnerID != ownerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another user")
		}
		if !listing.IsAvailable {
			return nil
		}
		listing.IsAvailable = false
		if err := s.repo.UpdateRental(ctx, listing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rental listing")
		}
		return nil

	case enums.ListingDomainMarketplace:
		item, err := s.repo.GetMarketplaceItem(ctx, id)
		if err != nil {
			return notFoundOr(err, "marketplace listing not found", "get marketplace listing")
		}
		if item.OwnerID != ownerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another user")
		}
		if !item.IsAvailable {
			return nil
		}
		item.IsAvailable = false
		if err := s.repo.UpdateMarketplaceItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update marketplace listing")
		}
		return nil

	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid listing domain")
	}
}

// Delete removes the listing and its media rows together. Deleting a listing
// never refunds quota; the monthly count reflects posts created, not posts
// currently live.
func (s *service) Delete(ctx context.Context, ownerID uuid.UUID, domain enums.ListingDomain, id uuid.UUID) error {
	switch domain {
	case enums.ListingDomainRental:
		listing, err := s.repo.GetRental(ctx, id)
		if err != nil {
			return notFoundOr(err, "rental listing not found", "get rental listing")
		}
		if listing.OwnerID != ownerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another user")
		}
	case enums.ListingDomainMarketplace:
		item, err := s.repo.GetMarketplaceItem(ctx, id)
		if err != nil {
			return notFoundOr(err, "marketplace listing not found", "get marketplace listing")
		}
		if item.OwnerID != ownerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another user")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid listing domain")
	}

	return s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteMedia(ctx, domain, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing media")
		}
		var delErr error
		if domain == enums.ListingDomainRental {
			delErr = txRepo.DeleteRental(ctx, id)
		} else {
			delErr = txRepo.DeleteMarketplaceItem(ctx, id)
		}
		if delErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, delErr, "delete listing")
		}
		return nil
	})
}

func (s *service) RecordView(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error {
	if !domain.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid listing domain")
	}
	if err := s.repo.IncrementViews(ctx, domain, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record view")
	}
	return nil
}

func (s *service) RecordWhatsAppClick(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error {
	if !domain.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid listing domain")
	}
	if err := s.repo.IncrementWhatsAppClicks(ctx, domain, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record whatsapp click")
	}
	return nil
}

// mediaRows assigns contiguous display positions following input order.
func mediaRows(domain enums.ListingDomain, listingID uuid.UUID, inputs []MediaInput) []models.ListingMedia {
	rows := make([]models.ListingMedia, 0, len(inputs))
	for i, in := range inputs {
		rows = append(rows, models.ListingMedia{
			ListingDomain: domain,
			ListingID:     listingID,
			MediaType:     in.MediaType,
			MediaURL:      in.MediaURL,
			StorageKey:    in.StorageKey,
			DisplayOrder:  i,
		})
	}
	return rows
}

func mediaCounts(inputs []MediaInput) (images, videos int) {
	for _, in := range inputs {
		switch in.MediaType {
		case enums.MediaTypeImage:
			images++
		case enums.MediaTypeVideo:
			videos++
		}
	}
	return images, videos
}

func validateRentalInput(input CreateRentalInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if strings.TrimSpace(input.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city required")
	}
	if input.PricePerMonth.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return validateMediaInputs(input.Media)
}

func validateMarketplaceInput(input CreateMarketplaceItemInput) error {
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid marketplace category")
	}
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if strings.TrimSpace(input.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return validateMediaInputs(input.Media)
}

func validateMediaInputs(inputs []MediaInput) error {
	for _, in := range inputs {
		if !in.MediaType.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid media type")
		}
		if strings.TrimSpace(in.MediaURL) == "" || strings.TrimSpace(in.StorageKey) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "media url and storage key required")
		}
	}
	return nil
}

func applyRentalPatch(listing *models.RentalProperty, input UpdateRentalInput) {
	if input.Title != nil {
		listing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		listing.Description = strings.TrimSpace(*input.Description)
	}
	if input.PricePerMonth != nil {
		listing.PricePerMonth = *input.PricePerMonth
	}
	if input.City != nil {
		listing.City = strings.TrimSpace(*input.City)
	}
	if input.Quarter != nil {
		listing.Quarter = strings.TrimSpace(*input.Quarter)
	}
	if input.Bedrooms != nil {
		listing.Bedrooms = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		listing.Bathrooms = *input.Bathrooms
	}
	if input.Furnished != nil {
		listing.Furnished = *input.Furnished
	}
}

func applyMarketplacePatch(item *models.MarketplaceItem, input UpdateMarketplaceItemInput) {
	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.City != nil {
		item.City = strings.TrimSpace(*input.City)
	}
	if input.Quarter != nil {
		item.Quarter = strings.TrimSpace(*input.Quarter)
	}
	if input.Condition != nil {
		item.Condition = input.Condition
	}
}

func notFoundOr(err error, notFoundMsg, wrapMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, wrapMsg)
}
