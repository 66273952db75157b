package listings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	"github.com/mokolo-app/mokolo-backend/pkg/pagination"
)

// RentalFilter narrows the rental feed.
type RentalFilter struct {
	City      string
	Quarter   string
	Furnished *bool
	MinPrice  *int64
	MaxPrice  *int64
	OwnerID   *uuid.UUID
}

// MarketplaceFilter narrows the marketplace feed.
type MarketplaceFilter struct {
	Category *enums.MarketplaceCategory
	City     string
	Quarter  string
	MinPrice *int64
	MaxPrice *int64
	OwnerID  *uuid.UUID
}

// Repository persists listings in both domains plus their media rows.
type Repository interface {
	CreateRental(ctx context.Context, listing *models.RentalProperty) error
	GetRental(ctx context.Context, id uuid.UUID) (*models.RentalProperty, error)
	UpdateRental(ctx context.Context, listing *models.RentalProperty) error
	DeleteRental(ctx context.Context, id uuid.UUID) error
	ListRentals(ctx context.Context, filter RentalFilter, cursor *pagination.Cursor, limit int) ([]models.RentalProperty, error)

	CreateMarketplaceItem(ctx context.Context, item *models.MarketplaceItem) error
	GetMarketplaceItem(ctx context.Context, id uuid.UUID) (*models.MarketplaceItem, error)
	UpdateMarketplaceItem(ctx context.Context, item *models.MarketplaceItem) error
	DeleteMarketplaceItem(ctx context.Context, id uuid.UUID) error
	ListMarketplaceItems(ctx context.Context, filter MarketplaceFilter, cursor *pagination.Cursor, limit int) ([]models.MarketplaceItem, error)

	CreateMedia(ctx context.Context, rows []models.ListingMedia) error
	ListMedia(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) ([]models.ListingMedia, error)
	DeleteMedia(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) error

	IncrementViews(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error
	IncrementWhatsAppClicks(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error

	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a listings repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *repository) CreateRental(ctx context.Context, listing *models.RentalProperty) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *repository) GetRental(ctx context.Context, id uuid.UUID) (*models.RentalProperty, error) {
	var listing models.RentalProperty
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *repository) UpdateRental(ctx context.Context, listing *models.RentalProperty) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *repository) DeleteRental(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.RentalProperty{}, "id = ?", id).Error
}

func (r *repository) ListRentals(ctx context.Context, filter RentalFilter, cursor *pagination.Cursor, limit int) ([]models.RentalProperty, error) {
	q := r.db.WithContext(ctx).Model(&models.RentalProperty{})

	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	} else {
		// The public feed only surfaces approved, available rows.
		q = q.Where("listing_status = ? AND is_available = ?", enums.ListingStatusApproved, true)
	}
	if filter.City != "" {
		q = q.Where("city = ?", filter.City)
	}
	if filter.Quarter != "" {
		q = q.Where("quarter = ?", filter.Quarter)
	}
	if filter.Furnished != nil {
		q = q.Where("furnished = ?", *filter.Furnished)
	}
	if filter.MinPrice != nil {
		q = q.Where("price_per_month >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price_per_month <= ?", *filter.MaxPrice)
	}

	q = applyCursor(q, cursor)

	var rows []models.RentalProperty
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateMarketplaceItem(ctx context.Context, item *models.MarketplaceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) GetMarketplaceItem(ctx context.Context, id uuid.UUID) (*models.MarketplaceItem, error) {
	var item models.MarketplaceItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateMarketplaceItem(ctx context.Context, item *models.MarketplaceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) DeleteMarketplaceItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.MarketplaceItem{}, "id = ?", id).Error
}

func (r *repository) ListMarketplaceItems(ctx context.Context, filter MarketplaceFilter, cursor *pagination.Cursor, limit int) ([]models.MarketplaceItem, error) {
	q := r.db.WithContext(ctx).Model(&models.MarketplaceItem{})

	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	} else {
		q = q.Where("listing_status = ? AND is_available = ?", enums.ListingStatusApproved, true)
	}
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.City != "" {
		q = q.Where("city = ?", filter.City)
	}
	if filter.Quarter != "" {
		q = q.Where("quarter = ?", filter.Quarter)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	q = applyCursor(q, cursor)

	var rows []models.MarketplaceItem
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateMedia(ctx context.Context, rows []models.ListingMedia) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) ListMedia(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) ([]models.ListingMedia, error) {
	var rows []models.ListingMedia
	err := r.db.WithContext(ctx).
		Where("listing_domain = ? AND listing_id = ?", domain, listingID).
		Order("display_order ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) DeleteMedia(ctx context.Context, domain enums.ListingDomain, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("listing_domain = ? AND listing_id = ?", domain, listingID).
		Delete(&models.ListingMedia{}).Error
}

// IncrementViews bumps the counter in SQL so concurrent views never lose
// increments to read-modify-write races.
func (r *repository) IncrementViews(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(domainModel(domain)).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

func (r *repository) IncrementWhatsAppClicks(ctx context.Context, domain enums.ListingDomain, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(domainModel(domain)).
		Where("id = ?", id).
		UpdateColumn("whatsapp_clicks", gorm.Expr("whatsapp_clicks + 1")).Error
}

func domainModel(domain enums.ListingDomain) any {
	if domain == enums.ListingDomainRental {
		return &models.RentalProperty{}
	}
	return &models.MarketplaceItem{}
}

// applyCursor restricts the feed to rows strictly older than the cursor
// position, with id as tiebreaker for identical timestamps.
func applyCursor(q *gorm.DB, cursor *pagination.Cursor) *gorm.DB {
	if cursor == nil {
		return q
	}
	return q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
}
