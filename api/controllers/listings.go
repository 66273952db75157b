package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mokolo-app/mokolo-backend/api/responses"
	"github.com/mokolo-app/mokolo-backend/api/validators"
	"github.com/mokolo-app/mokolo-backend/internal/listings"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
	"github.com/mokolo-app/mokolo-backend/pkg/pagination"
)

type mediaInputRequest struct {
	MediaType  string `json:"media_type" validate:"required,oneof=image video"`
	MediaURL   string `json:"media_url" validate:"required,url"`
	StorageKey string `json:"storage_key" validate:"required"`
}

type createRentalRequest struct {
	Title         string              `json:"title" validate:"required,min=3,max=150"`
	Description   string              `json:"description" validate:"required,min=10,max=5000"`
	PricePerMonth decimal.Decimal     `json:"price_per_month" validate:"required"`
	City          string              `json:"city" validate:"required,max=80"`
	Quarter       string              `json:"quarter" validate:"required,max=80"`
	Bedrooms      int                 `json:"bedrooms" validate:"min=0,max=50"`
	Bathrooms     int                 `json:"bathrooms" validate:"min=0,max=50"`
	Furnished     bool                `json:"furnished"`
	Media         []mediaInputRequest `json:"media" validate:"omitempty,max=10,dive"`
}

type createMarketplaceRequest struct {
	Category    string              `json:"category" validate:"required"`
	Title       string              `json:"title" validate:"required,min=3,max=150"`
	Description string              `json:"description" validate:"required,min=10,max=5000"`
	Price       decimal.Decimal     `json:"price" validate:"required"`
	City        string              `json:"city" validate:"required,max=80"`
	Quarter     string              `json:"quarter" validate:"required,max=80"`
	Condition   *string             `json:"condition,omitempty" validate:"omitempty,max=40"`
	Media       []mediaInputRequest `json:"media" validate:"omitempty,max=10,dive"`
}

type updateRentalRequest struct {
	Title         *string          `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,min=10,max=5000"`
	PricePerMonth *decimal.Decimal `json:"price_per_month,omitempty"`
	City          *string          `json:"city,omitempty" validate:"omitempty,max=80"`
	Quarter       *string          `json:"quarter,omitempty" validate:"omitempty,max=80"`
	Bedrooms      *int             `json:"bedrooms,omitempty" validate:"omitempty,min=0,max=50"`
	Bathrooms     *int             `json:"bathrooms,omitempty" validate:"omitempty,min=0,max=50"`
	Furnished     *bool            `json:"furnished,omitempty"`
}

type updateMarketplaceRequest struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Description *string          `json:"description,omitempty" validate:"omitempty,min=10,max=5000"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	City        *string          `json:"city,omitempty" validate:"omitempty,max=80"`
	Quarter     *string          `json:"quarter,omitempty" validate:"omitempty,max=80"`
	Condition   *string          `json:"condition,omitempty" validate:"omitempty,max=40"`
}

func mediaInputs(reqs []mediaInputRequest) ([]listings.MediaInput, error) {
	inputs := make([]listings.MediaInput, 0, len(reqs))
	for _, m := range reqs {
		mediaType, err := enums.ParseMediaType(m.MediaType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid media type")
		}
		inputs = append(inputs, listings.MediaInput{
			MediaType:  mediaType,
			MediaURL:   m.MediaURL,
			StorageKey: m.StorageKey,
		})
	}
	return inputs, nil
}

func listingIDParam(r *http.Request) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, "listingID"), "listingID")
}

func CreateRental(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createRentalRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		media, err := mediaInputs(req.Media)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.CreateRental(r.Context(), userID, listings.CreateRentalInput{
			Title:         req.Title,
			Description:   req.Description,
			PricePerMonth: req.PricePerMonth,
			City:          req.City,
			Quarter:       req.Quarter,
			Bedrooms:      req.Bedrooms,
			Bathrooms:     req.Bathrooms,
			Furnished:     req.Furnished,
			Media:         media,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

func GetRental(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := listingIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.GetRental(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

func UpdateRental(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := listingIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateRentalRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.UpdateRental(r.Context(), userID, id, listings.UpdateRentalInput{
			Title:         req.Title,
			Description:   req.Description,
			PricePerMonth: req.PricePerMonth,
			City:          req.City,
			Quarter:       req.Quarter,
			Bedrooms:      req.Bedrooms,
			Bathrooms:     req.Bathrooms,
			Furnished:     req.Furnished,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

func ListRentals(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := listings.RentalFilter{
			City:    validators.ParseQueryString(r, "city"),
			Quarter: validators.ParseQueryString(r, "quarter"),
		}
		furnished, err := validators.ParseQueryBool(r, "furnished")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.Furnished = furnished

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListRentals(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func CreateMarketplaceItem(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createMarketplaceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := enums.ParseMarketplaceCategory(req.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}
		media, err := mediaInputs(req.Media)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.CreateMarketplaceItem(r.Context(), userID, listings.CreateMarketplaceItemInput{
			Category:    category,
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			City:        req.City,
			Quarter:     req.Quarter,
			Condition:   req.Condition,
			Media:       media,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

func GetMarketplaceItem(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := listingIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.GetMarketplaceItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

func UpdateMarketplaceItem(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := listingIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateMarketplaceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.UpdateMarketplaceItem(r.Context(), userID, id, listings.UpdateMarketplaceItemInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			City:        req.City,
			Quarter:     req.Quarter,
			Condition:   req.Condition,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

func ListMarketplaceItems(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := listings.MarketplaceFilter{
			City:    validators.ParseQueryString(r, "city"),
			Quarter: validators.ParseQueryString(r, "quarter"),
		}
		if raw := validators.ParseQueryString(r, "category"); raw != "" {
			category, err := enums.ParseMarketplaceCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filter.Category = &category
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListMarketplaceItems(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ListMyRentals returns the caller's own rental listings, including
// pending and unavailable ones.
func ListMyRentals(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListRentals(r.Context(), listings.RentalFilter{OwnerID: &userID}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ListMyMarketplaceItems returns the caller's own marketplace listings.
func ListMyMarketplaceItems(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListMarketplaceItems(r.Context(), listings.MarketplaceFilter{OwnerID: &userID}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// MarkListingUnavailable handles both rented-out and sold flows.
func MarkListingUnavailable(svc listings.Service, domain enums.ListingDomain, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := listingIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.MarkUnavailable(r.Context(), userID, domain, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unavailable"})
	}
}

func DeleteListing(svc listings.Service, domain enums.ListingDomain, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := listingIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), userID, domain, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// RecordListingView counts a public detail view. No auth required.
func RecordListingView(svc listings.Service, domain enums.ListingDomain, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := listingIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RecordView(r.Context(), domain, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}

// RecordWhatsAppClick counts a tap on the seller's WhatsApp contact button.
func RecordWhatsAppClick(svc listings.Service, domain enums.ListingDomain, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := listingIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RecordWhatsAppClick(r.Context(), domain, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: validators.ParseQueryString(r, "cursor"),
	}, nil
}
