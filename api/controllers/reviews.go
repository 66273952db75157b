package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mokolo-app/mokolo-backend/api/responses"
	"github.com/mokolo-app/mokolo-backend/api/validators"
	"github.com/mokolo-app/mokolo-backend/internal/reviews"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
	"github.com/mokolo-app/mokolo-backend/pkg/pagination"
)

type createReviewRequest struct {
	ListingDomain  string  `json:"listing_domain" validate:"required,oneof=rental marketplace"`
	ListingID      string  `json:"listing_id" validate:"required,uuid"`
	ListingOwnerID string  `json:"listing_owner_id" validate:"required,uuid"`
	Rating         int     `json:"rating" validate:"required,min=1,max=5"`
	Comment        *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

func CreateReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createReviewRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		domain, err := enums.ParseListingDomain(req.ListingDomain)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing domain"))
			return
		}
		listingID, err := validators.ParsePathUUID(req.ListingID, "listing_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ownerID, err := validators.ParsePathUUID(req.ListingOwnerID, "listing_owner_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Create(r.Context(), userID, reviews.CreateInput{
			ListingDomain:  domain,
			ListingID:      listingID,
			ListingOwnerID: ownerID,
			Rating:         req.Rating,
			Comment:        req.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

func ListListingReviews(svc reviews.Service, domain enums.ListingDomain, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := listingIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListByListing(r.Context(), domain, listingID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.Summary(r.Context(), domain, listingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"reviews": rows,
			"summary": summary,
		})
	}
}

func DeleteReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "reviewID"), "reviewID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
