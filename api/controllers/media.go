package controllers

import (
	"net/http"
	"time"

	"github.com/mokolo-app/mokolo-backend/api/responses"
	"github.com/mokolo-app/mokolo-backend/api/validators"
	"github.com/mokolo-app/mokolo-backend/internal/media"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
)

type uploadRequestItem struct {
	MediaType       string `json:"media_type" validate:"required,oneof=image video"`
	ContentType     string `json:"content_type" validate:"required"`
	SizeBytes       int64  `json:"size_bytes" validate:"required,min=1"`
	DurationSeconds int    `json:"duration_seconds,omitempty" validate:"omitempty,min=0"`
	Position        int    `json:"position" validate:"min=0"`
}

type grantUploadsRequest struct {
	ListingDomain string              `json:"listing_domain" validate:"required,oneof=rental marketplace"`
	Uploads       []uploadRequestItem `json:"uploads" validate:"required,min=1,max=10,dive"`
}

// GrantUploads returns signed PUT URLs after checking the caller's quota
// and media limits. The whole batch is validated before anything is signed.
func GrantUploads(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req grantUploadsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		domain, err := enums.ParseListingDomain(req.ListingDomain)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing domain"))
			return
		}

		requests := make([]media.UploadRequest, 0, len(req.Uploads))
		for _, item := range req.Uploads {
			mediaType, err := enums.ParseMediaType(item.MediaType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid media type"))
				return
			}
			requests = append(requests, media.UploadRequest{
				MediaType:   mediaType,
				ContentType: item.ContentType,
				SizeBytes:   item.SizeBytes,
				Duration:    time.Duration(item.DurationSeconds) * time.Second,
				Position:    item.Position,
			})
		}

		grants, err := svc.GrantUploads(r.Context(), userID, domain, requests)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"uploads": grants})
	}
}

type avatarUploadRequest struct {
	ContentType string `json:"content_type" validate:"required"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,min=1"`
}

// GrantAvatarUpload signs a profile-picture upload. Not quota gated.
func GrantAvatarUpload(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req avatarUploadRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grant, err := svc.GrantAvatarUpload(r.Context(), userID, req.ContentType, req.SizeBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, grant)
	}
}

type discardUploadRequest struct {
	ListingDomain string `json:"listing_domain" validate:"required,oneof=rental marketplace"`
	StorageKey    string `json:"storage_key" validate:"required"`
}

// DiscardUpload deletes an uploaded object whose draft listing was abandoned
// before creation.
func DiscardUpload(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := authedUser(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req discardUploadRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		domain, err := enums.ParseListingDomain(req.ListingDomain)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing domain"))
			return
		}

		if err := svc.RemoveObject(r.Context(), domain, req.StorageKey); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
