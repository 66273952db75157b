package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mokolo-app/mokolo-backend/internal/quota"
	"github.com/mokolo-app/mokolo-backend/internal/subscriptions"
	"github.com/mokolo-app/mokolo-backend/pkg/config"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
)

// imageMimeTypes and videoMimeTypes are the accepted upload content types.
var imageMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var videoMimeTypes = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
}

// UploadRequest describes one object the client wants to upload.
type UploadRequest struct {
	MediaType enums.MediaType
	// ContentType is the MIME type the client will send.
	ContentType string
	// SizeBytes is the client-declared object size.
	SizeBytes int64
	// Duration applies to videos only.
	Duration time.Duration
	// Position of this object among the media already attached or queued
	// for the same listing draft.
	Position int
}

// UploadGrant is a signed PUT URL plus the storage coordinates the client
// must echo back when attaching the object to a listing.
type UploadGrant struct {
	UploadURL   string          `json:"upload_url"`
	PublicURL   string          `json:"public_url"`
	StorageKey  string          `json:"storage_key"`
	MediaType   enums.MediaType `json:"media_type"`
	ContentType string          `json:"content_type"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

// signer is the storage surface the service needs.
type signer interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service validates upload requests against quota and media limits and
// issues signed upload URLs.
type Service interface {
	// GrantUploads validates every request against the caller's access state
	// and returns one grant per request, in order. Either all requests pass
	// or none are granted.
	GrantUploads(ctx context.Context, userID uuid.UUID, domain enums.ListingDomain, requests []UploadRequest) ([]UploadGrant, error)
	// GrantAvatarUpload signs a PUT URL into the profile-pictures bucket.
	// Avatars are not quota gated; only type and size are checked.
	GrantAvatarUpload(ctx context.Context, userID uuid.UUID, contentType string, sizeBytes int64) (*UploadGrant, error)
	// RemoveObject deletes an uploaded object, for drafts that were
	// abandoned before the listing was created.
	RemoveObject(ctx context.Context, domain enums.ListingDomain, storageKey string) error
}

type service struct {
	storage signer
	subs    subscriptions.Service
	guard   *quota.Guard
	cfg     config.MediaConfig
	buckets config.GCSConfig
}

// NewService wires storage signing with the quota layer.
func NewService(storage signer, subs subscriptions.Service, guard *quota.Guard, cfg config.MediaConfig, buckets config.GCSConfig) (Service, error) {
	if storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "storage client required")
	}
	if subs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "subscriptions service required")
	}
	if guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "quota guard required")
	}
	return &service{storage: storage, subs: subs, guard: guard, cfg: cfg, buckets: buckets}, nil
}

func (s *service) GrantUploads(ctx context.Context, userID uuid.UUID, domain enums.ListingDomain, requests []UploadRequest) ([]UploadGrant, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !domain.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing domain")
	}
	if len(requests) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one upload request required")
	}

	res, err := s.subs.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	// All checks run before any URL is signed so a rejected batch leaves
	// nothing behind.
	for i, req := range requests {
		if err := s.validateRequest(res.Access, req); err != nil {
			return nil, pkgerrors.Wrap(errCode(err), err, fmt.Sprintf("upload request %d", i))
		}
	}

	bucket := s.bucketFor(domain)
	grants := make([]UploadGrant, 0, len(requests))
	for _, req := range requests {
		key := objectKey(userID, req)
		url, err := s.storage.SignedURL(bucket, key, req.ContentType, s.buckets.UploadURLExpiry)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
		}
		grants = append(grants, UploadGrant{
			UploadURL:   url,
			PublicURL:   fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key),
			StorageKey:  key,
			MediaType:   req.MediaType,
			ContentType: req.ContentType,
			ExpiresAt:   time.Now().Add(s.buckets.UploadURLExpiry),
		})
	}
	return grants, nil
}

func (s *service) validateRequest(access subscriptions.Access, req UploadRequest) error {
	switch req.MediaType {
	case enums.MediaTypeImage:
		if _, ok := imageMimeTypes[req.ContentType]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported image type %q", req.ContentType))
		}
		if err := s.guard.Check(access, enums.QuotaActionAddImage, quota.Counts{ImagesOnListing: req.Position}); err != nil {
			return err
		}
		if req.SizeBytes <= 0 || req.SizeBytes > s.cfg.MaxImageBytes {
			return pkgerrors.New(pkgerrors.CodeMediaTooLarge,
				fmt.Sprintf("image exceeds the %d byte limit", s.cfg.MaxImageBytes))
		}
		return nil

	case enums.MediaTypeVideo:
		if _, ok := videoMimeTypes[req.ContentType]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported video type %q", req.ContentType))
		}
		if err := s.guard.Check(access, enums.QuotaActionAddVideo, quota.Counts{VideosOnListing: req.Position}); err != nil {
			return err
		}
		if req.SizeBytes <= 0 || req.SizeBytes > s.cfg.MaxVideoBytes {
			return pkgerrors.New(pkgerrors.CodeMediaTooLarge,
				fmt.Sprintf("video exceeds the %d byte limit", s.cfg.MaxVideoBytes))
		}
		if req.Duration <= 0 || req.Duration > s.cfg.MaxVideoDuration {
			return pkgerrors.New(pkgerrors.CodeMediaTooLong,
				fmt.Sprintf("video exceeds the %s duration limit", s.cfg.MaxVideoDuration))
		}
		return nil

	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid media type")
	}
}

func (s *service) GrantAvatarUpload(ctx context.Context, userID uuid.UUID, contentType string, sizeBytes int64) (*UploadGrant, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	ext, ok := imageMimeTypes[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported image type %q", contentType))
	}
	if sizeBytes <= 0 || sizeBytes > s.cfg.MaxImageBytes {
		return nil, pkgerrors.New(pkgerrors.CodeMediaTooLarge,
			fmt.Sprintf("image exceeds the %d byte limit", s.cfg.MaxImageBytes))
	}

	key := path.Join(userID.String(), uuid.NewString()+ext)
	url, err := s.storage.SignedURL(s.buckets.ProfileBucket, key, contentType, s.buckets.UploadURLExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign avatar upload url")
	}
	return &UploadGrant{
		UploadURL:   url,
		PublicURL:   fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.buckets.ProfileBucket, key),
		StorageKey:  key,
		MediaType:   enums.MediaTypeImage,
		ContentType: contentType,
		ExpiresAt:   time.Now().Add(s.buckets.UploadURLExpiry),
	}, nil
}

func (s *service) RemoveObject(ctx context.Context, domain enums.ListingDomain, storageKey string) error {
	if !domain.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid listing domain")
	}
	if strings.TrimSpace(storageKey) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "storage key required")
	}
	if err := s.storage.DeleteObject(ctx, s.bucketFor(domain), storageKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media object")
	}
	return nil
}

func (s *service) bucketFor(domain enums.ListingDomain) string {
	if domain == enums.ListingDomainRental {
		return s.buckets.RentalBucket
	}
	return s.buckets.MarketplaceBucket
}

// objectKey builds a collision-free storage key under the uploader's prefix.
func objectKey(userID uuid.UUID, req UploadRequest) string {
	ext := imageMimeTypes[req.ContentType]
	if req.MediaType == enums.MediaTypeVideo {
		ext = videoMimeTypes[req.ContentType]
	}
	return path.Join(userID.String(), uuid.NewString()+ext)
}


func errCode(err error) pkgerrors.Code {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr.Code()
	}
	return pkgerrors.CodeInternal
}
