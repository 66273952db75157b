package quota

import (
	"testing"

	"github.com/mokolo-app/mokolo-backend/internal/subscriptions"
	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
)

func activeAccess(maxPosts, maxImages, maxVideos int) subscriptions.Access {
	return subscriptions.Access{
		Kind:               enums.ScenarioActive,
		Plan:               &models.SubscriptionPlan{MaxPostsPerMonth: maxPosts, MaxImagesPerPost: maxImages, MaxVideosPerPost: maxVideos},
		CanPost:            true,
		CanEditListings:    true,
		HasDashboardAccess: true,
		PostsRemaining:     maxPosts,
		ImageLimitPerPost:  maxImages,
		VideoLimitPerPost:  maxVideos,
	}
}

func TestCreatePostAllowedUnderLimit(t *testing.T) {
	guard := NewGuard(nil)
	access := activeAccess(20, 5, 1)

	if err := guard.Check(access, enums.QuotaActionCreatePost, Counts{PostsUsedThisMonth: 19}); err != nil {
		t.Fatalf("19 of 20 used should allow the final post: %v", err)
	}
}

func TestCreatePostDeniedAtLimit(t *testing.T) {
	guard := NewGuard(nil)
	access := activeAccess(20, 5, 1)

	err := guard.Check(access, enums.QuotaActionCreatePost, Counts{PostsUsedThisMonth: 20})
	if !pkgerrors.IsCode(err, pkgerrors.CodeQuotaExhausted) {
		t.Fatalf("expected quota exhausted at the limit, got %v", err)
	}
}

func TestCreatePostDeniedAboveLimitEvenWhenCanPost(t *testing.T) {
	guard := NewGuard(nil)
	access := activeAccess(20, 5, 1)
	access.CanPost = true

	// The count check holds independently of the scenario's posting grant.
	err := guard.Check(access, enums.QuotaActionCreatePost, Counts{PostsUsedThisMonth: 25})
	if !pkgerrors.IsCode(err, pkgerrors.CodeQuotaExhausted) {
		t.Fatalf("expected quota exhausted above the limit, got %v", err)
	}
}

func TestCreatePostDeniedInGracePeriod(t *testing.T) {
	guard := NewGuard(nil)
	access := subscriptions.Access{
		Kind:            enums.ScenarioGracePeriod,
		Plan:            &models.SubscriptionPlan{MaxPostsPerMonth: 20, MaxImagesPerPost: 5},
		CanPost:         false,
		CanEditListings: true,
	}

	err := guard.Check(access, enums.QuotaActionCreatePost, Counts{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeQuotaExhausted) {
		t.Fatalf("grace period should deny posting, got %v", err)
	}
}

func TestEditAllowedInGracePeriod(t *testing.T) {
	guard := NewGuard(nil)
	access := subscriptions.Access{
		Kind:            enums.ScenarioGracePeriod,
		CanPost:         false,
		CanEditListings: true,
	}

	if err := guard.Check(access, enums.QuotaActionEditListing, Counts{}); err != nil {
		t.Fatalf("grace period should allow editing: %v", err)
	}
}

func TestEditDeniedWhenLocked(t *testing.T) {
	guard := NewGuard(nil)
	access := subscriptions.Access{Kind: enums.ScenarioLocked}

	err := guard.Check(access, enums.QuotaActionEditListing, Counts{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeEditingDisabled) {
		t.Fatalf("expected editing disabled, got %v", err)
	}
}

func TestAddImageLimits(t *testing.T) {
	guard := NewGuard(nil)
	access := activeAccess(20, 5, 1)

	if err := guard.Check(access, enums.QuotaActionAddImage, Counts{ImagesOnListing: 4}); err != nil {
		t.Fatalf("4 of 5 images should allow one more: %v", err)
	}

	err := guard.Check(access, enums.QuotaActionAddImage, Counts{ImagesOnListing: 5})
	if !pkgerrors.IsCode(err, pkgerrors.CodeMediaLimit) {
		t.Fatalf("expected media limit at 5 of 5, got %v", err)
	}
}

func TestAddVideoLimits(t *testing.T) {
	guard := NewGuard(nil)
	access := activeAccess(20, 5, 1)

	if err := guard.Check(access, enums.QuotaActionAddVideo, Counts{VideosOnListing: 0}); err != nil {
		t.Fatalf("first video should be allowed: %v", err)
	}

	err := guard.Check(access, enums.QuotaActionAddVideo, Counts{VideosOnListing: 1})
	if !pkgerrors.IsCode(err, pkgerrors.CodeMediaLimit) {
		t.Fatalf("expected media limit for second video, got %v", err)
	}
}

func TestCheckIsSideEffectFree(t *testing.T) {
	guard := NewGuard(nil)
	access := activeAccess(20, 5, 1)
	counts := Counts{PostsUsedThisMonth: 10, ImagesOnListing: 2, VideosOnListing: 0}

	before := counts
	for i := 0; i < 3; i++ {
		if err := guard.Check(access, enums.QuotaActionCreatePost, counts); err != nil {
			t.Fatalf("Check: %v", err)
		}
	}
	if counts != before {
		t.Fatalf("Check must not mutate counts: %+v", counts)
	}
}

func TestUnknownActionRejected(t *testing.T) {
	guard := NewGuard(nil)

	err := guard.Check(activeAccess(20, 5, 1), enums.QuotaAction("publish_story"), Counts{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown action, got %v", err)
	}
}
