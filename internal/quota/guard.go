package quota

import (
	"fmt"

	"github.com/mokolo-app/mokolo-backend/internal/subscriptions"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/metrics"
)

// Counts carries the usage figures a decision is evaluated against. For
// create_post the monthly figures come from the subscription record; for the
// media actions the per-listing figures come from the draft being assembled.
type Counts struct {
	PostsUsedThisMonth int
	ImagesOnListing    int
	VideosOnListing    int
}

// Guard answers whether an action is allowed under the resolved access state.
// Decisions are pure: the guard never mutates counters and never touches
// storage, so callers may probe it speculatively.
type Guard struct {
	metrics *metrics.QuotaMetrics
}

// NewGuard builds a guard. metrics may be nil.
func NewGuard(m *metrics.QuotaMetrics) *Guard {
	return &Guard{metrics: m}
}

// Check evaluates one action against the access state and current counts.
// A nil return means allowed; otherwise the error carries the deny code.
func (g *Guard) Check(access subscriptions.Access, action enums.QuotaAction, counts Counts) error {
	if err := g.check(access, action, counts); err != nil {
		g.metrics.IncDenied(action.String(), string(denyCode(err)))
		return err
	}
	g.metrics.IncAllowed(action.String())
	return nil
}

func (g *Guard) check(access subscriptions.Access, action enums.QuotaAction, counts Counts) error {
	switch action {
	case enums.QuotaActionCreatePost:
		if !access.CanPost {
			return pkgerrors.New(pkgerrors.CodeQuotaExhausted, "posting is not available under the current subscription")
		}
		// Both checks hold independently: a scenario that permits posting
		// still denies once the monthly count is spent.
		if limit := postLimit(access); counts.PostsUsedThisMonth >= limit {
			return pkgerrors.New(pkgerrors.CodeQuotaExhausted,
				fmt.Sprintf("monthly post limit of %d reached", limit))
		}
		return nil

	case enums.QuotaActionAddImage:
		if counts.ImagesOnListing >= access.ImageLimitPerPost {
			return pkgerrors.New(pkgerrors.CodeMediaLimit,
				fmt.Sprintf("listing already has the maximum of %d images", access.ImageLimitPerPost))
		}
		return nil

	case enums.QuotaActionAddVideo:
		if counts.VideosOnListing >= access.VideoLimitPerPost {
			return pkgerrors.New(pkgerrors.CodeMediaLimit,
				fmt.Sprintf("listing already has the maximum of %d videos", access.VideoLimitPerPost))
		}
		return nil

	case enums.QuotaActionEditListing:
		if !access.CanEditListings {
			return pkgerrors.New(pkgerrors.CodeEditingDisabled, "editing is not available under the current subscription")
		}
		return nil

	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown quota action %q", action))
	}
}

// postLimit recovers the monthly cap from the access state. PostsRemaining
// already folds in usage, so the cap is usage plus remaining only when the
// caller's counts match the resolution; the plan limit is authoritative.
func postLimit(access subscriptions.Access) int {
	if access.Plan != nil {
		return access.Plan.MaxPostsPerMonth
	}
	return access.PostsRemaining
}

func denyCode(err error) pkgerrors.Code {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr.Code()
	}
	return pkgerrors.CodeInternal
}
