package subscriptions

import (
	"time"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// Access is the resolved access state for one user at one instant. It is
// recomputed on every evaluation and never persisted.
type Access struct {
	Kind               enums.ScenarioKind       `json:"scenario"`
	Plan               *models.SubscriptionPlan `json:"plan,omitempty"`
	CanPost            bool                     `json:"can_post"`
	CanEditListings    bool                     `json:"can_edit_listings"`
	HasDashboardAccess bool                     `json:"has_dashboard_access"`
	HasAnalyticsAccess bool                     `json:"has_analytics_access"`
	PostsRemaining     int                      `json:"posts_remaining"`
	ImageLimitPerPost  int                      `json:"image_limit_per_post"`
	VideoLimitPerPost  int                      `json:"video_limit_per_post"`
}

// ResolveScenario maps a subscription record and the current time onto an
// access scenario. The mapping is pure and total: every input combination
// yields exactly one scenario.
//
// freePlan carries the operator-configured limits substituted when paid
// subscriptions are disabled; downstream components never need to know
// whether the paid tiers are switched on.
func ResolveScenario(sub *models.UserSubscription, now time.Time, subscriptionsEnabled bool, freePlan *models.SubscriptionPlan) Access {
	if !subscriptionsEnabled {
		return resolveFreeAccess(sub, freePlan)
	}

	if sub == nil {
		return Access{Kind: enums.ScenarioNoSubscription}
	}

	plan := sub.Plan
	if plan == nil {
		// A subscription row without its catalog row cannot grant anything.
		return Access{Kind: enums.ScenarioLocked}
	}

	switch sub.Status {
	case enums.SubscriptionStatusActive:
		if sub.EndDate.After(now) {
			return Access{
				Kind:               enums.ScenarioActive,
				Plan:               plan,
				CanPost:            true,
				CanEditListings:    true,
				HasDashboardAccess: true,
				HasAnalyticsAccess: plan.HasAnalytics,
				PostsRemaining:     remaining(plan.MaxPostsPerMonth, sub.PostsUsedThisMonth),
				ImageLimitPerPost:  plan.MaxImagesPerPost,
				VideoLimitPerPost:  plan.MaxVideosPerPost,
			}
		}
		// The status field is stale; treat an elapsed end_date as expired.
		fallthrough

	case enums.SubscriptionStatusExpired:
		// Inclusive boundary: exactly grace_period_days past end_date is
		// still grace, one day later is locked.
		if daysExpired(sub.EndDate, now) <= plan.GracePeriodDays {
			return Access{
				Kind:               enums.ScenarioGracePeriod,
				Plan:               plan,
				CanPost:            false,
				CanEditListings:    true,
				HasDashboardAccess: true,
				HasAnalyticsAccess: false,
				PostsRemaining:     0,
				ImageLimitPerPost:  plan.MaxImagesPerPost,
				VideoLimitPerPost:  plan.MaxVideosPerPost,
			}
		}
		return Access{Kind: enums.ScenarioLocked, Plan: plan}

	default:
		// cancelled and pending grant nothing.
		return Access{Kind: enums.ScenarioLocked, Plan: plan}
	}
}

func resolveFreeAccess(sub *models.UserSubscription, freePlan *models.SubscriptionPlan) Access {
	if freePlan == nil {
		freePlan = &models.SubscriptionPlan{Name: enums.PlanNameFreeAccess}
	}
	used := 0
	if sub != nil {
		used = sub.PostsUsedThisMonth
	}
	return Access{
		Kind:               enums.ScenarioSubscriptionsDisabled,
		Plan:               freePlan,
		CanPost:            true,
		CanEditListings:    true,
		HasDashboardAccess: true,
		HasAnalyticsAccess: freePlan.HasAnalytics,
		PostsRemaining:     remaining(freePlan.MaxPostsPerMonth, used),
		ImageLimitPerPost:  freePlan.MaxImagesPerPost,
		VideoLimitPerPost:  freePlan.MaxVideosPerPost,
	}
}

// daysExpired counts whole days elapsed since endDate, clamped at zero so an
// expired status with a future end_date still lands in grace.
func daysExpired(endDate, now time.Time) int {
	if !now.After(endDate) {
		return 0
	}
	return int(now.Sub(endDate).Hours() / 24)
}

func remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}
