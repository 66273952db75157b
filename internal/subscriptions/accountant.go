package subscriptions

import (
	"time"

	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
)

// ResetIfNewCycle zeroes the usage counters when a calendar month has elapsed
// since current_month_start. It reports whether the record changed so callers
// know to persist it. Calling it twice with the same now is a no-op the
// second time.
//
// There is no background reset job: this runs opportunistically whenever the
// subscription is fetched, so counters for a dormant user reset lazily on the
// next fetch rather than precisely at the boundary.
func ResetIfNewCycle(sub *models.UserSubscription, now time.Time) bool {
	if sub == nil {
		return false
	}

	// Calendar-month rollover, not a fixed 30-day window.
	boundary := sub.CurrentMonthStart.AddDate(0, 1, 0)
	if now.Before(boundary) {
		return false
	}

	sub.PostsUsedThisMonth = 0
	sub.ImagesUsedThisMonth = 0
	sub.VideosUsedThisMonth = 0
	sub.CurrentMonthStart = now
	reset := now
	sub.LastQuotaReset = &reset
	return true
}
