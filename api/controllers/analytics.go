package controllers

import (
	"net/http"

	"github.com/mokolo-app/mokolo-backend/api/responses"
	"github.com/mokolo-app/mokolo-backend/internal/analytics"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
)

// OwnerDashboard returns aggregate listing totals for the caller.
func OwnerDashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dashboard, err := svc.Dashboard(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

// OwnerAnalyticsReport returns the per-listing breakdown for plans that
// include analytics.
func OwnerAnalyticsReport(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		report, err := svc.Report(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
