package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mokolo-app/mokolo-backend/api/responses"
	"github.com/mokolo-app/mokolo-backend/api/validators"
	"github.com/mokolo-app/mokolo-backend/internal/payments"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
	"github.com/mokolo-app/mokolo-backend/pkg/pagination"
)

type chargeRequest struct {
	PlanID      string `json:"plan_id" validate:"required"`
	Method      string `json:"method" validate:"required,oneof=mtn_momo orange_money"`
	PhoneNumber string `json:"phone_number" validate:"required,min=9,max=15"`
}

// ProcessPayment charges the wallet and activates the plan. A transaction
// returned with payment_status "unknown" has not activated anything and
// must not be retried blindly.
func ProcessPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req chargeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(req.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		txn, err := svc.ProcessPayment(r.Context(), userID, payments.ChargeInput{
			PlanID:      req.PlanID,
			Method:      method,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

func GetPaymentTransaction(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "transactionID"), "transactionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		txn, err := svc.GetTransaction(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txn)
	}
}

func ListPaymentTransactions(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListTransactions(r.Context(), userID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
