package payments

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mokolo-app/mokolo-backend/internal/notifications"
	"github.com/mokolo-app/mokolo-backend/internal/plans"
	"github.com/mokolo-app/mokolo-backend/internal/subscriptions"
	"github.com/mokolo-app/mokolo-backend/pkg/db/models"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
	"github.com/mokolo-app/mokolo-backend/pkg/momo"
	"github.com/mokolo-app/mokolo-backend/pkg/pagination"
)

// ChargeInput carries one subscription purchase request.
type ChargeInput struct {
	PlanID      string
	Method      enums.PaymentMethod
	PhoneNumber string
}

// Service charges subscribers over mobile money and activates plans.
type Service interface {
	// ProcessPayment runs the full purchase flow: persist a pending
	// transaction, charge the wallet, and on success activate the plan.
	// A transaction that comes back with StatusUnknown is returned without
	// error and without activation; it must be reconciled manually, never
	// retried automatically.
	ProcessPayment(ctx context.Context, userID uuid.UUID, input ChargeInput) (*models.PaymentTransaction, error)
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*models.PaymentTransaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.PaymentTransaction, error)
}

type service struct {
	repo     Repository
	plans    plans.Service
	subs     subscriptions.Service
	provider momo.Provider
	notifier notifications.Service
	logger   *logger.Logger
}

// NewService wires the payment pipeline. notifier may be nil.
func NewService(repo Repository, planSvc plans.Service, subs subscriptions.Service, provider momo.Provider, notifier notifications.Service, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payments repository required")
	}
	if planSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "plans service required")
	}
	if subs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "subscriptions service required")
	}
	if provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment provider required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, plans: planSvc, subs: subs, provider: provider, notifier: notifier, logger: logg}, nil
}

func (s *service) ProcessPayment(ctx context.Context, userID uuid.UUID, input ChargeInput) (*models.PaymentTransaction, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if strings.TrimSpace(input.PhoneNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number required")
	}

	// Mobile clients send either a catalog id or a tier name ("standard",
	// "premium").
	plan, err := s.lookupPlan(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}

	// The transaction row goes in before the charge so a timeout or crash
	// always leaves an auditable record.
	txn := &models.PaymentTransaction{
		UserID:       userID,
		PlanID:       plan.ID,
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Amount:       plan.Price,
		CurrencyCode: plan.CurrencyCode,
		Method:       input.Method,
		Status:       enums.PaymentStatusPending,
	}
	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment transaction")
	}

	result, err := s.provider.RequestPayment(ctx, input.Method, momo.Charge{
		PhoneNumber: txn.PhoneNumber,
		Amount:      txn.Amount,
		Currency:    txn.CurrencyCode,
		Reference:   txn.ID.String(),
	})
	if err != nil {
		reason := err.Error()
		txn.Status = enums.PaymentStatusFailed
		txn.FailureReason = &reason
		s.persistOutcome(ctx, txn)
		return txn, pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "request payment")
	}

	txn.Status = result.Status
	if result.ProviderReference != "" {
		ref := result.ProviderReference
		txn.ProviderReference = &ref
	}
	if result.FailureReason != "" {
		reason := result.FailureReason
		txn.FailureReason = &reason
	}
	s.persistOutcome(ctx, txn)

	switch result.Status {
	case enums.PaymentStatusFailed:
		return txn, pkgerrors.New(pkgerrors.CodePaymentFailed, firstNonEmpty(result.FailureReason, "payment was declined"))

	case enums.PaymentStatusUnknown:
		// The wallet may or may not have been debited. Surface the state
		// as-is and leave reconciliation to support.
		s.logger.Warn(ctx, "payment outcome unknown after provider timeout")
		return txn, nil

	case enums.PaymentStatusSucceeded:
		// Money has moved; activation failure past this point must not
		// pretend the charge failed.
		err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
			_, err := s.subs.Activate(ctx, tx, userID, plan)
			return err
		})
		if err != nil {
			s.logger.Error(ctx, "subscription activation failed after successful charge", err)
			return txn, pkgerrors.Wrap(pkgerrors.CodeActivationFailed, err, "activate subscription")
		}
		s.notifyRenewal(ctx, userID)
		return txn, nil

	default:
		return txn, nil
	}
}

// persistOutcome saves the charge outcome on a best-effort basis; the result
// returned to the caller is authoritative even if the save fails.
func (s *service) lookupPlan(ctx context.Context, planRef string) (*models.SubscriptionPlan, error) {
	if name, err := enums.ParsePlanName(planRef); err == nil {
		return s.plans.GetByName(ctx, name)
	}
	return s.plans.GetByID(ctx, planRef)
}

func (s *service) persistOutcome(ctx context.Context, txn *models.PaymentTransaction) {
	if err := s.repo.Update(ctx, txn); err != nil {
		s.logger.Error(ctx, "persist payment outcome failed", err)
	}
}

func (s *service) notifyRenewal(ctx context.Context, userID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Send(ctx, notifications.Notify{
		UserID:  userID,
		Type:    enums.NotificationTypeSubscriptionRenewed,
		Title:   "Subscription active",
		Message: "Your subscription payment was received and your plan is active.",
	})
	if err != nil {
		s.logger.Error(ctx, "renewal notification failed", err)
	}
}

func (s *service) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*models.PaymentTransaction, error) {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get transaction")
	}
	if txn.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "transaction belongs to another user")
	}
	return txn, nil
}

func (s *service) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.PaymentTransaction, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByUser(ctx, userID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	return rows, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
