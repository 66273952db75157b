package momo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mokolo-app/mokolo-backend/pkg/config"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	pkgerrors "github.com/mokolo-app/mokolo-backend/pkg/errors"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
)

const statusPollInterval = 2 * time.Second

var (
	errLoggerRequired   = errors.New("momo logger is required")
	errNoProviderConfig = errors.New("at least one mobile money provider must be configured")
)

// Charge describes a single collection request against a subscriber wallet.
type Charge struct {
	PhoneNumber string
	Amount      decimal.Decimal
	Currency    string
	Reference   string
}

// ChargeResult is the terminal outcome of a charge attempt. A charge that is
// still pending when the request window closes comes back as StatusUnknown;
// callers must not retry it automatically.
type ChargeResult struct {
	Status            enums.PaymentStatus
	ProviderReference string
	FailureReason     string
}

// Provider is the charge surface exposed to the payments service.
type Provider interface {
	RequestPayment(ctx context.Context, method enums.PaymentMethod, charge Charge) (*ChargeResult, error)
}

// Client drives the MTN MoMo and Orange Money collection APIs with a shared
// request window, logging, and error mapping.
type Client struct {
	httpClient *http.Client
	cfg        config.MoMoConfig
	logger     *logger.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewClient validates the provider configuration and returns a ready client.
func NewClient(ctx context.Context, cfg config.MoMoConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if strings.TrimSpace(cfg.MTNBaseURL) == "" && strings.TrimSpace(cfg.OrangeBaseURL) == "" {
		return nil, errNoProviderConfig
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:        cfg,
		logger:     logg,
		sleep:      sleepCtx,
	}

	logg.Info(ctx, "mobile money client initialized")
	return c, nil
}

// RequestPayment charges the wallet and blocks until the provider reports a
// terminal state or the request window elapses. Timeout yields StatusUnknown.
func (c *Client) RequestPayment(ctx context.Context, method enums.PaymentMethod, charge Charge) (*ChargeResult, error) {
	if charge.PhoneNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number is required")
	}
	if charge.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "charge amount must be positive")
	}
	if charge.Currency == "" {
		charge.Currency = c.cfg.Currency
	}
	if charge.Reference == "" {
		charge.Reference = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	c.log(ctx, "request", method, map[string]any{
		"reference": charge.Reference,
		"amount":    charge.Amount.String(),
		"currency":  charge.Currency,
		"phone":     charge.PhoneNumber,
	})

	var result *ChargeResult
	var err error
	switch method {
	case enums.PaymentMethodMTNMoMo:
		result, err = c.chargeMTN(ctx, charge)
	case enums.PaymentMethodOrangeMoney:
		result, err = c.chargeOrange(ctx, charge)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported payment method %q", method))
	}

	if err != nil {
		if isTimeout(ctx, err) {
			c.log(ctx, "timeout", method, map[string]any{"reference": charge.Reference})
			return &ChargeResult{
				Status:            enums.PaymentStatusUnknown,
				ProviderReference: charge.Reference,
				FailureReason:     "provider did not respond within the request window",
			}, nil
		}
		c.log(ctx, "error", method, map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s charge failed", method))
	}

	c.log(ctx, "response", method, map[string]any{
		"reference": result.ProviderReference,
		"status":    result.Status.String(),
	})
	return result, nil
}

// pollUntilTerminal repeatedly checks the provider status until it is terminal
// or the context deadline fires.
func (c *Client) pollUntilTerminal(ctx context.Context, check func(context.Context) (*ChargeResult, error)) (*ChargeResult, error) {
	for {
		result, err := check(ctx)
		if err != nil {
			return nil, err
		}
		if result.Status != enums.PaymentStatusPending {
			return result, nil
		}
		if err := c.sleep(ctx, statusPollInterval); err != nil {
			return nil, err
		}
	}
}

func (c *Client) log(ctx context.Context, phase string, method enums.PaymentMethod, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"provider": method.String(),
		"phase":    phase,
	}
	for k, v := range fields {
		logFields[k] = redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, "mobile money charge", errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("mobile money %s", phase))
	}
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"phone", "msisdn", "key", "token", "secret"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
