package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// Orange Money web payments accept the charge synchronously and expose a
// transaction status endpoint keyed by the order id.

type orangePayRequest struct {
	MerchantID     string `json:"merchant_id"`
	OrderID        string `json:"order_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	SubscriberJSON string `json:"subscriber_msisdn"`
}

type orangePayResponse struct {
	Status  string `json:"status"`
	TxnID   string `json:"txnid"`
	Message string `json:"message"`
}

func (c *Client) chargeOrange(ctx context.Context, charge Charge) (*ChargeResult, error) {
	body := orangePayRequest{
		MerchantID:     c.cfg.OrangeMerchantID,
		OrderID:        charge.Reference,
		Amount:         charge.Amount.String(),
		Currency:       charge.Currency,
		SubscriberJSON: charge.PhoneNumber,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode orange pay: %w", err)
	}

	u := strings.TrimRight(c.cfg.OrangeBaseURL, "/") + "/omcoreapis/1.0.2/mp/pay"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.OrangeAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &ChargeResult{
			Status:            enums.PaymentStatusFailed,
			ProviderReference: charge.Reference,
			FailureReason:     fmt.Sprintf("orange rejected the request: %s", resp.Status),
		}, nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("orange pay returned %s", resp.Status)
	}

	var payResp orangePayResponse
	if err := json.NewDecoder(resp.Body).Decode(&payResp); err != nil {
		return nil, fmt.Errorf("decode orange pay: %w", err)
	}
	if mapped := mapOrangeStatus(charge.Reference, payResp); mapped.Status != enums.PaymentStatusPending {
		return mapped, nil
	}

	return c.pollUntilTerminal(ctx, func(ctx context.Context) (*ChargeResult, error) {
		return c.orangeStatus(ctx, charge.Reference)
	})
}

func (c *Client) orangeStatus(ctx context.Context, reference string) (*ChargeResult, error) {
	u := strings.TrimRight(c.cfg.OrangeBaseURL, "/") + "/omcoreapis/1.0.2/mp/paymentstatus/" + reference
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.OrangeAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("orange status returned %s", resp.Status)
	}

	var payResp orangePayResponse
	if err := json.NewDecoder(resp.Body).Decode(&payResp); err != nil {
		return nil, fmt.Errorf("decode orange status: %w", err)
	}
	return mapOrangeStatus(reference, payResp), nil
}

func mapOrangeStatus(reference string, payResp orangePayResponse) *ChargeResult {
	result := &ChargeResult{ProviderReference: reference}
	if payResp.TxnID != "" {
		result.ProviderReference = payResp.TxnID
	}
	switch strings.ToUpper(payResp.Status) {
	case "SUCCESS", "SUCCESSFULL", "SUCCESSFUL":
		result.Status = enums.PaymentStatusSucceeded
	case "FAILED", "EXPIRED", "CANCELLED":
		result.Status = enums.PaymentStatusFailed
		result.FailureReason = payResp.Message
	default:
		result.Status = enums.PaymentStatusPending
	}
	return result
}
