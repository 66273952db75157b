package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mokolo-app/mokolo-backend/pkg/enums"
)

// MTN MoMo collections are asynchronous: requesttopay returns 202 and the
// outcome is read back from the status resource.

type mtnRequestToPay struct {
	Amount       string        `json:"amount"`
	Currency     string        `json:"currency"`
	ExternalID   string        `json:"externalId"`
	Payer        mtnPayerParty `json:"payer"`
	PayerMessage string        `json:"payerMessage"`
	PayeeNote    string        `json:"payeeNote"`
}

type mtnPayerParty struct {
	PartyIDType string `json:"partyIdType"`
	PartyID     string `json:"partyId"`
}

type mtnStatusResponse struct {
	Status string `json:"status"`
	Reason struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"reason"`
}

func (c *Client) chargeMTN(ctx context.Context, charge Charge) (*ChargeResult, error) {
	body := mtnRequestToPay{
		Amount:       charge.Amount.String(),
		Currency:     charge.Currency,
		ExternalID:   charge.Reference,
		Payer:        mtnPayerParty{PartyIDType: "MSISDN", PartyID: charge.PhoneNumber},
		PayerMessage: "Mokolo subscription",
		PayeeNote:    "Mokolo subscription",
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode requesttopay: %w", err)
	}

	u := strings.TrimRight(c.cfg.MTNBaseURL, "/") + "/collection/v1_0/requesttopay"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Reference-Id", charge.Reference)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.MTNSubscription)
	req.Header.Set("Authorization", "Bearer "+c.cfg.MTNAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusAccepted:
		// fall through to status polling
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ChargeResult{
			Status:            enums.PaymentStatusFailed,
			ProviderReference: charge.Reference,
			FailureReason:     fmt.Sprintf("mtn rejected the request: %s", resp.Status),
		}, nil
	default:
		return nil, fmt.Errorf("mtn requesttopay returned %s", resp.Status)
	}

	return c.pollUntilTerminal(ctx, func(ctx context.Context) (*ChargeResult, error) {
		return c.mtnStatus(ctx, charge.Reference)
	})
}

func (c *Client) mtnStatus(ctx context.Context, reference string) (*ChargeResult, error) {
	u := strings.TrimRight(c.cfg.MTNBaseURL, "/") + "/collection/v1_0/requesttopay/" + reference
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.MTNSubscription)
	req.Header.Set("Authorization", "Bearer "+c.cfg.MTNAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mtn status returned %s", resp.Status)
	}

	var status mtnStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode mtn status: %w", err)
	}

	result := &ChargeResult{ProviderReference: reference}
	switch strings.ToUpper(status.Status) {
	case "SUCCESSFUL":
		result.Status = enums.PaymentStatusSucceeded
	case "FAILED", "REJECTED", "TIMEOUT":
		result.Status = enums.PaymentStatusFailed
		result.FailureReason = status.Reason.Message
		if result.FailureReason == "" {
			result.FailureReason = status.Reason.Code
		}
	default:
		result.Status = enums.PaymentStatusPending
	}
	return result, nil
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
