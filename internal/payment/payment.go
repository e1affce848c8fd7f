package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var ErrDeclined = errors.New("payment declined")

// Processor confirms a card payment for an already-tokenized card. The token
// comes from the processor's client-side tokenization flow; the engine never
// sees card data. One request, one response, no retry.
type Processor interface {
	Charge(ctx context.Context, token string, amount float64, currency string) (string, error)
}

// SquareClient talks to the Square payments API. Amounts are sent in the
// currency's smallest unit.
type SquareClient struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	locationID  string
}

func NewSquareClient(baseURL, accessToken, locationID string) *SquareClient {
	return &SquareClient{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     baseURL,
		accessToken: accessToken,
		locationID:  locationID,
	}
}

type chargeRequest struct {
	SourceID       string      `json:"source_id"`
	IdempotencyKey string      `json:"idempotency_key"`
	LocationID     string      `json:"location_id"`
	AmountMoney    amountMoney `json:"amount_money"`
}

type amountMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type chargeResponse struct {
	Payment struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"payment"`
	Errors []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// Charge submits the payment and returns the processor's confirmation id.
func (c *SquareClient) Charge(ctx context.Context, token string, amount float64, currency string) (string, error) {
	body, err := json.Marshal(chargeRequest{
		SourceID:       token,
		IdempotencyKey: uuid.NewString(),
		LocationID:     c.locationID,
		AmountMoney: amountMoney{
			Amount:   int64(math.Round(amount * 100)),
			Currency: currency,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/payments", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("charge request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode charge response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(parsed.Errors) > 0 {
			return "", fmt.Errorf("%w: %s (%s)", ErrDeclined, parsed.Errors[0].Detail, parsed.Errors[0].Code)
		}
		return "", fmt.Errorf("%w: processor returned status %d", ErrDeclined, resp.StatusCode)
	}

	if parsed.Payment.Status != "COMPLETED" && parsed.Payment.Status != "APPROVED" {
		return "", fmt.Errorf("%w: payment status %s", ErrDeclined, parsed.Payment.Status)
	}

	return parsed.Payment.ID, nil
}
