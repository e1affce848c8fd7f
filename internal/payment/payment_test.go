package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharge_Success(t *testing.T) {
	var got chargeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/payments", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"payment":{"id":"pay_123","status":"COMPLETED"}}`))
	}))
	defer srv.Close()

	client := NewSquareClient(srv.URL, "test-token", "loc-1")
	id, err := client.Charge(context.Background(), "cnon:card-nonce", 15.50, "CAD")
	require.NoError(t, err)

	assert.Equal(t, "pay_123", id)
	assert.Equal(t, "cnon:card-nonce", got.SourceID)
	assert.Equal(t, "loc-1", got.LocationID)
	assert.Equal(t, int64(1550), got.AmountMoney.Amount)
	assert.Equal(t, "CAD", got.AmountMoney.Currency)
	assert.NotEmpty(t, got.IdempotencyKey)
}

func TestCharge_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"errors":[{"code":"CARD_DECLINED","detail":"Card declined"}]}`))
	}))
	defer srv.Close()

	client := NewSquareClient(srv.URL, "test-token", "loc-1")
	_, err := client.Charge(context.Background(), "cnon:bad", 10.00, "CAD")

	assert.ErrorIs(t, err, ErrDeclined)
	assert.Contains(t, err.Error(), "CARD_DECLINED")
}

func TestCharge_FailedStatusIsDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"payment":{"id":"pay_9","status":"FAILED"}}`))
	}))
	defer srv.Close()

	client := NewSquareClient(srv.URL, "test-token", "loc-1")
	_, err := client.Charge(context.Background(), "cnon:card", 10.00, "CAD")

	assert.ErrorIs(t, err, ErrDeclined)
}

func TestCharge_ServerUnreachable(t *testing.T) {
	client := NewSquareClient("http://127.0.0.1:1", "test-token", "loc-1")
	_, err := client.Charge(context.Background(), "cnon:card", 10.00, "CAD")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDeclined)
}
