package fiat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VellaPay/VellaPay-Backend/providers"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaystack(baseURL string) *PaystackProvider {
	return &PaystackProvider{
		BaseProvider: providers.BaseProvider{
			Name:    providers.Paystack,
			BaseURL: baseURL + "/",
			APIKey:  "sk_test_stub",
			Client:  &http.Client{Timeout: time.Second},
			Logger:  logging.NewTestLogger(),
		},
		config: &FiatConfig{CollectPollSeconds: 1, CollectWindowSeconds: 2},
		hub:    newCompletionHub(),
	}
}

// Collect must hand the checkout page back before the charge settles,
// since the payer cannot enter card details on a page they never see.
func TestPaystackCollectReturnsCheckoutLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc123","access_code":"ac_x","reference":"fund-001"}}`))
	}))
	defer server.Close()

	p := testPaystack(server.URL)

	collection, err := p.Collect(context.Background(), CollectRequest{
		Amount:     500_000,
		Currency:   "NGN",
		Reference:  "fund-001",
		PayerEmail: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", collection.PaymentLink)
	assert.Equal(t, "fund-001", collection.Reference)

	// the webhook settles the charge; Await picks it up
	delivered := p.Complete("fund-001", CollectResult{
		Status:      CollectSucceeded,
		Reference:   "fund-001",
		ProviderRef: "4099260516",
	})
	require.True(t, delivered)

	result, err := collection.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CollectSucceeded, result.Status)
	assert.Equal(t, "4099260516", result.ProviderRef)
}

func TestPaystackCollectSurfacesFailedCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"data":{"authorization_url":"https://checkout.paystack.com/def456","reference":"fund-002"}}`))
	}))
	defer server.Close()

	p := testPaystack(server.URL)

	collection, err := p.Collect(context.Background(), CollectRequest{
		Amount:    100_000,
		Currency:  "NGN",
		Reference: "fund-002",
	})
	require.NoError(t, err)

	p.Complete("fund-002", CollectResult{
		Status:    CollectFailed,
		Reference: "fund-002",
		Message:   "Declined",
	})

	_, err = collection.Await(context.Background())
	require.Error(t, err)
	var collErr *providers.CollectionError
	require.ErrorAs(t, err, &collErr)
	assert.False(t, collErr.Retryable)
}
