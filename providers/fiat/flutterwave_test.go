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

func testFlutterwave(baseURL string) *FlutterwaveProvider {
	return &FlutterwaveProvider{
		BaseProvider: providers.BaseProvider{
			Name:    providers.Flutterwave,
			BaseURL: baseURL + "/",
			APIKey:  "FLWSECK_TEST-stub",
			Client:  &http.Client{Timeout: time.Second},
			Logger:  logging.NewTestLogger(),
		},
		config: &FiatConfig{CollectPollSeconds: 1, CollectWindowSeconds: 2},
		hub:    newCompletionHub(),
	}
}

func TestFlutterwaveCollectReturnsPaymentLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","message":"Hosted Link","data":{"link":"https://checkout.flutterwave.com/v3/hosted/pay/xyz789"}}`))
	}))
	defer server.Close()

	p := testFlutterwave(server.URL)

	collection, err := p.Collect(context.Background(), CollectRequest{
		Amount:     250_000,
		Currency:   "NGN",
		Reference:  "fund-101",
		PayerEmail: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.flutterwave.com/v3/hosted/pay/xyz789", collection.PaymentLink)

	p.Complete("fund-101", CollectResult{
		Status:      CollectSucceeded,
		Reference:   "fund-101",
		ProviderRef: "8123001",
	})

	result, err := collection.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8123001", result.ProviderRef)
}

func TestFlutterwaveCollectRejectedInitiation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"error","message":"Invalid currency"}`))
	}))
	defer server.Close()

	p := testFlutterwave(server.URL)

	_, err := p.Collect(context.Background(), CollectRequest{
		Amount:    250_000,
		Currency:  "XYZ",
		Reference: "fund-102",
	})
	require.Error(t, err)

	// the failed initiation must not leave a pending collection behind
	assert.False(t, p.Complete("fund-102", CollectResult{Status: CollectSucceeded}))
}
