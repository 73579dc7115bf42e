package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/VellaPay/VellaPay-Backend/providers"
	"github.com/VellaPay/VellaPay-Backend/providers/fiat"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	providers.BaseProvider
	mu        sync.Mutex
	completed map[string]fiat.CollectResult
}

func newFakeCollector(name string) *fakeCollector {
	return &fakeCollector{
		BaseProvider: providers.BaseProvider{Name: name},
		completed:    make(map[string]fiat.CollectResult),
	}
}

func (f *fakeCollector) Name() string { return f.BaseProvider.Name }

func (f *fakeCollector) Collect(ctx context.Context, req fiat.CollectRequest) (*fiat.Collection, error) {
	return nil, nil
}

func (f *fakeCollector) Complete(reference string, result fiat.CollectResult) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed[reference] = result
	return true
}

func (f *fakeCollector) resultFor(reference string) (fiat.CollectResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.completed[reference]
	return res, ok
}

func webhookFixture(t *testing.T) (*gin.Engine, *fakeCollector, *fakeCollector) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	paystack := newFakeCollector(providers.Paystack)
	flutterwave := newFakeCollector(providers.Flutterwave)

	registry := providers.NewProviderService()
	registry.AddProvider(paystack)
	registry.AddProvider(flutterwave)

	srv := &Server{
		logger:   logging.NewTestLogger(),
		provider: registry,
	}
	wh := &Webhooks{
		server: srv,
		config: fiat.FiatConfig{
			PaystackKey:            "sk_test_secret",
			FlutterwaveWebhookHash: "topsecret-hash",
		},
	}

	r := gin.New()
	r.POST("/webhooks/paystack", wh.paystack)
	r.POST("/webhooks/flutterwave", wh.flutterwave)
	return r, paystack, flutterwave
}

func paystackSignature(secret, body string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackWebhookResolvesCharge(t *testing.T) {
	r, paystack, _ := webhookFixture(t)

	body := `{"event":"charge.success","data":{"reference":"fund-001","status":"success","id":4099260516,"gateway_response":"Successful"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(body))
	req.Header.Set("x-paystack-signature", paystackSignature("sk_test_secret", body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	res, ok := paystack.resultFor("fund-001")
	require.True(t, ok)
	assert.Equal(t, fiat.CollectSucceeded, res.Status)
}

func TestPaystackWebhookRejectsBadSignature(t *testing.T) {
	r, paystack, _ := webhookFixture(t)

	body := `{"event":"charge.success","data":{"reference":"fund-002"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(body))
	req.Header.Set("x-paystack-signature", paystackSignature("wrong-secret", body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	_, ok := paystack.resultFor("fund-002")
	assert.False(t, ok)
}

func TestFlutterwaveWebhookResolvesCharge(t *testing.T) {
	r, _, flutterwave := webhookFixture(t)

	body := `{"event":"charge.completed","data":{"tx_ref":"fund-101","status":"successful"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/flutterwave", strings.NewReader(body))
	req.Header.Set("verif-hash", "topsecret-hash")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	res, ok := flutterwave.resultFor("fund-101")
	require.True(t, ok)
	assert.Equal(t, fiat.CollectSucceeded, res.Status)
}

func TestFlutterwaveWebhookRejectsBadHash(t *testing.T) {
	r, _, flutterwave := webhookFixture(t)

	body := `{"event":"charge.completed","data":{"tx_ref":"fund-102","status":"successful"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/flutterwave", strings.NewReader(body))
	req.Header.Set("verif-hash", "guessed-hash")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	_, ok := flutterwave.resultFor("fund-102")
	assert.False(t, ok)
}
