package api

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	basemodels "github.com/VellaPay/VellaPay-Backend/models"
	"github.com/VellaPay/VellaPay-Backend/providers"
	"github.com/VellaPay/VellaPay-Backend/providers/fiat"
	"github.com/VellaPay/VellaPay-Backend/utils"
	"github.com/gin-gonic/gin"
)

// Webhooks resolve in-flight collections ahead of the poll fallback. A
// delivery for a reference nothing is waiting on is acknowledged and
// dropped; the providers retry undelivered events on their own schedule.
type Webhooks struct {
	server *Server
	config fiat.FiatConfig
}

// collector resolves a registered provider to its collection face.
func (wh *Webhooks) collector(name string) (fiat.Collector, bool) {
	p, ok := wh.server.provider.GetProvider(name)
	if !ok {
		return nil, false
	}
	c, ok := p.(fiat.Collector)
	return c, ok
}

func (wh Webhooks) router(server *Server) {
	wh.server = server
	if err := utils.LoadCustomConfig(utils.EnvPath, &wh.config); err != nil {
		server.logger.Error("could not load collection provider config for webhooks", err)
	}

	serverGroup := server.router.Group("/webhooks")
	serverGroup.POST("paystack", wh.paystack)
	serverGroup.POST("flutterwave", wh.flutterwave)
}

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		ID        int64  `json:"id"`
		Message   string `json:"gateway_response"`
	} `json:"data"`
}

func (wh *Webhooks) paystack(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError("unreadable payload"))
		return
	}

	// Paystack signs the raw body with the secret key
	mac := hmac.New(sha512.New, []byte(wh.config.PaystackKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(ctx.GetHeader("x-paystack-signature"))) {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError("invalid signature"))
		return
	}

	var event paystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError("unreadable payload"))
		return
	}

	result := fiat.CollectResult{
		Reference: event.Data.Reference,
		Message:   event.Data.Message,
	}
	switch event.Event {
	case "charge.success":
		result.Status = fiat.CollectSucceeded
	default:
		result.Status = fiat.CollectFailed
	}

	collector, ok := wh.collector(providers.Paystack)
	if !ok {
		ctx.JSON(http.StatusServiceUnavailable, basemodels.NewError("collection provider unavailable"))
		return
	}
	if !collector.Complete(event.Data.Reference, result) {
		wh.server.logger.Info("paystack webhook for unknown or settled reference", event.Data.Reference)
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type flutterwaveEvent struct {
	Event string `json:"event"`
	Data  struct {
		TxRef  string `json:"tx_ref"`
		Status string `json:"status"`
	} `json:"data"`
}

func (wh *Webhooks) flutterwave(ctx *gin.Context) {
	// Flutterwave sends back the configured hash verbatim; compare in
	// constant time like the Paystack signature check
	if subtle.ConstantTimeCompare([]byte(ctx.GetHeader("verif-hash")), []byte(wh.config.FlutterwaveWebhookHash)) != 1 {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError("invalid signature"))
		return
	}

	var event flutterwaveEvent
	if err := ctx.ShouldBindJSON(&event); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError("unreadable payload"))
		return
	}

	result := fiat.CollectResult{Reference: event.Data.TxRef}
	if event.Event == "charge.completed" && event.Data.Status == "successful" {
		result.Status = fiat.CollectSucceeded
	} else {
		result.Status = fiat.CollectFailed
	}

	collector, ok := wh.collector(providers.Flutterwave)
	if !ok {
		ctx.JSON(http.StatusServiceUnavailable, basemodels.NewError("collection provider unavailable"))
		return
	}
	if !collector.Complete(event.Data.TxRef, result) {
		wh.server.logger.Info("flutterwave webhook for unknown or settled reference", event.Data.TxRef)
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
