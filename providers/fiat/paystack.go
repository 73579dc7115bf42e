package fiat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/VellaPay/VellaPay-Backend/providers"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/VellaPay/VellaPay-Backend/utils"
)

type PaystackProvider struct {
	providers.BaseProvider
	config *FiatConfig
	hub    *completionHub
}

func NewPaystackProvider(logger *logging.Logger) *PaystackProvider {

	var c FiatConfig

	err := utils.LoadCustomConfig(utils.EnvPath, &c)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	return &PaystackProvider{
		BaseProvider: providers.BaseProvider{
			Name:    providers.Paystack,
			BaseURL: c.PaystackBaseUrl,
			APIKey:  c.PaystackKey,
			Client: &http.Client{
				Timeout: time.Second * 30,
			},
			Logger: logger,
		},
		config: &c,
		hub:    newCompletionHub(),
	}
}

func (p *PaystackProvider) Name() string {
	return p.BaseProvider.Name
}

// Collect initializes a charge and returns the checkout link the payer
// must visit. Awaiting the collection polls the verify endpoint as a
// fallback for missed webhooks. The reference is the caller's idempotency
// key; Paystack rejects a reused reference, so a retried Collect can never
// double-charge.
func (p *PaystackProvider) Collect(ctx context.Context, req CollectRequest) (*Collection, error) {
	pending := p.hub.register(req.Reference)

	data, err := p.initializeTransaction(req)
	if err != nil {
		p.hub.drop(req.Reference)
		return nil, err
	}

	return &Collection{
		Reference:   req.Reference,
		PaymentLink: data.AuthorizationURL,
		Await: func(ctx context.Context) (*CollectResult, error) {
			return p.await(ctx, req.Reference, pending)
		},
	}, nil
}

func (p *PaystackProvider) await(ctx context.Context, reference string, pending *pendingCollection) (*CollectResult, error) {
	defer p.hub.drop(reference)

	window := time.Duration(p.config.windowSeconds()) * time.Second
	poll := time.NewTicker(time.Duration(p.config.pollSeconds()) * time.Second)
	defer poll.Stop()
	deadline := time.NewTimer(window)
	defer deadline.Stop()

	for {
		select {
		case res := <-pending.done:
			return p.finish(res)

		case <-poll.C:
			data, err := p.verifyTransaction(reference)
			if err != nil {
				// verification poll failures are transient, the webhook
				// or a later poll can still resolve the charge
				p.Logger.Error("verify poll failed", err)
				continue
			}
			if res, terminal := resultFromPaystackStatus(data); terminal {
				pending.complete(res)
			}

		case <-deadline.C:
			return nil, &providers.CollectionError{
				Provider:  p.BaseProvider.Name,
				Message:   "collection window closed before payment completed",
				Retryable: false,
			}

		case <-ctx.Done():
			return nil, &providers.CollectionError{
				Provider:  p.BaseProvider.Name,
				Message:   ctx.Err().Error(),
				Retryable: true,
			}
		}
	}
}

// Complete resolves an in-flight collection from the Paystack webhook.
func (p *PaystackProvider) Complete(reference string, result CollectResult) bool {
	return p.hub.resolve(reference, result)
}

func (p *PaystackProvider) finish(res CollectResult) (*CollectResult, error) {
	if res.Status != CollectSucceeded {
		return nil, &providers.CollectionError{
			Provider:  p.BaseProvider.Name,
			Message:   res.Message,
			Retryable: false,
		}
	}
	return &res, nil
}

func resultFromPaystackStatus(data *VerifyTransactionData) (CollectResult, bool) {
	res := CollectResult{
		Reference:   data.Reference,
		ProviderRef: strconv.FormatInt(data.ID, 10),
		Message:     data.GatewayResponse,
	}
	switch data.Status {
	case "success":
		res.Status = CollectSucceeded
		return res, true
	case "failed":
		res.Status = CollectFailed
		return res, true
	case "abandoned":
		res.Status = CollectAbandoned
		return res, true
	}
	return res, false
}

func (p *PaystackProvider) initializeTransaction(req CollectRequest) (*InitializeTransactionData, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %v", err.Error())
	}

	base.Path += "transaction/initialize"

	request := InitializeTransactionRequest{
		Amount:    req.Amount,
		Email:     req.PayerEmail,
		Reference: req.Reference,
		Currency:  req.Currency,
	}
	if req.Method != "" {
		request.Channels = []string{req.Method}
	}

	resp, err := p.MakeRequest("POST", base.String(), request, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.Logger.Error("resp", resp)
		return nil, fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var response Response[InitializeTransactionData]
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("error decoding response body: %w", err)
	}

	return &response.Data, nil
}

func (p *PaystackProvider) verifyTransaction(reference string) (*VerifyTransactionData, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %v", err.Error())
	}

	base.Path += "transaction/verify/" + reference

	resp, err := p.MakeRequest("GET", base.String(), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.Logger.Error("resp", resp)
		return nil, fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var response Response[VerifyTransactionData]
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("error decoding response body: %w", err)
	}

	return &response.Data, nil
}
