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
	"github.com/shopspring/decimal"
)

type FlutterwaveProvider struct {
	providers.BaseProvider
	config *FiatConfig
	hub    *completionHub
}

func NewFlutterwaveProvider(logger *logging.Logger) *FlutterwaveProvider {

	var c FiatConfig

	err := utils.LoadCustomConfig(utils.EnvPath, &c)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	return &FlutterwaveProvider{
		BaseProvider: providers.BaseProvider{
			Name:    providers.Flutterwave,
			BaseURL: c.FlutterwaveBaseUrl,
			APIKey:  c.FlutterwaveKey,
			Client: &http.Client{
				Timeout: time.Second * 30,
			},
			Logger: logger,
		},
		config: &c,
		hub:    newCompletionHub(),
	}
}

func (p *FlutterwaveProvider) Name() string {
	return p.BaseProvider.Name
}

// Collect mirrors the Paystack flow against the Flutterwave API. Amounts
// cross the wire in major units, so the kobo amount is converted with
// decimal arithmetic rather than floats.
func (p *FlutterwaveProvider) Collect(ctx context.Context, req CollectRequest) (*Collection, error) {
	pending := p.hub.register(req.Reference)

	data, err := p.initiatePayment(req)
	if err != nil {
		p.hub.drop(req.Reference)
		return nil, err
	}

	return &Collection{
		Reference:   req.Reference,
		PaymentLink: data.Link,
		Await: func(ctx context.Context) (*CollectResult, error) {
			return p.await(ctx, req.Reference, pending)
		},
	}, nil
}

func (p *FlutterwaveProvider) await(ctx context.Context, reference string, pending *pendingCollection) (*CollectResult, error) {
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
			data, err := p.verifyByReference(reference)
			if err != nil {
				p.Logger.Error("verify poll failed", err)
				continue
			}
			if res, terminal := resultFromFlwStatus(data); terminal {
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

// Complete resolves an in-flight collection from the Flutterwave webhook.
func (p *FlutterwaveProvider) Complete(reference string, result CollectResult) bool {
	return p.hub.resolve(reference, result)
}

func (p *FlutterwaveProvider) finish(res CollectResult) (*CollectResult, error) {
	if res.Status != CollectSucceeded {
		return nil, &providers.CollectionError{
			Provider:  p.BaseProvider.Name,
			Message:   res.Message,
			Retryable: false,
		}
	}
	return &res, nil
}

func resultFromFlwStatus(data *FlwTransactionData) (CollectResult, bool) {
	res := CollectResult{
		Reference:   data.TxRef,
		ProviderRef: strconv.FormatInt(data.ID, 10),
		Message:     data.ProcessorResponse,
	}
	switch data.Status {
	case "successful":
		res.Status = CollectSucceeded
		return res, true
	case "failed":
		res.Status = CollectFailed
		return res, true
	}
	return res, false
}

func (p *FlutterwaveProvider) initiatePayment(req CollectRequest) (*FlwInitiatePaymentData, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %v", err.Error())
	}

	base.Path += "payments"

	request := FlwInitiatePaymentRequest{
		TxRef:    req.Reference,
		Amount:   decimal.NewFromInt(req.Amount).Div(decimal.NewFromInt(100)),
		Currency: req.Currency,
		Customer: FlwCustomer{Email: req.PayerEmail},
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

	var response FlwResponse[FlwInitiatePaymentData]
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("error decoding response body: %w", err)
	}

	if response.Status != "success" {
		return nil, &providers.CollectionError{
			Provider:  p.BaseProvider.Name,
			Message:   response.Message,
			Retryable: false,
		}
	}

	return &response.Data, nil
}

func (p *FlutterwaveProvider) verifyByReference(reference string) (*FlwTransactionData, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %v", err.Error())
	}

	base.Path += "transactions/verify_by_reference"

	q := base.Query()
	q.Set("tx_ref", reference)
	base.RawQuery = q.Encode()

	resp, err := p.MakeRequest("GET", base.String(), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.Logger.Error("resp", resp)
		return nil, fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var response FlwResponse[FlwTransactionData]
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("error decoding response body: %w", err)
	}

	return &response.Data, nil
}
