package bills

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/VellaPay/VellaPay-Backend/providers"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/VellaPay/VellaPay-Backend/utils"
)

type VTPassProvider struct {
	providers.BaseProvider
	config *BillConfig
}

type BillConfig struct {
	VTPassBaseUrl string `mapstructure:"VT_BASE_URL"`
	VTPassKey     string `mapstructure:"VT_PASS_KEY"`
	VTPassPK      string `mapstructure:"VT_PASS_PK"`
	VTPassSK      string `mapstructure:"VT_PASS_SK"`
}

func NewBillProvider(logger *logging.Logger) *VTPassProvider {

	var c BillConfig

	err := utils.LoadCustomConfig(utils.EnvPath, &c)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	return &VTPassProvider{
		BaseProvider: providers.BaseProvider{
			Name:    providers.VTPass,
			BaseURL: c.VTPassBaseUrl,
			APIKey:  c.VTPassKey,
			Client: &http.Client{
				Timeout: time.Second * 30,
			},
			Logger: logger,
		},
		config: &c,
	}
}

func (p *VTPassProvider) authHeaders() map[string]string {
	return map[string]string{
		"public-key": p.config.VTPassPK,
		"secret-key": p.config.VTPassSK,
		"api-key":    p.config.VTPassKey,
	}
}

func (p *VTPassProvider) GetServiceCategories() ([]ServiceCategory, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %v", err.Error())
	}

	base.Path += "service-categories"

	resp, err := p.MakeRequest("GET", base.String(), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var newModel VTPassResponse[[]ServiceCategory]
	if err := p.decodeResponse(resp, &newModel); err != nil {
		return nil, err
	}

	return newModel.Content, nil
}

func (p *VTPassProvider) GetServiceIdentifiers(identifier string) ([]ServiceIdentifier, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %v", err.Error())
	}

	base.Path += "services"

	q := base.Query()
	q.Set("identifier", identifier)
	base.RawQuery = q.Encode()

	resp, err := p.MakeRequest("GET", base.String(), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var newModel VTPassResponse[[]ServiceIdentifier]
	if err := p.decodeResponse(resp, &newModel); err != nil {
		return nil, err
	}

	return newModel.Content, nil
}

func (p *VTPassProvider) GetServiceVariations(serviceID string) ([]Variation, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %v", err.Error())
	}

	base.Path += "service-variations"

	q := base.Query()
	q.Set("serviceID", serviceID)
	base.RawQuery = q.Encode()

	resp, err := p.MakeRequest("GET", base.String(), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var newModel VTPassResponse[ServiceContentWithVariation]
	if err := p.decodeResponse(resp, &newModel); err != nil {
		return nil, err
	}

	if newModel.Content.Variations == nil {
		newModel.Content.Variations = []Variation{}
	}
	return newModel.Content.Variations, nil
}

// VerifyCustomer resolves a biller reference (meter number, smartcard
// number) to the customer it belongs to before any money moves.
func (p *VTPassProvider) VerifyCustomer(request VerifyCustomerRequest) (*CustomerInfo, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %v", err.Error())
	}

	base.Path += "merchant-verify"

	resp, err := p.MakeRequest("POST", base.String(), request, p.authHeaders())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var newModel VTPassResponse[CustomerInfo]
	if err := p.decodeResponse(resp, &newModel); err != nil {
		return nil, err
	}

	if newModel.Code != TransactionProcessed || newModel.Content.CustomerName == "" {
		p.Logger.Info(fmt.Sprintf("verification rejected for %v: code %v", request.BillersCode, newModel.Code))
		return nil, providers.ErrVerificationFailed
	}

	return &newModel.Content, nil
}

// Pay submits a purchase to the aggregator. A non-success code comes back
// as a ProviderError classified by the code table in vt_pass_codes.go.
func (p *VTPassProvider) Pay(request PayRequest) (*Transaction, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %v", err.Error())
	}

	base.Path += "pay"

	resp, err := p.MakeRequest("POST", base.String(), request, p.authHeaders())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var newModel PayResponse
	if err := p.decodeResponse(resp, &newModel); err != nil {
		return nil, err
	}

	if newModel.Code != TransactionProcessed {
		return nil, &providers.ProviderError{
			Provider:  p.Name,
			Code:      newModel.Code,
			Message:   newModel.ResponseDescription,
			Retryable: codeRetryable(newModel.Code),
			InFlight:  newModel.Code == TransactionProcessing,
		}
	}

	if newModel.Content.Transaction.Status == "failed" {
		return nil, &providers.ProviderError{
			Provider:  p.Name,
			Code:      newModel.Code,
			Message:   "transaction reported failed by biller",
			Retryable: false,
		}
	}

	return &newModel.Content.Transaction, nil
}

// QueryTransaction requeries a submitted request by its request id. Used
// when Pay came back 099: the request is held by the aggregator and must be
// watched to its terminal state, never resent.
func (p *VTPassProvider) QueryTransaction(requestID string) (*Transaction, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %v", err.Error())
	}

	base.Path += "requery"

	body := map[string]string{"request_id": requestID}

	resp, err := p.MakeRequest("POST", base.String(), body, p.authHeaders())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var newModel PayResponse
	if err := p.decodeResponse(resp, &newModel); err != nil {
		return nil, err
	}

	if newModel.Code != TransactionProcessed {
		return nil, &providers.ProviderError{
			Provider:  p.Name,
			Code:      newModel.Code,
			Message:   newModel.ResponseDescription,
			Retryable: false,
			InFlight:  newModel.Code == TransactionProcessing,
		}
	}

	if newModel.Content.Transaction.Status == "failed" {
		return nil, &providers.ProviderError{
			Provider:  p.Name,
			Code:      newModel.Code,
			Message:   "transaction reported failed by biller",
			Retryable: false,
		}
	}

	if newModel.Content.Transaction.Status == "pending" {
		return nil, &providers.ProviderError{
			Provider: p.Name,
			Code:     TransactionProcessing,
			Message:  "transaction still pending with biller",
			InFlight: true,
		}
	}

	return &newModel.Content.Transaction, nil
}

func (p *VTPassProvider) decodeResponse(resp *http.Response, out interface{}) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		p.Logger.Error("failed to read response body", err)
		return fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	if resp.StatusCode != http.StatusOK {
		p.Logger.Error(fmt.Sprintf("response body: %v\nresponse statusCode: %v", string(bodyBytes), resp.StatusCode))
		return fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("error decoding response body: %w", err)
	}
	return nil
}
