package bills

import (
	"time"

	"github.com/shopspring/decimal"
)

type VTPassResponse[T any] struct {
	ResponseDescription string `json:"response_description"`
	Code                string `json:"code"`
	Content             T      `json:"content"`
}

type ServiceCategory struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

type ServiceIdentifier struct {
	ServiceID      string          `json:"serviceID"`
	Name           string          `json:"name"`
	MinimiumAmount decimal.Decimal `json:"minimium_amount"`
	MaximumAmount  decimal.Decimal `json:"maximum_amount"`
	ConvinienceFee string          `json:"convinience_fee"`
	ProductType    string          `json:"product_type"`
	Image          string          `json:"image"`
}

type ServiceContentWithVariation struct {
	ServiceName    string      `json:"ServiceName"`
	ServiceID      string      `json:"serviceID"`
	ConvinienceFee string      `json:"convinience_fee"`
	Variations     []Variation `json:"varations"`
}

type Variation struct {
	VariationCode   string `json:"variation_code"`
	Name            string `json:"name"`
	VariationAmount string `json:"variation_amount"`
	FixedPrice      string `json:"fixedPrice"`
}

type CustomerInfo struct {
	CustomerName   string `json:"Customer_Name"`
	Address        string `json:"Address"`
	Status         string `json:"Status"`
	DueDate        string `json:"Due_Date"`
	CustomerNumber int64  `json:"Customer_Number"`
	CustomerType   string `json:"Customer_Type"`
}

type VerifyCustomerRequest struct {
	ServiceID   string `json:"serviceID"`
	BillersCode string `json:"billersCode"`
	Type        string `json:"type,omitempty"`
}

// PayRequest covers airtime, data, TV and electricity purchases. RequestID
// doubles as the idempotency key on the aggregator side, so a retried call
// with the same id can never charge twice.
type PayRequest struct {
	RequestID     string          `json:"request_id"`
	ServiceID     string          `json:"serviceID"`
	BillersCode   string          `json:"billersCode,omitempty"`
	VariationCode string          `json:"variation_code,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Phone         string          `json:"phone"`
}

type PayContent struct {
	Transaction Transaction `json:"transactions"`
}

type PayResponse struct {
	Code                string     `json:"code"`
	Content             PayContent `json:"content"`
	ResponseDescription string     `json:"response_description"`
	RequestID           string     `json:"requestId"`
	Amount              string     `json:"amount"`
	TransactionDate     time.Time  `json:"transaction_date"`
	PurchasedCode       string     `json:"purchased_code"`
}

type Transaction struct {
	Status        string  `json:"status"`
	ProductName   string  `json:"product_name"`
	UniqueElement string  `json:"unique_element"`
	UnitPrice     int64   `json:"unit_price"`
	Quantity      int64   `json:"quantity"`
	Channel       string  `json:"channel"`
	Commission    int64   `json:"commission"`
	TotalAmount   float64 `json:"total_amount"`
	Type          string  `json:"type"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	TransactionID string  `json:"transactionId"`
}
