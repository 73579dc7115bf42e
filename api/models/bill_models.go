package models

import (
	"github.com/VellaPay/VellaPay-Backend/services/gateway"
)

type VerifyCustomerParams struct {
	ServiceCode string `json:"service_code" binding:"required"`
	Recipient   string `json:"recipient" binding:"required"`
}

type PayBillParams struct {
	ServiceCode   string `json:"service_code" binding:"required"`
	VariationCode string `json:"variation_code"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Recipient     string `json:"recipient" binding:"required"`
	Phone         string `json:"phone"`
	Verify        bool   `json:"verify"`
}

type VerifyCustomerResponse struct {
	CustomerName string `json:"customer_name"`
	Address      string `json:"address,omitempty"`
}

func ToVerifyCustomerResponse(v *gateway.Verification) *VerifyCustomerResponse {
	return &VerifyCustomerResponse{
		CustomerName: v.Name,
		Address:      v.Address,
	}
}
