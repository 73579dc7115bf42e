package notification

import (
	"context"
	"fmt"

	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/VellaPay/VellaPay-Backend/services/transaction"
	user_service "github.com/VellaPay/VellaPay-Backend/services/user"
	"github.com/VellaPay/VellaPay-Backend/utils"
	"github.com/shopspring/decimal"
)

// ReceiptNotifier emails a payment receipt after a request succeeds.
// Delivery is best effort; a failed send is logged, never surfaced to the
// payment flow.
type ReceiptNotifier struct {
	users  *user_service.UserService
	config *utils.Config
	logger *logging.Logger
}

func NewReceiptNotifier(users *user_service.UserService, config *utils.Config, logger *logging.Logger) *ReceiptNotifier {
	return &ReceiptNotifier{
		users:  users,
		config: config,
		logger: logger,
	}
}

func (r *ReceiptNotifier) PaymentSucceeded(ctx context.Context, request *transaction.PaymentRequest, providerRef string) {
	dbUser, err := r.users.FetchUserByID(ctx, request.AccountID)
	if err != nil {
		r.logger.Error(fmt.Sprintf("receipt skipped, could not load account %v", request.AccountID), err)
		return
	}

	naira := decimal.NewFromInt(request.Amount).Div(decimal.NewFromInt(100))

	subject := fmt.Sprintf("Your payment of NGN %s was successful", naira.StringFixed(2))
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your payment of <b>NGN %s</b> for <b>%s</b> went through.</p>"+
			"<p>Reference: %s<br>Provider reference: %s</p>",
		dbUser.DisplayName, naira.StringFixed(2), request.ServiceCode,
		request.IdempotencyKey, providerRef,
	)

	email := EmailNotification{
		Message: body,
		Email:   dbUser.Email,
		Subject: subject,
		Config:  r.config,
	}
	if err := email.SendEmail(); err != nil {
		r.logger.Error(fmt.Sprintf("receipt email failed for request %v", request.ID), err)
	}
}
