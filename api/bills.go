package api

import (
	"errors"
	"net/http"

	"github.com/VellaPay/VellaPay-Backend/api/apistrings"
	models "github.com/VellaPay/VellaPay-Backend/api/models"
	basemodels "github.com/VellaPay/VellaPay-Backend/models"
	"github.com/VellaPay/VellaPay-Backend/providers"
	"github.com/VellaPay/VellaPay-Backend/services/transaction"
	"github.com/VellaPay/VellaPay-Backend/services/wallet"
	"github.com/VellaPay/VellaPay-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Bills struct {
	server *Server
}

func (b Bills) router(server *Server) {
	b.server = server

	serverGroupV1 := server.router.Group("/api/v1/bills")
	serverGroupV1.GET("categories", AuthenticatedMiddleware(), b.getCategories)
	serverGroupV1.GET("services", AuthenticatedMiddleware(), b.getServices)
	serverGroupV1.GET("service-variation", AuthenticatedMiddleware(), b.getServiceVariations)
	serverGroupV1.POST("verify", AuthenticatedMiddleware(), b.verifyCustomer)
	serverGroupV1.POST("pay", AuthenticatedMiddleware(), b.payBill)
}

func (b *Bills) getCategories(ctx *gin.Context) {
	categories, err := b.server.catalog.Categories(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("fetched bill categories", categories))
}

func (b *Bills) getServices(ctx *gin.Context) {
	identifier := ctx.Query("identifier")

	services, err := b.server.catalog.Services(ctx, identifier)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("fetched bill services", services))
}

func (b *Bills) getServiceVariations(ctx *gin.Context) {
	serviceID := ctx.Query("serviceID")

	variations, err := b.server.catalog.Variations(ctx, serviceID)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("fetched service variations", variations))
}

func (b *Bills) verifyCustomer(ctx *gin.Context) {
	var request models.VerifyCustomerParams

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidVerifyInput))
		return
	}

	verification, err := b.server.transactions.VerifyRecipient(ctx, request.ServiceCode, request.Recipient)
	if err != nil {
		if errors.Is(err, providers.ErrVerificationFailed) {
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.VerifyFailed))
			return
		}
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("customer verified", models.ToVerifyCustomerResponse(verification)))
}

func (b *Bills) payBill(ctx *gin.Context) {
	var request models.PayBillParams

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidBillInput))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	paymentRequest, err := b.server.transactions.Spend(ctx, transaction.SpendInput{
		AccountID:           activeUser.UserID,
		ServiceCode:         request.ServiceCode,
		VariationCode:       request.VariationCode,
		Amount:              request.Amount,
		RecipientRef:        request.Recipient,
		Phone:               request.Phone,
		RequireVerification: request.Verify,
	})
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InsufficientBalance))
			return
		}
		if paymentRequest != nil {
			ctx.JSON(http.StatusBadGateway, basemodels.NewError(paymentRequest.FailureCause))
			return
		}
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Bill Payment Successful",
		models.ToPaymentRequestResponse(paymentRequest)))
}
