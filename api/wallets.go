package api

import (
	"net/http"

	"github.com/VellaPay/VellaPay-Backend/api/apistrings"
	models "github.com/VellaPay/VellaPay-Backend/api/models"
	basemodels "github.com/VellaPay/VellaPay-Backend/models"
	"github.com/VellaPay/VellaPay-Backend/services/transaction"
	"github.com/VellaPay/VellaPay-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Wallet struct {
	server *Server
}

func (w Wallet) router(server *Server) {
	w.server = server

	serverGroupV1 := server.router.Group("/api/v1/wallets")
	serverGroupV1.GET("", AuthenticatedMiddleware(), w.getUserWallet)
	serverGroupV1.GET("transactions", AuthenticatedMiddleware(), w.getTransactions)
	serverGroupV1.POST("fund", AuthenticatedMiddleware(), w.fundWallet)
}

func (w *Wallet) getUserWallet(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	balance, err := w.server.wallets.Balance(ctx, activeUser.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	available, err := w.server.wallets.Available(ctx, activeUser.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("User Wallet Fetched Successfully",
		models.ToWalletResponse(activeUser.UserID, balance, available)))
}

func (w *Wallet) getTransactions(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	entries, err := w.server.wallets.Transactions(ctx, activeUser.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Wallet Transactions Fetched Successfully",
		models.ToTransactionCollectionResponse(entries)))
}

func (w *Wallet) fundWallet(ctx *gin.Context) {
	var request models.FundWalletParams

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidFundingInput))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	payerEmail := request.PayerEmail
	if payerEmail == "" {
		dbUser, err := w.server.users.FetchUserByID(ctx, activeUser.UserID)
		if err != nil {
			ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
			return
		}
		payerEmail = dbUser.Email
	}

	paymentRequest, err := w.server.transactions.Fund(ctx, transaction.FundInput{
		AccountID:  activeUser.UserID,
		Provider:   request.Provider,
		Amount:     request.Amount,
		PayerEmail: payerEmail,
		Method:     request.Method,
	})
	if err != nil {
		if paymentRequest != nil {
			ctx.JSON(http.StatusBadGateway, basemodels.NewError(paymentRequest.FailureCause))
			return
		}
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(err.Error()))
		return
	}

	// the payer completes the charge on the provider checkout page; the
	// wallet is credited once the provider confirms via webhook or poll
	ctx.JSON(http.StatusAccepted, basemodels.NewSuccess("Funding Initiated",
		models.ToPaymentRequestResponse(paymentRequest)))
}
