package api

import (
	"errors"
	"net/http"

	"github.com/VellaPay/VellaPay-Backend/api/apistrings"
	models "github.com/VellaPay/VellaPay-Backend/api/models"
	basemodels "github.com/VellaPay/VellaPay-Backend/models"
	"github.com/VellaPay/VellaPay-Backend/services/transaction"
	"github.com/VellaPay/VellaPay-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Transactions struct {
	server *Server
}

func (t Transactions) router(server *Server) {
	t.server = server

	serverGroupV1 := server.router.Group("/api/v1/transactions")
	serverGroupV1.GET(":id", AuthenticatedMiddleware(), t.getRequest)
	serverGroupV1.POST(":id/cancel", AuthenticatedMiddleware(), t.cancelRequest)
}

func (t *Transactions) getRequest(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequestID))
		return
	}

	request, err := t.server.transactions.GetRequest(ctx, activeUser.UserID, id)
	if err != nil {
		if errors.Is(err, transaction.ErrRequestNotFound) || errors.Is(err, transaction.ErrNotYourRequest) {
			ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.InvalidRequestID))
			return
		}
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Payment Request Fetched Successfully",
		models.ToPaymentRequestResponse(request)))
}

func (t *Transactions) cancelRequest(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequestID))
		return
	}

	request, err := t.server.transactions.Cancel(ctx, activeUser.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrRequestNotFound), errors.Is(err, transaction.ErrNotYourRequest):
			ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.InvalidRequestID))
		case errors.Is(err, transaction.ErrCancelTooLate):
			ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.RequestNotCancelable))
		default:
			ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		}
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Payment Request Cancelled",
		models.ToPaymentRequestResponse(request)))
}
