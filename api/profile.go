package api

import (
	"errors"
	"net/http"

	"github.com/VellaPay/VellaPay-Backend/api/apistrings"
	models "github.com/VellaPay/VellaPay-Backend/api/models"
	basemodels "github.com/VellaPay/VellaPay-Backend/models"
	user_service "github.com/VellaPay/VellaPay-Backend/services/user"
	"github.com/VellaPay/VellaPay-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Profile struct {
	server *Server
}

func (p Profile) router(server *Server) {
	p.server = server

	serverGroupV1 := server.router.Group("/api/v1/profile")
	serverGroupV1.GET("", AuthenticatedMiddleware(), p.getProfile)
	serverGroupV1.PATCH("phone", AuthenticatedMiddleware(), p.updatePhone)
}

func (p *Profile) getProfile(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	dbUser, err := p.server.users.FetchUserByID(ctx, activeUser.UserID)
	if err != nil {
		if errors.Is(err, user_service.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.UserNotFound))
			return
		}
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Profile Fetched Successfully",
		models.UserResponse{}.ToUserResponse(dbUser)))
}

func (p *Profile) updatePhone(ctx *gin.Context) {
	var request models.UpdatePhoneParams

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidPhoneInput))
		return
	}

	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	dbUser, err := p.server.users.UpdateUserPhoneNumber(ctx, activeUser.UserID, request.PhoneNumber)
	if err != nil {
		if errors.Is(err, user_service.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.UserNotFound))
			return
		}
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Phone Number Updated Successfully",
		models.UserResponse{}.ToUserResponse(dbUser)))
}
