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

func (a *Auth) register(ctx *gin.Context) {
	var user models.RegisterUserParams

	err := ctx.ShouldBindJSON(&user)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newUser, err := a.server.users.CreateUser(ctx, user_service.CreateUserParams{
		DisplayName: user.DisplayName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Password:    user.Password,
	})
	if err != nil {
		if errors.Is(err, user_service.ErrUserAlreadyExists) {
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.UserAlreadyExists))
			return
		}
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	token, err := TokenController.CreateToken(utils.TokenObject{
		UserID:   newUser.ID,
		Role:     models.USER,
		Verified: true,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	userWT := models.UserWithToken{
		User:  models.UserResponse{}.ToUserResponse(newUser),
		Token: token,
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("account created successfully", userWT))
}
