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
	_ "github.com/lib/pq"
)

func (a *Auth) login(ctx *gin.Context) {
	user := new(models.UserLoginParams)

	if err := ctx.ShouldBindJSON(user); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dbUser, err := a.server.users.Authenticate(ctx, user.Email, user.Password)
	if err != nil {
		if errors.Is(err, user_service.ErrInvalidLogin) {
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.IncorrectEmailPass))
			return
		}
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	token, err := TokenController.CreateToken(utils.TokenObject{
		UserID:   dbUser.ID,
		Role:     models.USER,
		Verified: true,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
