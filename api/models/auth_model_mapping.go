package models

import (
	user_service "github.com/VellaPay/VellaPay-Backend/services/user"
)

func (u UserResponse) ToUserResponse(user *user_service.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Status:      user.Status,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
