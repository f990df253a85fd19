package dto

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
)

// UserResponse представляет пользователя в формате для ответа клиенту
type UserResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

// AuthResponse — ответ на регистрацию и вход
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// NewUserResponse создает DTO для пользователя
func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		UserName: user.UserName,
		Role:     user.Role,
	}
}

// NewAuthResponse создает DTO для ответа аутентификации
func NewAuthResponse(user *entity.User, token string) *AuthResponse {
	return &AuthResponse{
		Token: token,
		User:  NewUserResponse(user),
	}
}

// NewListUserResponse создает слайс DTO для списка пользователей
func NewListUserResponse(users []entity.User) []*UserResponse {
	list := make([]*UserResponse, len(users))
	for i, user := range users {
		list[i] = NewUserResponse(&user)
	}
	return list
}
