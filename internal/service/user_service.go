package service

import (
	"fmt"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
)

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) (*UserService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for UserService")
	}
	return &UserService{userRepo: userRepo}, nil
}

// ListNonAdmins возвращает всех пользователей с ролью user.
// Список используется админом при выборе, кого пригласить к опросу.
func (s *UserService) ListNonAdmins() ([]entity.User, error) {
	users, err := s.userRepo.ListByRole(entity.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to list non-admin users: %w", err)
	}
	return users, nil
}
