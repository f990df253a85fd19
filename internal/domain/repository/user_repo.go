package repository

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(userName string) (*entity.User, error)
	// ListByRole возвращает пользователей с указанной ролью (id, email, userName)
	ListByRole(role string) ([]entity.User, error)
}
