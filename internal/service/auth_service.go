package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/pkg/auth"
)

// AuthService предоставляет методы для регистрации и входа пользователей
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// RegisterInput содержит данные для регистрации
type RegisterInput struct {
	Email    string
	UserName string
	Password string
	Role     string // admin или user; пустое значение — user
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// Register регистрирует нового пользователя и сразу выдает токен доступа
func (s *AuthService) Register(input RegisterInput) (*entity.User, string, error) {
	// Нормализуем
	input.Email = normalizeEmail(input.Email)
	input.UserName = strings.TrimSpace(input.UserName)

	if input.Email == "" || input.UserName == "" || input.Password == "" {
		return nil, "", fmt.Errorf("%w: email, userName and password are required", apperrors.ErrValidation)
	}
	if input.Role == "" {
		input.Role = entity.RoleUser
	}
	if input.Role != entity.RoleUser && input.Role != entity.RoleAdmin {
		return nil, "", fmt.Errorf("%w: invalid role", apperrors.ErrValidation)
	}

	// Проверяем, существует ли пользователь с таким email
	_, err := s.userRepo.GetByEmail(input.Email)
	if err == nil {
		return nil, "", fmt.Errorf("%w: user already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check email existence: %w", err)
	}

	// Пароль будет захеширован хуком BeforeSave
	user := &entity.User{
		Email:    input.Email,
		UserName: input.UserName,
		Password: input.Password,
		Role:     input.Role,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Гонка двух одинаковых регистраций: уникальный индекс отдаст конфликт
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, "", fmt.Errorf("%w: user already exists", apperrors.ErrConflict)
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.Email, user.Role)
	if err != nil {
		log.Printf("[AuthService] Ошибка выпуска токена для нового пользователя email=%s: %v", user.Email, err)
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован пользователь ID=%d email=%s role=%s", user.ID, user.Email, user.Role)
	return user, token, nil
}

// Login проверяет учетные данные и выдает токен доступа
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Единый ответ для неизвестного email и неверного пароля
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.CheckPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// GetUserByEmail возвращает пользователя по email (для middleware и хендлеров)
func (s *AuthService) GetUserByEmail(email string) (*entity.User, error) {
	return s.userRepo.GetByEmail(normalizeEmail(email))
}

// normalizeEmail приводит email к каноническому виду для сравнения
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
