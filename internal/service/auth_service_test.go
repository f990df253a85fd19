package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/pkg/auth"
)

func createTestAuthService(t *testing.T, userRepo *MockUserRepository) *AuthService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err, "JWTService должен создаваться с непустым секретом")
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// ============================================================================
// Тесты для AuthService
// ============================================================================

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	authService := createTestAuthService(t, userRepo)

	userRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)

	// Act: email нормализуется к нижнему регистру
	user, token, err := authService.Register(RegisterInput{
		Email:    "  New@Example.com ",
		UserName: "newuser",
		Password: "password1",
	})

	// Assert
	require.NoError(t, err, "Регистрация с уникальным email должна быть успешной")
	require.NotNil(t, user)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, entity.RoleUser, user.Role, "Пустая роль должна становиться user")
	assert.NotEmpty(t, token, "Регистрация должна сразу выдавать токен")
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	authService := createTestAuthService(t, userRepo)

	existing := &entity.User{ID: 1, Email: "taken@example.com"}
	userRepo.On("GetByEmail", "taken@example.com").Return(existing, nil)

	// Act
	user, token, err := authService.Register(RegisterInput{
		Email:    "taken@example.com",
		UserName: "someone",
		Password: "password1",
	})

	// Assert
	assert.Error(t, err, "Повторная регистрация должна быть конфликтом")
	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	userRepo.AssertNotCalled(t, "Create")
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	authService := createTestAuthService(t, userRepo)

	// Act
	user, token, err := authService.Register(RegisterInput{
		Email:    "new@example.com",
		UserName: "newuser",
		Password: "password1",
		Role:     "superadmin",
	})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	userRepo.AssertNotCalled(t, "GetByEmail")
}

func TestAuthService_Register_CreateRace(t *testing.T) {
	// Arrange: две одновременные регистрации — проверка email проходит,
	// но уникальный индекс отдает конфликт на Create
	userRepo := new(MockUserRepository)
	authService := createTestAuthService(t, userRepo)

	userRepo.On("GetByEmail", "race@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(apperrors.ErrConflict)

	// Act
	user, token, err := authService.Register(RegisterInput{
		Email:    "race@example.com",
		UserName: "racer",
		Password: "password1",
	})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	authService := createTestAuthService(t, userRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &entity.User{ID: 5, Email: "alice@example.com", Password: string(hash), Role: entity.RoleUser}
	userRepo.On("GetByEmail", "alice@example.com").Return(user, nil)

	// Act
	loggedIn, token, err := authService.Login("Alice@Example.com", "password1")

	// Assert
	require.NoError(t, err, "Вход с верным паролем должен быть успешным")
	require.NotNil(t, loggedIn)
	assert.Equal(t, uint(5), loggedIn.ID)
	assert.NotEmpty(t, token)

	// Выданный токен должен проходить проверку и нести клеймы пользователя
	claims, err := mustParseToken(t, token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, entity.RoleUser, claims.Role)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	authService := createTestAuthService(t, userRepo)
	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	// Act
	user, token, err := authService.Login("ghost@example.com", "password1")

	// Assert
	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "Неизвестный email и неверный пароль должны давать одинаковую ошибку")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	authService := createTestAuthService(t, userRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &entity.User{ID: 5, Email: "alice@example.com", Password: string(hash)}
	userRepo.On("GetByEmail", "alice@example.com").Return(user, nil)

	// Act
	loggedIn, token, err := authService.Login("alice@example.com", "wrong-password")

	// Assert
	assert.Nil(t, loggedIn)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func mustParseToken(t *testing.T, token string) (*auth.JWTCustomClaims, error) {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)
	return jwtService.ParseToken(token)
}
