package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	"github.com/yourusername/survey-api/internal/handler/dto"
	"github.com/yourusername/survey-api/pkg/auth"
)

// Ключи контекста Gin, устанавливаемые AuthMiddleware
const (
	ContextUserIDKey = "userID"
	ContextEmailKey  = "userEmail"
	ContextRoleKey   = "userRole"
)

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   repository.UserRepository
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// RequireAuth проверяет bearer-токен и кладет идентичность пользователя в контекст.
// Формат заголовка: "Authorization: Bearer <token>", схема без учета регистра.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header not found")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abortUnauthorized(c, "Bearer token malformed")
			return
		}

		claims, err := m.jwtService.ParseToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		// Токен несет только email и роль; id пользователя поднимаем из БД.
		// Это же отсекает токены удаленных пользователей.
		user, err := m.userRepo.GetByEmail(claims.Email)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextEmailKey, user.Email)
		c.Set(ContextRoleKey, user.Role)

		c.Next()
	}
}

// AdminOnly пропускает только пользователей с ролью admin.
// Должен применяться ПОСЛЕ RequireAuth.
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return requireRole(entity.RoleAdmin)
}

// UserOnly пропускает только пользователей с ролью user.
// Должен применяться ПОСЛЕ RequireAuth.
func (m *AuthMiddleware) UserOnly() gin.HandlerFunc {
	return requireRole(entity.RoleUser)
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentRole, exists := c.Get(ContextRoleKey)
		if !exists {
			abortUnauthorized(c, "Authorization header not found")
			return
		}
		if currentRole.(string) != role {
			c.JSON(http.StatusForbidden, dto.NewErrorResponse("Access denied", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(message, nil))
	c.Abort()
}

// CurrentUserID возвращает id аутентифицированного пользователя из контекста
func CurrentUserID(c *gin.Context) uint {
	return c.MustGet(ContextUserIDKey).(uint)
}
