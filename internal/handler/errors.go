package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/survey-api/internal/handler/dto"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/internal/service"
)

// handleServiceError транслирует ошибку сервиса в HTTP-ответ с конвертом.
// Неизвестные ошибки логируются и отдаются как 500 без деталей.
func handleServiceError(c *gin.Context, err error) {
	status, message := httpStatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[Handler] Внутренняя ошибка на %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, dto.NewErrorResponse("Internal server error", nil))
		return
	}
	c.JSON(status, dto.NewErrorResponse(message, nil))
}

func httpStatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, userMessage(err, apperrors.ErrValidation, "Validation failed")
	case errors.Is(err, apperrors.ErrStateConflict):
		return http.StatusBadRequest, userMessage(err, apperrors.ErrStateConflict, "Invalid state")
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, userMessage(err, apperrors.ErrUnauthorized, "Unauthorized")
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, userMessage(err, apperrors.ErrForbidden, "Access denied")
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, userMessage(err, apperrors.ErrNotFound, "Not found")
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, userMessage(err, apperrors.ErrConflict, "Conflict")
	default:
		return http.StatusInternalServerError, ""
	}
}

// userMessage извлекает человекочитаемую часть из обернутой сентинел-ошибки.
// Сервисы оборачивают сентинелы как "<sentinel>: <сообщение>"; клиенту уходит
// только сообщение с заглавной буквы.
func userMessage(err error, sentinel error, fallback string) string {
	prefix := sentinel.Error() + ": "
	text := err.Error()
	if idx := strings.Index(text, prefix); idx >= 0 {
		if msg := text[idx+len(prefix):]; msg != "" {
			return capitalize(msg)
		}
	}
	return fallback
}

func capitalize(s string) string {
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
