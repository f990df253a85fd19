package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/internal/service"
)

func TestHttpStatusFor_WrappedSentinels(t *testing.T) {
	testCases := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "опубликованный опрос заморожен",
			err:             fmt.Errorf("%w: cannot update a published survey", apperrors.ErrStateConflict),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Cannot update a published survey",
		},
		{
			name:            "публикация без вопросов",
			err:             fmt.Errorf("%w: cannot publish a survey without questions", apperrors.ErrStateConflict),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Cannot publish a survey without questions",
		},
		{
			name:            "приглашение к черновику",
			err:             fmt.Errorf("%w: survey has not been published yet", apperrors.ErrForbidden),
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "Survey has not been published yet",
		},
		{
			name:            "сданное назначение",
			err:             fmt.Errorf("%w: this survey cannot be edited anymore", apperrors.ErrForbidden),
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "This survey cannot be edited anymore",
		},
		{
			name:            "повторная регистрация",
			err:             fmt.Errorf("%w: user already exists", apperrors.ErrConflict),
			expectedStatus:  http.StatusConflict,
			expectedMessage: "User already exists",
		},
		{
			name:            "повторное приглашение",
			err:             fmt.Errorf("%w: user has already been invited to this survey", apperrors.ErrConflict),
			expectedStatus:  http.StatusConflict,
			expectedMessage: "User has already been invited to this survey",
		},
		{
			name:            "опрос не найден",
			err:             fmt.Errorf("%w: survey was not found", apperrors.ErrNotFound),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Survey was not found",
		},
		{
			name:            "неверные учетные данные",
			err:             service.ErrInvalidCredentials,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid credentials",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			status, message := httpStatusFor(tc.err)

			// Assert
			assert.Equal(t, tc.expectedStatus, status)
			assert.Equal(t, tc.expectedMessage, message)
		})
	}
}

func TestHttpStatusFor_BareSentinelUsesFallback(t *testing.T) {
	// Act: сентинел без сообщения — клиенту уходит запасной текст
	status, message := httpStatusFor(apperrors.ErrNotFound)

	// Assert
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", message)
}

func TestHttpStatusFor_UnknownErrorIsInternal(t *testing.T) {
	// Act
	status, message := httpStatusFor(errors.New("connection refused"))

	// Assert
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Empty(t, message, "Детали внутренней ошибки не должны уходить клиенту")
}
