package repository

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	GetBySurveyID(surveyID uint) ([]entity.Question, error)
	// GetIDsBySurveyID возвращает только идентификаторы вопросов опроса
	GetIDsBySurveyID(surveyID uint) ([]uint, error)
}
