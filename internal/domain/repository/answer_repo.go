package repository

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
)

// AnswerRepository определяет методы для работы с ответами
type AnswerRepository interface {
	GetByUserSurveyID(userSurveyID uint) ([]entity.Answer, error)
	// GetQuestionIDsByUserSurveyID возвращает id вопросов, на которые уже есть ответ
	GetQuestionIDsByUserSurveyID(userSurveyID uint) ([]uint, error)
	// ListForSurvey возвращает все ответы всех назначений опроса (для экспорта)
	ListForSurvey(surveyID uint) ([]entity.Answer, error)
}
