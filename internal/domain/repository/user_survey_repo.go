package repository

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
)

// AssignmentFilters определяет фильтры для списка назначений пользователя
type AssignmentFilters struct {
	Title      string // Подстрока названия опроса, без учета регистра
	CategoryID uint   // Фильтр по категории опроса (0 — без фильтра)
	Status     string // draft или submitted
}

// UserSurveyRepository определяет методы для работы с назначениями (приглашениями)
type UserSurveyRepository interface {
	Create(userSurvey *entity.UserSurvey) error
	// GetByIDForUser возвращает назначение по id, но только если оно принадлежит пользователю
	GetByIDForUser(id, userID uint) (*entity.UserSurvey, error)
	// GetBySurveyForUser возвращает назначение пользователя на опрос вместе
	// с вопросами опроса и уже записанными ответами
	GetBySurveyForUser(surveyID, userID uint) (*entity.UserSurvey, error)
	// Exists проверяет наличие назначения для пары (userID, surveyID)
	Exists(userID, surveyID uint) (bool, error)
	// ListForSurvey возвращает все назначения опроса вместе с пользователями
	ListForSurvey(surveyID uint) ([]entity.UserSurvey, error)
	// ListForUser возвращает назначения пользователя с опросами, новые первыми, и общее количество
	ListForUser(userID uint, filters AssignmentFilters) ([]entity.UserSurvey, int64, error)
}
