package repository

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
)

// SurveyFilters определяет фильтры для поиска опросов (админский список)
type SurveyFilters struct {
	Title      string // Подстрока названия, без учета регистра
	CategoryID uint   // Фильтр по категории (0 — без фильтра)
	Status     string // draft или published
}

// SurveyRepository определяет методы для работы с опросами
type SurveyRepository interface {
	GetByID(id uint) (*entity.Survey, error)
	// GetWithQuestions возвращает опрос вместе с его вопросами
	GetWithQuestions(id uint) (*entity.Survey, error)
	// GetWithDetails возвращает опрос с вопросами и активными категориями
	GetWithDetails(id uint) (*entity.Survey, error)
	// ListWithFilters возвращает опросы с категориями, новые первыми, и общее количество
	ListWithFilters(filters SurveyFilters) ([]entity.Survey, int64, error)
}
