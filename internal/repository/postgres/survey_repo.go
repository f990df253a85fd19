package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// SurveyRepo реализует repository.SurveyRepository
type SurveyRepo struct {
	db *gorm.DB
}

// NewSurveyRepo создает новый репозиторий опросов
func NewSurveyRepo(db *gorm.DB) *SurveyRepo {
	return &SurveyRepo{db: db}
}

// GetByID возвращает опрос по ID
func (r *SurveyRepo) GetByID(id uint) (*entity.Survey, error) {
	var survey entity.Survey
	err := r.db.First(&survey, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &survey, nil
}

// GetWithQuestions возвращает опрос вместе с вопросами
func (r *SurveyRepo) GetWithQuestions(id uint) (*entity.Survey, error) {
	var survey entity.Survey
	err := r.db.Preload("Questions").First(&survey, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &survey, nil
}

// GetWithDetails возвращает опрос с вопросами и активными категориями
func (r *SurveyRepo) GetWithDetails(id uint) (*entity.Survey, error) {
	var survey entity.Survey
	err := r.db.
		Preload("Questions").
		Preload("Categories", "status = ?", entity.CategoryStatusActive).
		First(&survey, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &survey, nil
}

// ListWithFilters возвращает опросы с категориями и общее количество, новые первыми
func (r *SurveyRepo) ListWithFilters(filters repository.SurveyFilters) ([]entity.Survey, int64, error) {
	var surveys []entity.Survey
	var total int64

	query := r.db.Model(&entity.Survey{})

	if filters.Title != "" {
		query = query.Where("title ILIKE ?", "%"+filters.Title+"%")
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.CategoryID != 0 {
		// Фильтр по категории через join-таблицу
		query = query.
			Joins("JOIN survey_categories sc ON sc.survey_id = surveys.id").
			Where("sc.category_id = ?", filters.CategoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Categories", "status = ?", entity.CategoryStatusActive).
		Order("surveys.created_at DESC").
		Find(&surveys).Error
	if err != nil {
		return nil, 0, err
	}

	return surveys, total, nil
}
