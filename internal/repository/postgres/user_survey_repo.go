package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// UserSurveyRepo реализует repository.UserSurveyRepository
type UserSurveyRepo struct {
	db *gorm.DB
}

// NewUserSurveyRepo создает новый репозиторий назначений
func NewUserSurveyRepo(db *gorm.DB) *UserSurveyRepo {
	return &UserSurveyRepo{db: db}
}

// Create создает назначение. Гонка двух одновременных приглашений разрешается
// уникальным индексом (user_id, survey_id): проигравший получает ErrConflict.
func (r *UserSurveyRepo) Create(userSurvey *entity.UserSurvey) error {
	if err := r.db.Create(userSurvey).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetByIDForUser возвращает назначение по id, но только если оно принадлежит пользователю
func (r *UserSurveyRepo) GetByIDForUser(id, userID uint) (*entity.UserSurvey, error) {
	var userSurvey entity.UserSurvey
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&userSurvey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &userSurvey, nil
}

// GetBySurveyForUser возвращает назначение пользователя на опрос
// вместе с вопросами опроса и уже записанными ответами
func (r *UserSurveyRepo) GetBySurveyForUser(surveyID, userID uint) (*entity.UserSurvey, error) {
	var userSurvey entity.UserSurvey
	err := r.db.
		Preload("Survey.Questions").
		Preload("Answers").
		Where("survey_id = ? AND user_id = ?", surveyID, userID).
		First(&userSurvey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &userSurvey, nil
}

// Exists проверяет наличие назначения для пары (userID, surveyID)
func (r *UserSurveyRepo) Exists(userID, surveyID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.UserSurvey{}).
		Where("user_id = ? AND survey_id = ?", userID, surveyID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForSurvey возвращает все назначения опроса вместе с пользователями
func (r *UserSurveyRepo) ListForSurvey(surveyID uint) ([]entity.UserSurvey, error) {
	var userSurveys []entity.UserSurvey
	err := r.db.
		Preload("User").
		Where("survey_id = ?", surveyID).
		Order("id").
		Find(&userSurveys).Error
	return userSurveys, err
}

// ListForUser возвращает назначения пользователя с опросами и общее количество, новые первыми
func (r *UserSurveyRepo) ListForUser(userID uint, filters repository.AssignmentFilters) ([]entity.UserSurvey, int64, error) {
	var userSurveys []entity.UserSurvey
	var total int64

	query := r.db.Model(&entity.UserSurvey{}).
		Joins("JOIN surveys ON surveys.id = user_surveys.survey_id").
		Where("user_surveys.user_id = ?", userID)

	if filters.Status != "" {
		query = query.Where("user_surveys.status = ?", filters.Status)
	}
	if filters.Title != "" {
		query = query.Where("surveys.title ILIKE ?", "%"+filters.Title+"%")
	}
	if filters.CategoryID != 0 {
		query = query.
			Joins("JOIN survey_categories sc ON sc.survey_id = surveys.id").
			Where("sc.category_id = ?", filters.CategoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Survey.Categories", "status = ?", entity.CategoryStatusActive).
		Order("user_surveys.created_at DESC").
		Find(&userSurveys).Error
	if err != nil {
		return nil, 0, err
	}

	return userSurveys, total, nil
}
