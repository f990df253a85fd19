package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// GetBySurveyID возвращает все вопросы опроса
func (r *QuestionRepo) GetBySurveyID(surveyID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("survey_id = ?", surveyID).Order("id").Find(&questions).Error
	return questions, err
}

// GetIDsBySurveyID возвращает только идентификаторы вопросов опроса
func (r *QuestionRepo) GetIDsBySurveyID(surveyID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.Question{}).
		Where("survey_id = ?", surveyID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}
