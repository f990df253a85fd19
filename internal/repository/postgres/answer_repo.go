package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
)

// AnswerRepo реализует repository.AnswerRepository
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// GetByUserSurveyID возвращает все ответы назначения
func (r *AnswerRepo) GetByUserSurveyID(userSurveyID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.Where("user_survey_id = ?", userSurveyID).Order("question_id").Find(&answers).Error
	return answers, err
}

// GetQuestionIDsByUserSurveyID возвращает id вопросов, на которые уже есть ответ
func (r *AnswerRepo) GetQuestionIDsByUserSurveyID(userSurveyID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.Answer{}).
		Where("user_survey_id = ?", userSurveyID).
		Pluck("question_id", &ids).Error
	return ids, err
}

// ListForSurvey возвращает все ответы всех назначений опроса (для экспорта)
func (r *AnswerRepo) ListForSurvey(surveyID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.
		Joins("JOIN user_surveys ON user_surveys.id = answers.user_survey_id").
		Where("user_surveys.survey_id = ?", surveyID).
		Order("answers.user_survey_id, answers.question_id").
		Find(&answers).Error
	return answers, err
}
