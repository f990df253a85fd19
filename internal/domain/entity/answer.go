package entity

import (
	"time"
)

// Answer представляет ответ пользователя на один вопрос в рамках одного назначения.
// Пара (question_id, user_survey_id) уникальна: не более одного ответа на вопрос.
type Answer struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserSurveyID uint   `gorm:"not null;uniqueIndex:idx_answers_question_assignment" json:"user_survey_id"`
	QuestionID   uint   `gorm:"not null;uniqueIndex:idx_answers_question_assignment" json:"question_id"`
	Answer       string `gorm:"size:2000;not null" json:"answer"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}
