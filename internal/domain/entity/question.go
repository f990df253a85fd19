package entity

import (
	"time"
)

// Question представляет вопрос опроса. Вопрос всегда принадлежит ровно одному опросу.
type Question struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SurveyID uint   `gorm:"not null;index" json:"survey_id"`
	Text     string `gorm:"size:500;not null" json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}
