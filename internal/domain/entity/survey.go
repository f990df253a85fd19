package entity

import (
	"time"
)

// Константы статусов опроса
const (
	SurveyStatusDraft     = "draft"
	SurveyStatusPublished = "published"
)

// Survey представляет опрос (шаблон анкеты)
type Survey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Status     string     `gorm:"size:20;not null;default:'draft';index" json:"status"`
	Questions  []Question `gorm:"foreignKey:SurveyID" json:"questions,omitempty"`
	Categories []Category `gorm:"many2many:survey_categories" json:"categories,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Survey) TableName() string {
	return "surveys"
}

// IsDraft проверяет, находится ли опрос в черновике
func (s *Survey) IsDraft() bool {
	return s.Status == SurveyStatusDraft
}

// IsPublished проверяет, опубликован ли опрос
func (s *Survey) IsPublished() bool {
	return s.Status == SurveyStatusPublished
}
