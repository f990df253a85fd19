package entity

import (
	"time"
)

// Константы статусов назначения (UserSurvey)
const (
	// UserSurveyStatusDraft — начальный статус после приглашения, ответы можно сохранять
	UserSurveyStatusDraft = "draft"
	// UserSurveyStatusSubmitted — опрос сдан, дальнейшее редактирование ответов запрещено
	UserSurveyStatusSubmitted = "submitted"
)

// UserSurvey представляет назначение: приглашение одного пользователя к одному опросу
// и его прогресс заполнения. Пара (user_id, survey_id) уникальна — пригласить
// пользователя к одному опросу дважды нельзя.
type UserSurvey struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_user_surveys_user_survey" json:"user_id"`
	SurveyID uint   `gorm:"not null;uniqueIndex:idx_user_surveys_user_survey" json:"survey_id"`
	Status   string `gorm:"size:20;not null;default:'draft'" json:"status"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Survey  *Survey  `gorm:"foreignKey:SurveyID" json:"survey,omitempty"`
	Answers []Answer `gorm:"foreignKey:UserSurveyID" json:"answers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (UserSurvey) TableName() string {
	return "user_surveys"
}

// IsSubmitted проверяет, сдано ли назначение
func (us *UserSurvey) IsSubmitted() bool {
	return us.Status == UserSurveyStatusSubmitted
}
