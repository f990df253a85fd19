package entity

import (
	"time"
)

// Константы статусов категории
const (
	CategoryStatusActive   = "active"
	CategoryStatusArchived = "archived"
)

// Category представляет категорию — метку для группировки опросов.
// Удаление категории мягкое: статус переводится в archived, запись сохраняется.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500;not null;default:''" json:"description"`
	Status      string `gorm:"size:20;not null;default:'active';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}

// IsArchived проверяет, архивирована ли категория
func (c *Category) IsArchived() bool {
	return c.Status == CategoryStatusArchived
}
