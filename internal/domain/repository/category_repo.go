package repository

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
)

// CategoryFilters определяет фильтры для поиска категорий
type CategoryFilters struct {
	Name   string // Подстрока имени, без учета регистра
	Status string // active или archived
}

// CategoryRepository определяет методы для работы с категориями
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id uint) (*entity.Category, error)
	// GetByIDs возвращает категории по списку идентификаторов
	GetByIDs(ids []uint) ([]entity.Category, error)
	ListWithFilters(filters CategoryFilters) ([]entity.Category, error)
	// Archive переводит категорию в статус archived (мягкое удаление)
	Archive(id uint) error
}
