package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// CategoryRepo реализует repository.CategoryRepository
type CategoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo создает новый репозиторий категорий
func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create создает новую категорию
func (r *CategoryRepo) Create(category *entity.Category) error {
	return r.db.Create(category).Error
}

// GetByID возвращает категорию по ID
func (r *CategoryRepo) GetByID(id uint) (*entity.Category, error) {
	var category entity.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetByIDs возвращает категории по списку идентификаторов
func (r *CategoryRepo) GetByIDs(ids []uint) ([]entity.Category, error) {
	var categories []entity.Category
	if len(ids) == 0 {
		return categories, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}

// ListWithFilters возвращает категории по фильтрам
func (r *CategoryRepo) ListWithFilters(filters repository.CategoryFilters) ([]entity.Category, error) {
	var categories []entity.Category

	query := r.db.Model(&entity.Category{})
	if filters.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Name+"%")
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	err := query.Order("id").Find(&categories).Error
	return categories, err
}

// Archive переводит категорию в статус archived (запись сохраняется)
func (r *CategoryRepo) Archive(id uint) error {
	result := r.db.Model(&entity.Category{}).
		Where("id = ?", id).
		Update("status", entity.CategoryStatusArchived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
