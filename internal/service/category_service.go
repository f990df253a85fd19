package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// CategoryService предоставляет методы для работы со справочником категорий
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService создает новый сервис категорий
func NewCategoryService(categoryRepo repository.CategoryRepository) (*CategoryService, error) {
	if categoryRepo == nil {
		return nil, fmt.Errorf("CategoryRepository is required for CategoryService")
	}
	return &CategoryService{categoryRepo: categoryRepo}, nil
}

// CreateCategory создает новую категорию (статус по умолчанию — active)
func (s *CategoryService) CreateCategory(name, description, status string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if name == "" || description == "" {
		return nil, fmt.Errorf("%w: name and description are required", apperrors.ErrValidation)
	}
	if status == "" {
		status = entity.CategoryStatusActive
	}
	if status != entity.CategoryStatusActive && status != entity.CategoryStatusArchived {
		return nil, fmt.Errorf("%w: invalid category status", apperrors.ErrValidation)
	}

	category := &entity.Category{
		Name:        name,
		Description: description,
		Status:      status,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	log.Printf("[CategoryService] Создана категория ID=%d name=%q", category.ID, category.Name)
	return category, nil
}

// ListCategories возвращает категории с фильтрацией по имени и статусу
func (s *CategoryService) ListCategories(filters repository.CategoryFilters) ([]entity.Category, error) {
	if filters.Status != "" &&
		filters.Status != entity.CategoryStatusActive && filters.Status != entity.CategoryStatusArchived {
		return nil, fmt.Errorf("%w: invalid category status filter", apperrors.ErrValidation)
	}
	return s.categoryRepo.ListWithFilters(filters)
}

// ArchiveCategory переводит категорию в статус archived (мягкое удаление).
// Уже опубликованные связи survey_categories не трогаем: архивная категория
// лишь перестает отображаться в активных списках.
func (s *CategoryService) ArchiveCategory(id uint) error {
	if err := s.categoryRepo.Archive(id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category was not found", apperrors.ErrNotFound)
		}
		return err
	}
	log.Printf("[CategoryService] Категория ID=%d переведена в archived", id)
	return nil
}
