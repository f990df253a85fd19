package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/survey-api/internal/domain/repository"
	"github.com/yourusername/survey-api/internal/handler/dto"
	"github.com/yourusername/survey-api/internal/service"
)

// CategoryHandler обрабатывает запросы справочника категорий
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler создает новый обработчик категорий
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest представляет запрос на создание категории
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"required,max=500"`
	Status      string `json:"status" binding:"omitempty,oneof=active archived"`
}

// CreateCategory обрабатывает запрос на создание категории.
// POST /v1/category (только админ)
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Validation failed", err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(req.Name, req.Description, req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewCategoryResponse(category), "Category created successfully"))
}

// ListCategories возвращает категории по фильтрам name и status.
// GET /v1/categories (только админ)
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	filters := repository.CategoryFilters{
		Name:   c.Query("name"),
		Status: c.Query("status"),
	}

	categories, err := h.categoryService.ListCategories(filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewListCategoryResponse(categories), ""))
}

// ArchiveCategory переводит категорию в статус archived.
// PATCH /v1/categories/:id/archive (только админ)
func (h *CategoryHandler) ArchiveCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	if err := h.categoryService.ArchiveCategory(categoryID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Category archived successfully"))
}
