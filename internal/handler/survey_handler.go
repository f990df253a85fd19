package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/survey-api/internal/domain/repository"
	"github.com/yourusername/survey-api/internal/handler/dto"
	"github.com/yourusername/survey-api/internal/service"
)

// SurveyHandler обрабатывает админские запросы управления опросами
type SurveyHandler struct {
	surveyService     *service.SurveyService
	assignmentService *service.AssignmentService
}

// NewSurveyHandler создает новый обработчик опросов
func NewSurveyHandler(surveyService *service.SurveyService, assignmentService *service.AssignmentService) *SurveyHandler {
	return &SurveyHandler{
		surveyService:     surveyService,
		assignmentService: assignmentService,
	}
}

// SurveyQuestionRequest — вопрос в запросе создания/обновления опроса.
// При обновлении id != 0 означает существующий вопрос.
type SurveyQuestionRequest struct {
	ID   uint   `json:"id"`
	Text string `json:"text" binding:"required,min=1,max=500"`
}

// CreateSurveyRequest представляет запрос на создание опроса
type CreateSurveyRequest struct {
	Title       string                  `json:"title" binding:"required,min=3,max=255"`
	Status      string                  `json:"status" binding:"omitempty,oneof=draft published"`
	Questions   []SurveyQuestionRequest `json:"questions" binding:"omitempty,dive"`
	CategoryIDs []uint                  `json:"categoryIds" binding:"omitempty,dive,min=1"`
}

// UpdateSurveyRequest представляет частичное обновление опроса:
// отсутствующее поле не затрагивается, переданный набор вопросов или
// категорий заменяет прежний целиком
type UpdateSurveyRequest struct {
	Title       *string                  `json:"title" binding:"omitempty,min=3,max=255"`
	Status      string                   `json:"status" binding:"omitempty,oneof=draft published"`
	Questions   *[]SurveyQuestionRequest `json:"questions" binding:"omitempty,dive"`
	CategoryIDs *[]uint                  `json:"categoryIds" binding:"omitempty,dive,min=1"`
}

// InviteUserRequest представляет запрос на приглашение пользователя к опросу
type InviteUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CreateSurvey обрабатывает запрос на создание опроса.
// POST /v1/survey (только админ)
func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	var req CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Validation failed", err.Error()))
		return
	}

	survey, err := h.surveyService.CreateSurvey(service.CreateSurveyInput{
		Title:       req.Title,
		Status:      req.Status,
		Questions:   toQuestionInputs(req.Questions),
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewSurveyResponse(survey, true), "Survey created successfully"))
}

// UpdateSurvey обрабатывает запрос на обновление черновика опроса.
// PUT /v1/admin/survey/:id (только админ)
func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	surveyID := c.MustGet("surveyID").(uint)

	var req UpdateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Validation failed", err.Error()))
		return
	}

	input := service.UpdateSurveyInput{
		Title:       req.Title,
		Status:      req.Status,
		CategoryIDs: req.CategoryIDs,
	}
	if req.Questions != nil {
		questions := toQuestionInputs(*req.Questions)
		input.Questions = &questions
	}

	survey, err := h.surveyService.UpdateSurvey(surveyID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSurveyResponse(survey, true), "Survey updated successfully"))
}

// GetSurveyDetails возвращает опрос со статистикой приглашений.
// GET /v1/admin/survey/:id (только админ)
func (h *SurveyHandler) GetSurveyDetails(c *gin.Context) {
	surveyID := c.MustGet("surveyID").(uint)

	details, err := h.surveyService.GetSurveyDetails(surveyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSurveyDetailsResponse(details), ""))
}

// ListSurveys возвращает админский список опросов с фильтрами.
// GET /v1/admin/surveys?title=&categoryId=&status= (только админ)
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	filters := repository.SurveyFilters{
		Title:      c.Query("title"),
		Status:     c.Query("status"),
		CategoryID: parseUintQuery(c, "categoryId"),
	}

	surveys, total, err := h.surveyService.ListSurveys(filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSurveyListResponse(surveys, total), ""))
}

// InviteUser приглашает пользователя (по email) к опубликованному опросу.
// POST /v1/survey/:id/invite (только админ)
func (h *SurveyHandler) InviteUser(c *gin.Context) {
	surveyID := c.MustGet("surveyID").(uint)

	var req InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Validation failed", err.Error()))
		return
	}

	assignment, err := h.assignmentService.InviteUser(surveyID, req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(gin.H{
		"id":        assignment.ID,
		"surveyId":  assignment.SurveyID,
		"userId":    assignment.UserID,
		"status":    assignment.Status,
		"createdAt": assignment.CreatedAt,
	}, "User invited successfully"))
}

// ExportAnswers экспортирует ответы опроса в CSV или Excel формате.
// GET /v1/admin/survey/:id/export?format=csv|xlsx (только админ)
func (h *SurveyHandler) ExportAnswers(c *gin.Context) {
	surveyID := c.MustGet("surveyID").(uint)
	format := c.DefaultQuery("format", "csv")

	rows, err := h.assignmentService.ExportAnswers(surveyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("survey_%d_answers_%s", surveyID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, rows, filename)
	default:
		h.exportCSV(c, rows, filename)
	}
}

// exportCSV экспортирует ответы в CSV с правильным экранированием спецсимволов
func (h *SurveyHandler) exportCSV(c *gin.Context, rows []service.ExportRow, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Email", "Пользователь", "Статус", "Вопрос", "Ответ"})

	for _, r := range rows {
		writer.Write([]string{
			sanitizeForExcel(r.UserEmail),
			sanitizeForExcel(r.UserName),
			r.Status,
			sanitizeForExcel(r.Question),
			sanitizeForExcel(r.Answer),
		})
	}
}

// exportXLSX экспортирует ответы в Excel с использованием StreamWriter
func (h *SurveyHandler) exportXLSX(c *gin.Context, rows []service.ExportRow, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Ответы"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[SurveyHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to create Excel file", nil))
		return
	}

	headers := []interface{}{"Email", "Пользователь", "Статус", "Вопрос", "Ответ"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[SurveyHandler] Ошибка записи заголовков: %v", err)
	}

	for i, r := range rows {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{
			sanitizeForExcel(r.UserEmail),
			sanitizeForExcel(r.UserName),
			r.Status,
			sanitizeForExcel(r.Question),
			sanitizeForExcel(r.Answer),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[SurveyHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[SurveyHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[SurveyHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

func toQuestionInputs(questions []SurveyQuestionRequest) []service.SurveyQuestionInput {
	inputs := make([]service.SurveyQuestionInput, 0, len(questions))
	for _, q := range questions {
		inputs = append(inputs, service.SurveyQuestionInput{ID: q.ID, Text: q.Text})
	}
	return inputs
}

// parseUintQuery извлекает необязательный числовой query-параметр (0 — не задан)
func parseUintQuery(c *gin.Context, name string) uint {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(value)
}
