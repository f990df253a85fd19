package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/survey-api/internal/domain/repository"
	"github.com/yourusername/survey-api/internal/handler/dto"
	"github.com/yourusername/survey-api/internal/middleware"
	"github.com/yourusername/survey-api/internal/service"
)

// AssignmentHandler обрабатывает пользовательские запросы к назначенным опросам
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

// NewAssignmentHandler создает новый обработчик назначений
func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// AnswerRequest — один ответ в запросе сохранения/сдачи
type AnswerRequest struct {
	QuestionID uint   `json:"questionId" binding:"required,min=1"`
	Answer     string `json:"answer" binding:"required,min=1,max=2000"`
}

// SubmitSurveyRequest представляет запрос на сохранение ответов и/или сдачу опроса
type SubmitSurveyRequest struct {
	Status  string          `json:"status" binding:"omitempty,oneof=draft submitted"`
	Answers []AnswerRequest `json:"answers" binding:"omitempty,dive"`
}

// GetAssignedSurvey возвращает назначение пользователя по id опроса
// вместе с вопросами и уже записанными ответами.
// GET /v1/survey/:id (только роль user; :id — id опроса)
func (h *AssignmentHandler) GetAssignedSurvey(c *gin.Context) {
	surveyID := c.MustGet("surveyID").(uint)
	userID := middleware.CurrentUserID(c)

	assignment, err := h.assignmentService.GetAssignmentForUser(surveyID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAssignmentResponse(assignment), ""))
}

// ListAssignedSurveys возвращает назначения пользователя с фильтрами.
// GET /v1/surveys?title=&categoryId=&status= (только роль user)
func (h *AssignmentHandler) ListAssignedSurveys(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	filters := repository.AssignmentFilters{
		Title:      c.Query("title"),
		Status:     c.Query("status"),
		CategoryID: parseUintQuery(c, "categoryId"),
	}

	assignments, total, err := h.assignmentService.ListAssignments(userID, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAssignmentListResponse(assignments, total), ""))
}

// SubmitOrAnswer сохраняет ответы пользователя и при status=submitted сдает опрос.
// PUT /v1/survey/:id (только роль user; :id — id назначения)
func (h *AssignmentHandler) SubmitOrAnswer(c *gin.Context) {
	assignmentID := c.MustGet("surveyID").(uint)
	userID := middleware.CurrentUserID(c)

	var req SubmitSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Validation failed", err.Error()))
		return
	}

	answers := make([]service.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, service.AnswerInput{QuestionID: a.QuestionID, Answer: a.Answer})
	}

	assignment, err := h.assignmentService.SubmitOrAnswer(assignmentID, userID, service.SubmitInput{
		Status:  req.Status,
		Answers: answers,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	message := "Answers saved successfully"
	if assignment.IsSubmitted() {
		message = "Survey submitted successfully"
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAssignmentResponse(assignment), message))
}
