package dto

import (
	"time"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/service"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// CategoryResponse представляет категорию в формате для ответа клиенту
type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// SurveyResponse представляет опрос в формате для ответа клиенту
type SurveyResponse struct {
	ID         uint               `json:"id"`
	Title      string             `json:"title"`
	Status     string             `json:"status"`
	Questions  []QuestionResponse `json:"questions,omitempty"`
	Categories []CategoryResponse `json:"categories,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// SurveyDetailsResponse — админское представление опроса со статистикой приглашений
type SurveyDetailsResponse struct {
	SurveyResponse
	QuestionsCount int      `json:"questionsCount"`
	InvitedCount   int      `json:"invitedCount"`
	InvitedEmails  []string `json:"invitedEmails"`
}

// SurveyListResponse — список опросов с общим количеством
type SurveyListResponse struct {
	Surveys []*SurveyResponse `json:"surveys"`
	Total   int64             `json:"total"`
}

// AnsweredQuestionResponse — вопрос опроса вместе с записанным ответом пользователя
type AnsweredQuestionResponse struct {
	ID     uint   `json:"id"`
	Text   string `json:"text"`
	Answer string `json:"answer,omitempty"`
}

// AssignmentResponse — назначение глазами пользователя: опрос + его прогресс
type AssignmentResponse struct {
	ID        uint                       `json:"id"`
	SurveyID  uint                       `json:"survey_id"`
	Title     string                     `json:"title"`
	Status    string                     `json:"status"`
	Questions []AnsweredQuestionResponse `json:"questions,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// AssignmentListItem — элемент списка назначений пользователя (без вопросов)
type AssignmentListItem struct {
	ID         uint               `json:"id"`
	SurveyID   uint               `json:"survey_id"`
	Title      string             `json:"title"`
	Status     string             `json:"status"`
	Categories []CategoryResponse `json:"categories,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// AssignmentListResponse — список назначений пользователя с общим количеством
type AssignmentListResponse struct {
	Surveys []*AssignmentListItem `json:"surveys"`
	Total   int64                 `json:"total"`
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		ID:   q.ID,
		Text: q.Text,
	}
}

// NewCategoryResponse создает DTO для категории
func NewCategoryResponse(category *entity.Category) *CategoryResponse {
	if category == nil {
		return nil
	}
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Status:      category.Status,
	}
}

// NewListCategoryResponse создает слайс DTO для списка категорий
func NewListCategoryResponse(categories []entity.Category) []*CategoryResponse {
	list := make([]*CategoryResponse, len(categories))
	for i, category := range categories {
		list[i] = NewCategoryResponse(&category)
	}
	return list
}

// NewSurveyResponse создает DTO для опроса
func NewSurveyResponse(survey *entity.Survey, includeQuestions bool) *SurveyResponse {
	if survey == nil {
		return nil
	}

	var questionsDTO []QuestionResponse
	if includeQuestions {
		questionsDTO = make([]QuestionResponse, len(survey.Questions))
		for i, q := range survey.Questions {
			questionsDTO[i] = NewQuestionResponse(&q)
		}
	}

	categoriesDTO := make([]CategoryResponse, len(survey.Categories))
	for i, category := range survey.Categories {
		categoriesDTO[i] = CategoryResponse{
			ID:   category.ID,
			Name: category.Name,
		}
	}

	return &SurveyResponse{
		ID:         survey.ID,
		Title:      survey.Title,
		Status:     survey.Status,
		Questions:  questionsDTO,
		Categories: categoriesDTO,
		CreatedAt:  survey.CreatedAt,
		UpdatedAt:  survey.UpdatedAt,
	}
}

// NewSurveyDetailsResponse создает админское DTO опроса со статистикой приглашений
func NewSurveyDetailsResponse(details *service.SurveyDetails) *SurveyDetailsResponse {
	if details == nil || details.Survey == nil {
		return nil
	}
	return &SurveyDetailsResponse{
		SurveyResponse: *NewSurveyResponse(details.Survey, true),
		QuestionsCount: details.QuestionsCount,
		InvitedCount:   details.InvitedCount,
		InvitedEmails:  details.InvitedEmails,
	}
}

// NewSurveyListResponse создает DTO для админского списка опросов
func NewSurveyListResponse(surveys []entity.Survey, total int64) *SurveyListResponse {
	list := make([]*SurveyResponse, len(surveys))
	for i, survey := range surveys {
		list[i] = NewSurveyResponse(&survey, false)
	}
	return &SurveyListResponse{Surveys: list, Total: total}
}

// NewAssignmentResponse создает DTO назначения с вопросами и ответами пользователя.
// Ответы сопоставляются вопросам по question_id; вопрос без ответа отдается с пустым полем.
func NewAssignmentResponse(assignment *entity.UserSurvey) *AssignmentResponse {
	if assignment == nil {
		return nil
	}

	answerByQuestion := make(map[uint]string, len(assignment.Answers))
	for _, a := range assignment.Answers {
		answerByQuestion[a.QuestionID] = a.Answer
	}

	resp := &AssignmentResponse{
		ID:        assignment.ID,
		SurveyID:  assignment.SurveyID,
		Status:    assignment.Status,
		CreatedAt: assignment.CreatedAt,
		UpdatedAt: assignment.UpdatedAt,
	}

	if assignment.Survey != nil {
		resp.Title = assignment.Survey.Title
		resp.Questions = make([]AnsweredQuestionResponse, len(assignment.Survey.Questions))
		for i, q := range assignment.Survey.Questions {
			resp.Questions[i] = AnsweredQuestionResponse{
				ID:     q.ID,
				Text:   q.Text,
				Answer: answerByQuestion[q.ID],
			}
		}
	}

	return resp
}

// NewAssignmentListResponse создает DTO для списка назначений пользователя
func NewAssignmentListResponse(assignments []entity.UserSurvey, total int64) *AssignmentListResponse {
	list := make([]*AssignmentListItem, len(assignments))
	for i, assignment := range assignments {
		item := &AssignmentListItem{
			ID:        assignment.ID,
			SurveyID:  assignment.SurveyID,
			Status:    assignment.Status,
			CreatedAt: assignment.CreatedAt,
		}
		if assignment.Survey != nil {
			item.Title = assignment.Survey.Title
			item.Categories = make([]CategoryResponse, len(assignment.Survey.Categories))
			for j, category := range assignment.Survey.Categories {
				item.Categories[j] = CategoryResponse{ID: category.ID, Name: category.Name}
			}
		}
		list[i] = item
	}
	return &AssignmentListResponse{Surveys: list, Total: total}
}
