package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// ============================================================================
// Моки репозиториев (дополняют моки из survey_service_test.go)
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(userName string) (*entity.User, error) {
	args := m.Called(userName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ListByRole(role string) ([]entity.User, error) {
	args := m.Called(role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

// MockAnswerRepository реализует repository.AnswerRepository
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) GetByUserSurveyID(userSurveyID uint) ([]entity.Answer, error) {
	args := m.Called(userSurveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Answer), args.Error(1)
}

func (m *MockAnswerRepository) GetQuestionIDsByUserSurveyID(userSurveyID uint) ([]uint, error) {
	args := m.Called(userSurveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockAnswerRepository) ListForSurvey(surveyID uint) ([]entity.Answer, error) {
	args := m.Called(surveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Answer), args.Error(1)
}

// ============================================================================
// createTestAssignmentService создаёт AssignmentService для тестирования
// (db == nil: транзакционные пути в юнит-тестах не выполняются)
// ============================================================================

type assignmentServiceMocks struct {
	userRepo       *MockUserRepository
	surveyRepo     *MockSurveyRepository
	userSurveyRepo *MockUserSurveyRepository
	answerRepo     *MockAnswerRepository
	questionRepo   *MockQuestionRepository
}

func createTestAssignmentService() (*AssignmentService, *assignmentServiceMocks) {
	mocks := &assignmentServiceMocks{
		userRepo:       new(MockUserRepository),
		surveyRepo:     new(MockSurveyRepository),
		userSurveyRepo: new(MockUserSurveyRepository),
		answerRepo:     new(MockAnswerRepository),
		questionRepo:   new(MockQuestionRepository),
	}

	surveyService := createTestSurveyService(mocks.surveyRepo, mocks.questionRepo, new(MockCategoryRepository), mocks.userSurveyRepo)

	assignmentService := &AssignmentService{
		userRepo:       mocks.userRepo,
		surveyRepo:     mocks.surveyRepo,
		userSurveyRepo: mocks.userSurveyRepo,
		answerRepo:     mocks.answerRepo,
		surveyService:  surveyService,
		emailService:   &NoopEmailService{},
		db:             nil,
	}
	return assignmentService, mocks
}

// ============================================================================
// Тесты для AssignmentService
// ============================================================================

func TestAssignmentService_InviteUser_Success(t *testing.T) {
	// Arrange
	assignmentService, mocks := createTestAssignmentService()

	user := &entity.User{ID: 5, Email: "alice@example.com", Role: entity.RoleUser}
	survey := &entity.Survey{ID: 1, Title: "Опрос", Status: entity.SurveyStatusPublished}

	mocks.userRepo.On("GetByEmail", "alice@example.com").Return(user, nil)
	mocks.surveyRepo.On("GetByID", uint(1)).Return(survey, nil)
	mocks.userSurveyRepo.On("Exists", uint(5), uint(1)).Return(false, nil)
	mocks.userSurveyRepo.On("Create", mock.AnythingOfType("*entity.UserSurvey")).Return(nil)

	// Act
	assignment, err := assignmentService.InviteUser(1, "Alice@Example.com")

	// Assert
	require.NoError(t, err, "Приглашение к опубликованному опросу должно быть успешным")
	assert.Equal(t, uint(5), assignment.UserID)
	assert.Equal(t, uint(1), assignment.SurveyID)
	assert.Equal(t, entity.UserSurveyStatusDraft, assignment.Status)
	mocks.userRepo.AssertExpectations(t)
	mocks.userSurveyRepo.AssertExpectations(t)
}

func TestAssignmentService_InviteUser_DraftSurvey(t *testing.T) {
	// Arrange
	assignmentService, mocks := createTestAssignmentService()

	user := &entity.User{ID: 5, Email: "alice@example.com"}
	draft := &entity.Survey{ID: 1, Title: "Черновик", Status: entity.SurveyStatusDraft}

	mocks.userRepo.On("GetByEmail", "alice@example.com").Return(user, nil)
	mocks.surveyRepo.On("GetByID", uint(1)).Return(draft, nil)

	// Act
	assignment, err := assignmentService.InviteUser(1, "alice@example.com")

	// Assert
	assert.Error(t, err, "Приглашение к черновику должно быть запрещено")
	assert.Nil(t, assignment)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Contains(t, err.Error(), "published")
	mocks.userSurveyRepo.AssertNotCalled(t, "Create")
}

func TestAssignmentService_InviteUser_UnknownEmail(t *testing.T) {
	// Arrange
	assignmentService, mocks := createTestAssignmentService()
	mocks.userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	// Act
	assignment, err := assignmentService.InviteUser(1, "ghost@example.com")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, assignment)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mocks.surveyRepo.AssertNotCalled(t, "GetByID")
}

func TestAssignmentService_InviteUser_Duplicate(t *testing.T) {
	// Arrange
	assignmentService, mocks := createTestAssignmentService()

	user := &entity.User{ID: 5, Email: "alice@example.com"}
	survey := &entity.Survey{ID: 1, Title: "Опрос", Status: entity.SurveyStatusPublished}

	mocks.userRepo.On("GetByEmail", "alice@example.com").Return(user, nil)
	mocks.surveyRepo.On("GetByID", uint(1)).Return(survey, nil)
	// Предварительная проверка обнаруживает существующее приглашение
	mocks.userSurveyRepo.On("Exists", uint(5), uint(1)).Return(true, nil)

	// Act
	assignment, err := assignmentService.InviteUser(1, "alice@example.com")

	// Assert
	assert.Error(t, err, "Повторное приглашение должно быть конфликтом")
	assert.Nil(t, assignment)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "already been invited")
	mocks.userSurveyRepo.AssertNotCalled(t, "Create")
}

func TestAssignmentService_InviteUser_DuplicateRace(t *testing.T) {
	// Arrange: два одновременных приглашения — проверка проходит у обоих,
	// но уникальный индекс (user_id, survey_id) отдает проигравшему конфликт
	assignmentService, mocks := createTestAssignmentService()

	user := &entity.User{ID: 5, Email: "alice@example.com"}
	survey := &entity.Survey{ID: 1, Title: "Опрос", Status: entity.SurveyStatusPublished}

	mocks.userRepo.On("GetByEmail", "alice@example.com").Return(user, nil)
	mocks.surveyRepo.On("GetByID", uint(1)).Return(survey, nil)
	mocks.userSurveyRepo.On("Exists", uint(5), uint(1)).Return(false, nil)
	mocks.userSurveyRepo.On("Create", mock.AnythingOfType("*entity.UserSurvey")).Return(apperrors.ErrConflict)

	// Act
	assignment, err := assignmentService.InviteUser(1, "alice@example.com")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, assignment)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "already been invited")
}

func TestAssignmentService_SubmitOrAnswer_AlreadySubmitted(t *testing.T) {
	// Arrange
	assignmentService, mocks := createTestAssignmentService()

	submitted := &entity.UserSurvey{ID: 7, UserID: 5, SurveyID: 1, Status: entity.UserSurveyStatusSubmitted}
	mocks.userSurveyRepo.On("GetByIDForUser", uint(7), uint(5)).Return(submitted, nil)

	// Act
	result, err := assignmentService.SubmitOrAnswer(7, 5, SubmitInput{
		Answers: []AnswerInput{{QuestionID: 10, Answer: "Ответ"}},
	})

	// Assert
	assert.Error(t, err, "Сданное назначение должно быть заморожено")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Contains(t, err.Error(), "cannot be edited anymore")
}

func TestEnsureAssignmentEditable(t *testing.T) {
	// Сданное назначение заморожено — эта же проверка выполняется повторно
	// внутри транзакции записи на заблокированной строке
	err := ensureAssignmentEditable(&entity.UserSurvey{ID: 7, Status: entity.UserSurveyStatusSubmitted})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Contains(t, err.Error(), "cannot be edited anymore")

	assert.NoError(t, ensureAssignmentEditable(&entity.UserSurvey{ID: 7, Status: entity.UserSurveyStatusDraft}))
}

func TestAssignmentService_SubmitOrAnswer_ForeignQuestion(t *testing.T) {
	// Arrange
	assignmentService, mocks := createTestAssignmentService()

	assignment := &entity.UserSurvey{ID: 7, UserID: 5, SurveyID: 1, Status: entity.UserSurveyStatusDraft}
	survey := &entity.Survey{ID: 1, Status: entity.SurveyStatusPublished}

	mocks.userSurveyRepo.On("GetByIDForUser", uint(7), uint(5)).Return(assignment, nil)
	mocks.surveyRepo.On("GetByID", uint(1)).Return(survey, nil)
	mocks.questionRepo.On("GetIDsBySurveyID", uint(1)).Return([]uint{10, 11}, nil)

	// Act: вопрос 99 не принадлежит опросу
	result, err := assignmentService.SubmitOrAnswer(7, 5, SubmitInput{
		Answers: []AnswerInput{
			{QuestionID: 10, Answer: "Ответ"},
			{QuestionID: 99, Answer: "Чужой"},
		},
	})

	// Assert
	assert.Error(t, err, "Чужой вопрос должен отклонять запрос целиком")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	mocks.answerRepo.AssertNotCalled(t, "GetQuestionIDsByUserSurveyID")
}

func TestAssignmentService_SubmitOrAnswer_IncompleteSubmit(t *testing.T) {
	// Arrange
	assignmentService, mocks := createTestAssignmentService()

	assignment := &entity.UserSurvey{ID: 7, UserID: 5, SurveyID: 1, Status: entity.UserSurveyStatusDraft}
	survey := &entity.Survey{ID: 1, Status: entity.SurveyStatusPublished}

	mocks.userSurveyRepo.On("GetByIDForUser", uint(7), uint(5)).Return(assignment, nil)
	mocks.surveyRepo.On("GetByID", uint(1)).Return(survey, nil)
	mocks.questionRepo.On("GetIDsBySurveyID", uint(1)).Return([]uint{10, 11, 12}, nil)
	// Ранее отвечен только вопрос 10
	mocks.answerRepo.On("GetQuestionIDsByUserSurveyID", uint(7)).Return([]uint{10}, nil)

	// Act: входящий ответ закрывает 11, но 12 остается без ответа
	result, err := assignmentService.SubmitOrAnswer(7, 5, SubmitInput{
		Status:  entity.UserSurveyStatusSubmitted,
		Answers: []AnswerInput{{QuestionID: 11, Answer: "Ответ"}},
	})

	// Assert
	assert.Error(t, err, "Сдача без ответов на все вопросы должна быть запрещена")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	assert.Contains(t, err.Error(), "all questions")
}

func TestAssignmentService_SubmitOrAnswer_NotOwnAssignment(t *testing.T) {
	// Arrange
	assignmentService, mocks := createTestAssignmentService()
	// Репозиторий скоупит выборку по пользователю: чужое назначение не находится
	mocks.userSurveyRepo.On("GetByIDForUser", uint(7), uint(6)).Return(nil, apperrors.ErrNotFound)

	// Act
	result, err := assignmentService.SubmitOrAnswer(7, 6, SubmitInput{})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAssignmentService_ListAssignments_InvalidStatusFilter(t *testing.T) {
	// Arrange
	assignmentService, _ := createTestAssignmentService()

	// Act
	assignments, total, err := assignmentService.ListAssignments(5, repository.AssignmentFilters{Status: "published"})

	// Assert
	assert.Error(t, err, "Статус published не относится к назначениям")
	assert.Nil(t, assignments)
	assert.Zero(t, total)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAssignmentService_ExportAnswers_BuildsRowGrid(t *testing.T) {
	// Arrange
	assignmentService, mocks := createTestAssignmentService()

	survey := &entity.Survey{
		ID:     1,
		Title:  "Опрос",
		Status: entity.SurveyStatusPublished,
		Questions: []entity.Question{
			{ID: 10, SurveyID: 1, Text: "Вопрос 1"},
			{ID: 11, SurveyID: 1, Text: "Вопрос 2"},
		},
	}
	assignments := []entity.UserSurvey{
		{ID: 7, UserID: 5, SurveyID: 1, Status: entity.UserSurveyStatusSubmitted,
			User: &entity.User{ID: 5, Email: "alice@example.com", UserName: "alice"}},
	}
	answers := []entity.Answer{
		{ID: 1, UserSurveyID: 7, QuestionID: 10, Answer: "Да"},
	}

	mocks.surveyRepo.On("GetWithQuestions", uint(1)).Return(survey, nil)
	mocks.userSurveyRepo.On("ListForSurvey", uint(1)).Return(assignments, nil)
	mocks.answerRepo.On("ListForSurvey", uint(1)).Return(answers, nil)

	// Act
	rows, err := assignmentService.ExportAnswers(1)

	// Assert
	require.NoError(t, err)
	require.Len(t, rows, 2, "По строке на каждую пару (назначение, вопрос)")
	assert.Equal(t, "alice@example.com", rows[0].UserEmail)
	assert.Equal(t, "Да", rows[0].Answer)
	assert.Equal(t, "Вопрос 2", rows[1].Question)
	assert.Empty(t, rows[1].Answer, "Вопрос без ответа — пустая ячейка")
}
