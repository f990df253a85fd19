package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// AnswerInput — один ответ в запросе сохранения/сдачи
type AnswerInput struct {
	QuestionID uint
	Answer     string
}

// SubmitInput содержит ответы и целевой статус назначения.
// Status == "draft" сохраняет ответы без сдачи, "submitted" сдает опрос.
type SubmitInput struct {
	Status  string
	Answers []AnswerInput
}

// ExportRow — строка экспорта ответов: одно назначение × один вопрос
type ExportRow struct {
	UserEmail string
	UserName  string
	Status    string
	Question  string
	Answer    string
}

// AssignmentService управляет назначениями: приглашениями пользователей
// к опросам и записью их ответов
type AssignmentService struct {
	userRepo       repository.UserRepository
	surveyRepo     repository.SurveyRepository
	userSurveyRepo repository.UserSurveyRepository
	answerRepo     repository.AnswerRepository
	surveyService  *SurveyService
	emailService   EmailService
	db             *gorm.DB
}

// NewAssignmentService создает новый сервис назначений
func NewAssignmentService(
	userRepo repository.UserRepository,
	surveyRepo repository.SurveyRepository,
	userSurveyRepo repository.UserSurveyRepository,
	answerRepo repository.AnswerRepository,
	surveyService *SurveyService,
	emailService EmailService,
	db *gorm.DB,
) (*AssignmentService, error) {
	if userRepo == nil || surveyRepo == nil || userSurveyRepo == nil || answerRepo == nil {
		return nil, fmt.Errorf("all repositories are required for AssignmentService")
	}
	if surveyService == nil {
		return nil, fmt.Errorf("SurveyService is required for AssignmentService")
	}
	if emailService == nil {
		return nil, fmt.Errorf("EmailService is required for AssignmentService")
	}
	if db == nil {
		return nil, fmt.Errorf("db handle is required for AssignmentService")
	}
	return &AssignmentService{
		userRepo:       userRepo,
		surveyRepo:     surveyRepo,
		userSurveyRepo: userSurveyRepo,
		answerRepo:     answerRepo,
		surveyService:  surveyService,
		emailService:   emailService,
		db:             db,
	}, nil
}

// InviteUser приглашает пользователя (по email) к опубликованному опросу.
// Приглашать можно только к опубликованному опросу; повторное приглашение
// той же пары (пользователь, опрос) — конфликт. Гонку двух одновременных
// приглашений разрешает уникальный индекс: проигравший получает конфликт.
func (s *AssignmentService) InviteUser(surveyID uint, email string) (*entity.UserSurvey, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with this email was not found", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	survey, err := s.surveyRepo.GetByID(surveyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: survey was not found", apperrors.ErrNotFound)
		}
		return nil, err
	}

	if !survey.IsPublished() {
		return nil, fmt.Errorf("%w: survey has not been published yet", apperrors.ErrForbidden)
	}

	// Предварительная проверка: конфликт виден до попытки вставки
	alreadyInvited, err := s.userSurveyRepo.Exists(user.ID, survey.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing invitation: %w", err)
	}
	if alreadyInvited {
		return nil, fmt.Errorf("%w: user has already been invited to this survey", apperrors.ErrConflict)
	}

	assignment := &entity.UserSurvey{
		UserID:   user.ID,
		SurveyID: survey.ID,
		Status:   entity.UserSurveyStatusDraft,
	}

	if err := s.userSurveyRepo.Create(assignment); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: user has already been invited to this survey", apperrors.ErrConflict)
		}
		return nil, err
	}

	log.Printf("[AssignmentService] Пользователь ID=%d (email=%s) приглашен к опросу ID=%d (назначение ID=%d)",
		user.ID, user.Email, survey.ID, assignment.ID)

	// Письмо — best-effort: неудача отправки не отменяет приглашение
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.emailService.SendSurveyInvitation(ctx, user.Email, survey.Title); err != nil {
		log.Printf("[AssignmentService] Не удалось отправить письмо-приглашение email=%s survey=%d: %v",
			user.Email, survey.ID, err)
	}

	return assignment, nil
}

// GetAssignmentForUser возвращает назначение пользователя на опрос (по id опроса)
// вместе с вопросами и уже записанными ответами.
// Опрос, к которому пользователь не приглашен, для него не существует.
func (s *AssignmentService) GetAssignmentForUser(surveyID, userID uint) (*entity.UserSurvey, error) {
	assignment, err := s.userSurveyRepo.GetBySurveyForUser(surveyID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: survey was not found", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return assignment, nil
}

// ListAssignments возвращает назначения пользователя с фильтрами
func (s *AssignmentService) ListAssignments(userID uint, filters repository.AssignmentFilters) ([]entity.UserSurvey, int64, error) {
	if filters.Status != "" &&
		filters.Status != entity.UserSurveyStatusDraft && filters.Status != entity.UserSurveyStatusSubmitted {
		return nil, 0, fmt.Errorf("%w: invalid assignment status filter", apperrors.ErrValidation)
	}
	return s.userSurveyRepo.ListForUser(userID, filters)
}

// SubmitOrAnswer сохраняет ответы пользователя и, при статусе submitted, сдает опрос.
// Правила:
//   - назначение должно принадлежать пользователю и не быть сданным;
//   - ответ на чужой вопрос отклоняет запрос целиком, ничего не сохраняется;
//   - ответы применяются как upsert по паре (question_id, user_survey_id);
//   - сдать можно только когда объединение прежних и входящих ответов
//     покрывает все вопросы опроса;
//   - upsert-ы и смена статуса выполняются в одной транзакции; статус
//     перепроверяется внутри нее на заблокированной строке назначения.
func (s *AssignmentService) SubmitOrAnswer(assignmentID, userID uint, input SubmitInput) (*entity.UserSurvey, error) {
	assignment, err := s.userSurveyRepo.GetByIDForUser(assignmentID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: survey was not found", apperrors.ErrNotFound)
		}
		return nil, err
	}

	if err := ensureAssignmentEditable(assignment); err != nil {
		return nil, err
	}

	targetStatus := input.Status
	if targetStatus == "" {
		targetStatus = entity.UserSurveyStatusDraft
	}
	if targetStatus != entity.UserSurveyStatusDraft && targetStatus != entity.UserSurveyStatusSubmitted {
		return nil, fmt.Errorf("%w: invalid assignment status", apperrors.ErrValidation)
	}

	survey, err := s.surveyRepo.GetByID(assignment.SurveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load survey for assignment: %w", err)
	}

	questionIDs, err := s.surveyService.GetQuestionIDs(survey)
	if err != nil {
		return nil, fmt.Errorf("failed to load survey questions: %w", err)
	}
	validQuestions := make(map[uint]bool, len(questionIDs))
	for _, id := range questionIDs {
		validQuestions[id] = true
	}

	// Валидация входных ответов до любой записи
	seen := make(map[uint]bool, len(input.Answers))
	for _, a := range input.Answers {
		if !validQuestions[a.QuestionID] {
			return nil, fmt.Errorf("%w: question %d does not belong to this survey", apperrors.ErrValidation, a.QuestionID)
		}
		if seen[a.QuestionID] {
			return nil, fmt.Errorf("%w: duplicate answer for question %d", apperrors.ErrValidation, a.QuestionID)
		}
		seen[a.QuestionID] = true
		if strings.TrimSpace(a.Answer) == "" {
			return nil, fmt.Errorf("%w: answer for question %d cannot be empty", apperrors.ErrValidation, a.QuestionID)
		}
	}

	// Проверка полноты перед сдачей: прежние ответы + входящие покрывают все вопросы
	if targetStatus == entity.UserSurveyStatusSubmitted {
		answeredIDs, err := s.answerRepo.GetQuestionIDsByUserSurveyID(assignment.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing answers: %w", err)
		}
		covered := make(map[uint]bool, len(answeredIDs)+len(input.Answers))
		for _, id := range answeredIDs {
			covered[id] = true
		}
		for _, a := range input.Answers {
			covered[a.QuestionID] = true
		}
		for _, id := range questionIDs {
			if !covered[id] {
				return nil, fmt.Errorf("%w: cannot submit the survey until all questions are answered", apperrors.ErrStateConflict)
			}
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Блокируем строку назначения и перепроверяем статус: параллельная
		// сдача между первой проверкой и транзакцией не пропустит поздний upsert
		var locked entity.UserSurvey
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", assignment.ID).First(&locked).Error; err != nil {
			return fmt.Errorf("failed to lock assignment: %w", err)
		}
		if err := ensureAssignmentEditable(&locked); err != nil {
			return err
		}

		if len(input.Answers) > 0 {
			answers := make([]entity.Answer, 0, len(input.Answers))
			for _, a := range input.Answers {
				answers = append(answers, entity.Answer{
					UserSurveyID: assignment.ID,
					QuestionID:   a.QuestionID,
					Answer:       strings.TrimSpace(a.Answer),
				})
			}
			// Upsert по уникальной паре (user_survey_id, question_id)
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_survey_id"}, {Name: "question_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"answer", "updated_at"}),
			}).Create(&answers).Error; err != nil {
				return fmt.Errorf("failed to upsert answers: %w", err)
			}
		}

		if targetStatus == entity.UserSurveyStatusSubmitted {
			if err := tx.Model(&entity.UserSurvey{}).Where("id = ?", assignment.ID).
				Update("status", entity.UserSurveyStatusSubmitted).Error; err != nil {
				return fmt.Errorf("failed to submit assignment: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if targetStatus == entity.UserSurveyStatusSubmitted {
		log.Printf("[AssignmentService] Назначение ID=%d сдано пользователем ID=%d", assignment.ID, userID)
	}

	// Возвращаем актуальное состояние с вопросами и ответами
	return s.userSurveyRepo.GetBySurveyForUser(assignment.SurveyID, userID)
}

// ensureAssignmentEditable возвращает ошибку, если назначение уже сдано.
// Используется и до транзакции, и внутри нее на заблокированной строке.
func ensureAssignmentEditable(assignment *entity.UserSurvey) error {
	if assignment.IsSubmitted() {
		return fmt.Errorf("%w: this survey cannot be edited anymore", apperrors.ErrForbidden)
	}
	return nil
}

// ExportAnswers собирает строки экспорта ответов опроса:
// по строке на каждую пару (назначение, вопрос), без ответа — пустая ячейка
func (s *AssignmentService) ExportAnswers(surveyID uint) ([]ExportRow, error) {
	survey, err := s.surveyRepo.GetWithQuestions(surveyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: survey was not found", apperrors.ErrNotFound)
		}
		return nil, err
	}

	assignments, err := s.userSurveyRepo.ListForSurvey(surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list survey assignments: %w", err)
	}

	answers, err := s.answerRepo.ListForSurvey(surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list survey answers: %w", err)
	}

	// (назначение, вопрос) -> текст ответа
	answerByKey := make(map[[2]uint]string, len(answers))
	for _, a := range answers {
		answerByKey[[2]uint{a.UserSurveyID, a.QuestionID}] = a.Answer
	}

	rows := make([]ExportRow, 0, len(assignments)*len(survey.Questions))
	for _, assignment := range assignments {
		email, userName := "", ""
		if assignment.User != nil {
			email = assignment.User.Email
			userName = assignment.User.UserName
		}
		for _, q := range survey.Questions {
			rows = append(rows, ExportRow{
				UserEmail: email,
				UserName:  userName,
				Status:    assignment.Status,
				Question:  q.Text,
				Answer:    answerByKey[[2]uint{assignment.ID, q.ID}],
			})
		}
	}

	return rows, nil
}
