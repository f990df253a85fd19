package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// Время жизни кеша списка вопросов опубликованного опроса.
// Опубликованный опрос заморожен, поэтому TTL здесь страхует только от
// рассинхронизации кеша, а не от изменений данных.
const surveyQuestionIDsCacheTTL = time.Hour

// surveyQuestionIDsCacheKey формирует ключ кеша для списка id вопросов опроса
func surveyQuestionIDsCacheKey(surveyID uint) string {
	return fmt.Sprintf("survey:%d:question_ids", surveyID)
}

// SurveyQuestionInput описывает вопрос в запросе создания/обновления опроса.
// ID == 0 означает новый вопрос.
type SurveyQuestionInput struct {
	ID   uint
	Text string
}

// CreateSurveyInput содержит данные для создания опроса
type CreateSurveyInput struct {
	Title       string
	Status      string
	Questions   []SurveyQuestionInput
	CategoryIDs []uint
}

// UpdateSurveyInput содержит частичное обновление опроса: nil-поле не передано
// и не затрагивается. Переданный набор вопросов заменяет прежний целиком:
// отсутствующие id удаляются, существующие обновляются, вопросы без id создаются.
// Переданный набор категорий также заменяет прежний (пустой набор очищает связи).
type UpdateSurveyInput struct {
	Title       *string
	Status      string // пустая строка — статус не меняется
	Questions   *[]SurveyQuestionInput
	CategoryIDs *[]uint
}

// SurveyDetails — админское представление опроса со статистикой приглашений
type SurveyDetails struct {
	Survey         *entity.Survey
	QuestionsCount int
	InvitedCount   int
	InvitedEmails  []string
}

// SurveyService предоставляет методы для управления жизненным циклом опросов
type SurveyService struct {
	surveyRepo     repository.SurveyRepository
	questionRepo   repository.QuestionRepository
	categoryRepo   repository.CategoryRepository
	userSurveyRepo repository.UserSurveyRepository
	cacheRepo      repository.CacheRepository // может быть nil, если Redis отключен
	db             *gorm.DB
}

// NewSurveyService создает новый сервис опросов
func NewSurveyService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	categoryRepo repository.CategoryRepository,
	userSurveyRepo repository.UserSurveyRepository,
	cacheRepo repository.CacheRepository,
	db *gorm.DB,
) (*SurveyService, error) {
	if surveyRepo == nil || questionRepo == nil || categoryRepo == nil || userSurveyRepo == nil {
		return nil, fmt.Errorf("all repositories are required for SurveyService")
	}
	if db == nil {
		return nil, fmt.Errorf("db handle is required for SurveyService")
	}
	return &SurveyService{
		surveyRepo:     surveyRepo,
		questionRepo:   questionRepo,
		categoryRepo:   categoryRepo,
		userSurveyRepo: userSurveyRepo,
		cacheRepo:      cacheRepo,
		db:             db,
	}, nil
}

// CreateSurvey создает опрос вместе с вопросами и связями с категориями.
// Опрос, вопросы и связи сохраняются в одной транзакции: при любой ошибке
// не остается частично созданного опроса.
func (s *SurveyService) CreateSurvey(input CreateSurveyInput) (*entity.Survey, error) {
	if err := validateSurveyTitle(input.Title); err != nil {
		return nil, err
	}
	status, err := normalizeSurveyStatus(input.Status)
	if err != nil {
		return nil, err
	}

	// Публикация сразу при создании требует хотя бы одного вопроса
	if status == entity.SurveyStatusPublished && len(input.Questions) == 0 {
		return nil, fmt.Errorf("%w: cannot publish a survey without questions", apperrors.ErrStateConflict)
	}

	for _, q := range input.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("%w: question text cannot be empty", apperrors.ErrValidation)
		}
	}

	// Все категории должны существовать; частичное совпадение — отказ целиком
	categories, err := s.resolveCategories(input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	survey := &entity.Survey{
		Title:  strings.TrimSpace(input.Title),
		Status: status,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(survey).Error; err != nil {
			return fmt.Errorf("failed to create survey: %w", err)
		}

		if len(input.Questions) > 0 {
			questions := make([]entity.Question, 0, len(input.Questions))
			for _, q := range input.Questions {
				questions = append(questions, entity.Question{
					SurveyID: survey.ID,
					Text:     strings.TrimSpace(q.Text),
				})
			}
			if err := tx.Create(&questions).Error; err != nil {
				return fmt.Errorf("failed to create survey questions: %w", err)
			}
			survey.Questions = questions
		}

		if len(categories) > 0 {
			if err := tx.Model(survey).Association("Categories").Append(categories); err != nil {
				return fmt.Errorf("failed to link survey categories: %w", err)
			}
			survey.Categories = categories
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SurveyService] Создан опрос ID=%d title=%q status=%s questions=%d categories=%d",
		survey.ID, survey.Title, survey.Status, len(survey.Questions), len(survey.Categories))
	return survey, nil
}

// surveyUpdatePlan описывает, какие части опроса затрагивает обновление.
// Не переданные во входе поля в план не попадают и остаются нетронутыми.
type surveyUpdatePlan struct {
	fields             map[string]interface{} // колонки surveys для Updates
	reconcileQuestions bool
	questions          []SurveyQuestionInput
	keepIDs            []uint
	replaceCategories  bool
	categories         []entity.Category
}

// planSurveyUpdate валидирует частичное обновление и собирает план изменений
func (s *SurveyService) planSurveyUpdate(survey *entity.Survey, input UpdateSurveyInput) (*surveyUpdatePlan, error) {
	plan := &surveyUpdatePlan{fields: map[string]interface{}{}}

	if input.Title != nil {
		if err := validateSurveyTitle(*input.Title); err != nil {
			return nil, err
		}
		plan.fields["title"] = strings.TrimSpace(*input.Title)
	}

	targetStatus := survey.Status
	if input.Status != "" {
		status, err := normalizeSurveyStatus(input.Status)
		if err != nil {
			return nil, err
		}
		targetStatus = status
		plan.fields["status"] = status
	}

	// Итоговый набор вопросов: переданный целиком или прежний, если не передан
	finalQuestionCount := len(survey.Questions)
	if input.Questions != nil {
		finalQuestionCount = len(*input.Questions)
	}
	if targetStatus == entity.SurveyStatusPublished && finalQuestionCount == 0 {
		return nil, fmt.Errorf("%w: cannot publish a survey without questions", apperrors.ErrStateConflict)
	}

	if input.Questions != nil {
		existingIDs := make(map[uint]bool, len(survey.Questions))
		for _, q := range survey.Questions {
			existingIDs[q.ID] = true
		}

		keepIDs := make([]uint, 0, len(*input.Questions))
		for _, q := range *input.Questions {
			if strings.TrimSpace(q.Text) == "" {
				return nil, fmt.Errorf("%w: question text cannot be empty", apperrors.ErrValidation)
			}
			if q.ID != 0 {
				// Чужой или несуществующий id вопроса — отказ целиком
				if !existingIDs[q.ID] {
					return nil, fmt.Errorf("%w: question %d does not belong to survey %d", apperrors.ErrValidation, q.ID, survey.ID)
				}
				keepIDs = append(keepIDs, q.ID)
			}
		}
		plan.reconcileQuestions = true
		plan.questions = *input.Questions
		plan.keepIDs = keepIDs
	}

	if input.CategoryIDs != nil {
		categories, err := s.resolveCategories(*input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		plan.replaceCategories = true
		plan.categories = categories
	}

	return plan, nil
}

// UpdateSurvey применяет частичное обновление опроса: меняются только
// переданные поля, не переданные наборы вопросов и категорий сохраняются.
// Опубликованный опрос заморожен и обновлению не подлежит.
// Сверка переданных вопросов: вопросы, id которых нет во входном наборе,
// удаляются; вопросы с известным id обновляются; вопросы без id создаются.
// Все изменения применяются в одной транзакции.
func (s *SurveyService) UpdateSurvey(surveyID uint, input UpdateSurveyInput) (*entity.Survey, error) {
	survey, err := s.surveyRepo.GetWithQuestions(surveyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: survey was not found", apperrors.ErrNotFound)
		}
		return nil, err
	}

	if survey.IsPublished() {
		return nil, fmt.Errorf("%w: cannot update a published survey", apperrors.ErrStateConflict)
	}

	plan, err := s.planSurveyUpdate(survey, input)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// 1. Название и статус — только переданные
		if len(plan.fields) > 0 {
			if err := tx.Model(&entity.Survey{}).Where("id = ?", surveyID).Updates(plan.fields).Error; err != nil {
				return fmt.Errorf("failed to update survey: %w", err)
			}
		}

		// 2. Сверка вопросов — только если набор был передан
		if plan.reconcileQuestions {
			del := tx.Where("survey_id = ?", surveyID)
			if len(plan.keepIDs) > 0 {
				del = del.Where("id NOT IN ?", plan.keepIDs)
			}
			if err := del.Delete(&entity.Question{}).Error; err != nil {
				return fmt.Errorf("failed to delete removed questions: %w", err)
			}

			for _, q := range plan.questions {
				text := strings.TrimSpace(q.Text)
				if q.ID != 0 {
					if err := tx.Model(&entity.Question{}).Where("id = ? AND survey_id = ?", q.ID, surveyID).
						Update("text", text).Error; err != nil {
						return fmt.Errorf("failed to update question %d: %w", q.ID, err)
					}
				} else {
					newQuestion := entity.Question{SurveyID: surveyID, Text: text}
					if err := tx.Create(&newQuestion).Error; err != nil {
						return fmt.Errorf("failed to create question: %w", err)
					}
				}
			}
		}

		// 3. Полная замена набора категорий — только если набор был передан
		if plan.replaceCategories {
			assoc := tx.Model(&entity.Survey{ID: surveyID}).Association("Categories")
			if len(plan.categories) == 0 {
				if err := assoc.Clear(); err != nil {
					return fmt.Errorf("failed to clear survey categories: %w", err)
				}
			} else if err := assoc.Replace(plan.categories); err != nil {
				return fmt.Errorf("failed to replace survey categories: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Кеш списка вопросов устарел (особенно важно при публикации)
	s.invalidateQuestionIDsCache(surveyID)

	updated, err := s.surveyRepo.GetWithDetails(surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload updated survey: %w", err)
	}

	log.Printf("[SurveyService] Обновлен опрос ID=%d status=%s questions=%d", updated.ID, updated.Status, len(updated.Questions))
	return updated, nil
}

// GetSurveyDetails возвращает админское представление опроса:
// вопросы, активные категории и статистику приглашений
func (s *SurveyService) GetSurveyDetails(surveyID uint) (*SurveyDetails, error) {
	survey, err := s.surveyRepo.GetWithDetails(surveyID)
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

	emails := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.User != nil {
			emails = append(emails, a.User.Email)
		}
	}

	return &SurveyDetails{
		Survey:         survey,
		QuestionsCount: len(survey.Questions),
		InvitedCount:   len(assignments),
		InvitedEmails:  emails,
	}, nil
}

// ListSurveys возвращает опросы для админского списка с фильтрами
func (s *SurveyService) ListSurveys(filters repository.SurveyFilters) ([]entity.Survey, int64, error) {
	if filters.Status != "" &&
		filters.Status != entity.SurveyStatusDraft && filters.Status != entity.SurveyStatusPublished {
		return nil, 0, fmt.Errorf("%w: invalid survey status filter", apperrors.ErrValidation)
	}
	return s.surveyRepo.ListWithFilters(filters)
}

// GetQuestionIDs возвращает id вопросов опроса, для опубликованных опросов —
// через кеш (набор вопросов опубликованного опроса неизменен)
func (s *SurveyService) GetQuestionIDs(survey *entity.Survey) ([]uint, error) {
	if !survey.IsPublished() || s.cacheRepo == nil {
		return s.questionRepo.GetIDsBySurveyID(survey.ID)
	}

	key := surveyQuestionIDsCacheKey(survey.ID)
	var ids []uint
	if err := s.cacheRepo.GetJSON(key, &ids); err == nil {
		return ids, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		// Кеш недоступен — идем в БД, но не роняем запрос
		log.Printf("[SurveyService] Ошибка чтения кеша вопросов опроса ID=%d: %v", survey.ID, err)
	}

	ids, err := s.questionRepo.GetIDsBySurveyID(survey.ID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.SetJSON(key, ids, surveyQuestionIDsCacheTTL); err != nil {
		log.Printf("[SurveyService] Ошибка записи кеша вопросов опроса ID=%d: %v", survey.ID, err)
	}
	return ids, nil
}

func (s *SurveyService) invalidateQuestionIDsCache(surveyID uint) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(surveyQuestionIDsCacheKey(surveyID)); err != nil {
		log.Printf("[SurveyService] Ошибка инвалидации кеша вопросов опроса ID=%d: %v", surveyID, err)
	}
}

// resolveCategories загружает категории по id и требует полного совпадения набора
func (s *SurveyService) resolveCategories(ids []uint) ([]entity.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	unique := make(map[uint]bool, len(ids))
	for _, id := range ids {
		unique[id] = true
	}

	categories, err := s.categoryRepo.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) != len(unique) {
		return nil, fmt.Errorf("%w: one or more categories do not exist", apperrors.ErrNotFound)
	}
	return categories, nil
}

func validateSurveyTitle(title string) error {
	if len([]rune(strings.TrimSpace(title))) < 3 {
		return fmt.Errorf("%w: title must be at least 3 characters long", apperrors.ErrValidation)
	}
	return nil
}

func normalizeSurveyStatus(status string) (string, error) {
	switch status {
	case "":
		return entity.SurveyStatusDraft, nil
	case entity.SurveyStatusDraft, entity.SurveyStatusPublished:
		return status, nil
	default:
		return "", fmt.Errorf("%w: invalid survey status", apperrors.ErrValidation)
	}
}
