package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/survey-api/internal/config"
	"github.com/yourusername/survey-api/internal/domain/repository"
	"github.com/yourusername/survey-api/internal/handler"
	"github.com/yourusername/survey-api/internal/middleware"
	pgRepo "github.com/yourusername/survey-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/survey-api/internal/repository/redis"
	"github.com/yourusername/survey-api/internal/service"
	"github.com/yourusername/survey-api/pkg/auth"
	"github.com/yourusername/survey-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем Redis. Кеш не критичен для работы сервиса:
	// без адреса Redis работаем напрямую с БД.
	var cacheRepo repository.CacheRepository
	if cfg.Redis.Addr != "" {
		redisClient, err := database.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Println("Successfully connected to Redis")

		repo, err := redisRepo.NewCacheRepo(redisClient)
		if err != nil {
			log.Printf("Failed to initialize CacheRepo: %v", err)
			os.Exit(1)
		}
		cacheRepo = repo
	} else {
		log.Println("Redis не сконфигурирован, кеширование отключено")
	}

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	surveyRepo := pgRepo.NewSurveyRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	categoryRepo := pgRepo.NewCategoryRepo(db)
	userSurveyRepo := pgRepo.NewUserSurveyRepo(db)
	answerRepo := pgRepo.NewAnswerRepo(db)

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервис отправки писем
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
		emailService = resendService
		log.Println("Отправка писем-приглашений включена (Resend)")
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService, err := service.NewUserService(userRepo)
	if err != nil {
		log.Printf("Failed to initialize UserService: %v", err)
		os.Exit(1)
	}
	categoryService, err := service.NewCategoryService(categoryRepo)
	if err != nil {
		log.Printf("Failed to initialize CategoryService: %v", err)
		os.Exit(1)
	}
	surveyService, err := service.NewSurveyService(surveyRepo, questionRepo, categoryRepo, userSurveyRepo, cacheRepo, db)
	if err != nil {
		log.Printf("Failed to initialize SurveyService: %v", err)
		os.Exit(1)
	}
	assignmentService, err := service.NewAssignmentService(userRepo, surveyRepo, userSurveyRepo, answerRepo, surveyService, emailService, db)
	if err != nil {
		log.Printf("Failed to initialize AssignmentService: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	surveyHandler := handler.NewSurveyHandler(surveyService, assignmentService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, userRepo)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(middleware.RequestID())

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	v1 := router.Group("/v1")
	{
		// Аутентификация — единственные публичные маршруты
		v1.POST("/register", authHandler.Register)
		v1.POST("/login", authHandler.Login)

		// Опросы глазами пользователя
		v1.GET("/surveys",
			authMiddleware.RequireAuth(), authMiddleware.UserOnly(),
			assignmentHandler.ListAssignedSurveys)

		survey := v1.Group("/survey")
		{
			// Создание опроса (только админ)
			survey.POST("",
				authMiddleware.RequireAuth(), authMiddleware.AdminOnly(),
				surveyHandler.CreateSurvey)

			surveyWithID := survey.Group("/:id")
			surveyWithID.Use(middleware.ExtractUintParam("id", "surveyID"))
			{
				// GET: id опроса, назначение ищется по паре (опрос, пользователь).
				// PUT: id назначения — пользователь работает со своим экземпляром.
				surveyWithID.GET("",
					authMiddleware.RequireAuth(),
					assignmentHandler.GetAssignedSurvey)
				surveyWithID.PUT("",
					authMiddleware.RequireAuth(), authMiddleware.UserOnly(),
					assignmentHandler.SubmitOrAnswer)
				surveyWithID.POST("/invite",
					authMiddleware.RequireAuth(), authMiddleware.AdminOnly(),
					surveyHandler.InviteUser)
			}
		}

		// Админская зона
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			admin.GET("/surveys", surveyHandler.ListSurveys)

			adminSurvey := admin.Group("/survey/:id")
			adminSurvey.Use(middleware.ExtractUintParam("id", "surveyID"))
			{
				adminSurvey.GET("", surveyHandler.GetSurveyDetails)
				adminSurvey.PUT("", surveyHandler.UpdateSurvey)
				adminSurvey.GET("/export", surveyHandler.ExportAnswers)
			}
		}

		// Справочник категорий (только админ)
		v1.POST("/category",
			authMiddleware.RequireAuth(), authMiddleware.AdminOnly(),
			categoryHandler.CreateCategory)

		categories := v1.Group("/categories")
		categories.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.PATCH("/:id/archive",
				middleware.ExtractUintParam("id", "categoryID"),
				categoryHandler.ArchiveCategory)
		}

		// Пользователи
		v1.GET("/users/non-admins",
			authMiddleware.RequireAuth(), authMiddleware.AdminOnly(),
			userHandler.ListNonAdmins)
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ждем сигнала остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
