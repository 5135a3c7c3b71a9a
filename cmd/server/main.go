package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/minhle/career-os/adapters/event"
	httpAdapter "github.com/minhle/career-os/adapters/http"
	"github.com/minhle/career-os/adapters/llm"
	"github.com/minhle/career-os/adapters/persistence"
	"github.com/minhle/career-os/adapters/resume_storage"
	authUC "github.com/minhle/career-os/internal/application/usecase/auth"
	lessonUC "github.com/minhle/career-os/internal/application/usecase/lessons"
	maintenanceUC "github.com/minhle/career-os/internal/application/usecase/maintenance"
	onboardingUC "github.com/minhle/career-os/internal/application/usecase/onboarding"
	pathUC "github.com/minhle/career-os/internal/application/usecase/paths"
	progressUC "github.com/minhle/career-os/internal/application/usecase/progress"
	resumeUC "github.com/minhle/career-os/internal/application/usecase/resume"
	roadmapUC "github.com/minhle/career-os/internal/application/usecase/roadmaps"
	"github.com/minhle/career-os/internal/config"
	"github.com/minhle/career-os/pkg/auth"
	"github.com/minhle/career-os/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting Career OS API server...")

	// Infrastructure
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka producer", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool)
	skillRepo := persistence.NewPostgresSkillRepo(dbPool)
	catalogRepo := persistence.NewPostgresCatalogRepo(dbPool)
	pathRepo := persistence.NewPostgresPathRepo(dbPool, appLogger)
	roadmapRepo := persistence.NewPostgresRoadmapRepo(dbPool)
	progressRepo := persistence.NewPostgresProgressRepo(dbPool)
	maintenanceRepo := persistence.NewMaintenanceRepo(dbPool)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	learningCache := persistence.NewRedisLearningCache(redisClient)
	llmService := llm.NewOpenAIAdapter(cfg, appLogger)

	resumeStorage, err := resume_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Cloudinary not configured, resume uploads disabled", zap.Error(err))
		resumeStorage = resume_storage.NewDisabledStorage()
	}

	// Use cases
	registerUseCase := authUC.NewRegisterUseCase(userRepo, profileRepo, jwtSvc, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	onboardingUseCase := onboardingUC.NewOnboardingUseCase(profileRepo, skillRepo)
	generatePathsUseCase := pathUC.NewGeneratePathsUseCase(profileRepo, skillRepo, catalogRepo, pathRepo, llmService, kafkaClient, learningCache, appLogger)
	listPathsUseCase := pathUC.NewListPathsUseCase(pathRepo)
	selectPathUseCase := pathUC.NewSelectPathUseCase(pathRepo)
	generateRoadmapUseCase := roadmapUC.NewGenerateRoadmapUseCase(profileRepo, pathRepo, roadmapRepo, progressRepo, llmService, kafkaClient, learningCache, appLogger)
	getRoadmapUseCase := roadmapUC.NewGetRoadmapUseCase(roadmapRepo)
	lessonUseCase := lessonUC.NewLessonUseCase(roadmapRepo, progressRepo, llmService, learningCache, appLogger)
	completeUseCase := progressUC.NewCompleteSubtopicUseCase(roadmapRepo, progressRepo, kafkaClient, appLogger)
	quizUseCase := lessonUC.NewQuizUseCase(roadmapRepo, progressRepo, llmService, learningCache, completeUseCase, kafkaClient, appLogger)
	dashboardUseCase := progressUC.NewDashboardUseCase(profileRepo, pathRepo, roadmapRepo, progressRepo, learningCache, appLogger)
	roadmapProgressUseCase := progressUC.NewRoadmapProgressUseCase(progressRepo)
	extractSkillsUseCase := resumeUC.NewExtractSkillsUseCase(profileRepo, skillRepo, llmService, resumeStorage, appLogger)
	resetUseCase := maintenanceUC.NewResetUseCase(maintenanceRepo, learningCache, appLogger)

	// HTTP handlers
	authHandler := httpAdapter.NewAuthHandler(registerUseCase, loginUseCase)
	onboardingHandler := httpAdapter.NewOnboardingHandler(onboardingUseCase)
	pathHandler := httpAdapter.NewPathHandler(generatePathsUseCase, listPathsUseCase, selectPathUseCase)
	roadmapHandler := httpAdapter.NewRoadmapHandler(generateRoadmapUseCase, getRoadmapUseCase)
	lessonHandler := httpAdapter.NewLessonHandler(lessonUseCase, quizUseCase)
	progressHandler := httpAdapter.NewProgressHandler(completeUseCase, dashboardUseCase, roadmapProgressUseCase)
	resumeHandler := httpAdapter.NewResumeHandler(extractSkillsUseCase)
	maintenanceHandler := httpAdapter.NewMaintenanceHandler(resetUseCase)

	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)

	router := gin.Default()
	router.Use(httpAdapter.ErrorMiddleware(appLogger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.App.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.App.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "UP"}) })

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		me := api.Group("/me")
		me.Use(authMiddleware)
		{
			me.GET("/profile", onboardingHandler.GetProfile)
			me.PUT("/profile", onboardingHandler.UpdateProfile)
			me.POST("/onboarding/complete", onboardingHandler.CompleteOnboarding)
			me.GET("/skills", onboardingHandler.ListSkills)
			me.PUT("/skills", onboardingHandler.ReplaceSkills)

			me.POST("/resume/extract", resumeHandler.ExtractSkills)

			pathsGroup := me.Group("/paths")
			{
				pathsGroup.POST("/generate", pathHandler.GeneratePaths)
				pathsGroup.GET("", pathHandler.ListPaths)
				pathsGroup.POST("/:id/select", pathHandler.SelectPath)
				pathsGroup.POST("/:id/roadmaps", roadmapHandler.GenerateRoadmap)
				pathsGroup.GET("/:id/roadmaps", roadmapHandler.ListRoadmaps)
			}

			roadmapsGroup := me.Group("/roadmaps")
			{
				roadmapsGroup.GET("/:id", roadmapHandler.GetRoadmap)
				roadmapsGroup.GET("/:id/progress", progressHandler.ListRoadmapProgress)

				subtopic := roadmapsGroup.Group("/:id/topics/:topicId/subtopics/:subtopicId")
				{
					subtopic.POST("/lesson", lessonHandler.StartLesson)
					subtopic.POST("/lesson/next", lessonHandler.NextSection)
					subtopic.POST("/quiz", lessonHandler.GenerateQuiz)
					subtopic.POST("/quiz/grade", lessonHandler.GradeQuiz)
					subtopic.POST("/complete", progressHandler.CompleteSubtopic)
				}
			}

			me.GET("/dashboard", progressHandler.GetDashboard)
			me.DELETE("/data", maintenanceHandler.ResetData)
		}
	}

	appLogger.Info("Server running", zap.String("port", cfg.App.Port))
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("Cannot run server", err)
	}
}
