package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/khaiwen/Loris/config"
	"github.com/khaiwen/Loris/database"
	_ "github.com/khaiwen/Loris/docs" // Swagger docs - auto-generated
	adminctrl "github.com/khaiwen/Loris/internal/controller/admin"
	userctrl "github.com/khaiwen/Loris/internal/controller/user"
	"github.com/khaiwen/Loris/internal/evaluator"
	"github.com/khaiwen/Loris/internal/logger"
	"github.com/khaiwen/Loris/internal/model"
	"github.com/khaiwen/Loris/internal/repository"
	"github.com/khaiwen/Loris/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Question Recommendation API
// @version 1.0
// @description Adaptive question recommendation and mastery estimation for course learners. Recommends from the learner's weakest topic and materializes dynamic questions on delivery.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8087
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			NewEvaluator,
			func() evaluator.Rand { return evaluator.SystemRand() },
		),

		// Repositories Layer
		fx.Provide(
			repository.NewTopicRepository,
			repository.NewCourseRepository,
			repository.NewMasteryRepository,
			repository.NewQuestionRepository,
			repository.NewQuestionInstanceRepository,
			repository.NewAttemptRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewContentService,
			service.NewQuestionService,
			service.NewMasteryService,
			service.NewRecommendationService,
			service.NewAttemptService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewContentController,
			userctrl.NewLearningController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

// NewEvaluator builds the expression evaluator with the configured distractor
// count and the stock perturbation factors.
func NewEvaluator(cfg *config.Config, rng evaluator.Rand) *evaluator.Evaluator {
	evalCfg := evaluator.DefaultConfig()
	if cfg.Engine.DistractorCount > 0 {
		evalCfg.DistractorCount = cfg.Engine.DistractorCount
	}
	return evaluator.New(evalCfg, rng)
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "access_token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// apiKeyAuth guards the API with a shared key in the access_token header.
// An empty configured key disables the check for local development.
func apiKeyAuth(apiKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if apiKey == "" {
			ctx.Next()
			return
		}
		if ctx.GetHeader("access_token") != apiKey {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Could not validate credentials"})
			return
		}
		ctx.Next()
	}
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	contentCtrl *adminctrl.ContentController,
	learningCtrl *userctrl.LearningController,
) {
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(apiKeyAuth(cfg.APIKey))

	adminGroup := api.Group("/admin")
	{
		adminGroup.POST("/topics", contentCtrl.CreateTopic)
		adminGroup.POST("/courses", contentCtrl.CreateCourse)
		adminGroup.GET("/courses/:course_slug", contentCtrl.GetCourse)
		adminGroup.POST("/questions/dynamic", contentCtrl.CreateDynamicQuestion)
		adminGroup.POST("/questions/static", contentCtrl.CreateStaticVariation)
		adminGroup.POST("/questions/preview", contentCtrl.PreviewEvaluation)
		adminGroup.GET("/questions", contentCtrl.ListQuestions)
		adminGroup.GET("/questions/:id", contentCtrl.GetQuestion)
		adminGroup.DELETE("/questions/:id", contentCtrl.RetireQuestion)
	}

	{
		api.POST("/courses/:course_slug/recommendation", learningCtrl.RecommendQuestion)
		api.GET("/courses/:course_slug/masteries", learningCtrl.GetCourseMasteries)
		api.GET("/topics/:topic_slug/mastery", learningCtrl.GetMastery)
		api.POST("/attempts", learningCtrl.SubmitAttempt)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Recommendation API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Topic{},
		&model.Course{},
		&model.CourseTopic{},
		&model.Mastery{},
		&model.Question{},
		&model.QuestionVariable{},
		&model.QuestionMethod{},
		&model.QuestionOption{},
		&model.QuestionInstance{},
		&model.Attempt{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
