package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/levitica/hireflow/config"
	"github.com/levitica/hireflow/database"
	adminctrl "github.com/levitica/hireflow/internal/controller/admin"
	userctrl "github.com/levitica/hireflow/internal/controller/user"
	"github.com/levitica/hireflow/internal/logger"
	"github.com/levitica/hireflow/internal/model"
	"github.com/levitica/hireflow/internal/repository"
	"github.com/levitica/hireflow/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title HireFlow Recruitment API
// @version 1.0
// @description Candidate scoring and decision pipeline: OTP verification, pool-backed and generated assessments, resume screening and a sandboxed coding round.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewChallengeStore,
			service.DefaultAssessmentSpecs,
		),

		fx.Provide(
			repository.NewCandidateRepository,
			repository.NewQuestionRepository,
			repository.NewSessionRepository,
			repository.NewScreeningRepository,
			repository.NewCodeSubmissionRepository,
		),

		fx.Provide(
			service.NewJudgmentService,
			service.NewScoringOracle,
			service.NewExamGenerator,
			service.NewSMTPMailer,
			service.NewNotificationDispatcher,
			service.NewOTPService,
			service.NewExamService,
			service.NewDocumentExtractor,
			service.NewScreeningService,
			service.NewCodeRunner,
			service.NewQuestionPoolService,
		),

		fx.Provide(
			userctrl.NewController,
			adminctrl.NewController,
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

// NewChallengeStore picks the OTP backend: Redis when an address is
// configured, in-process memory otherwise.
func NewChallengeStore(cfg *config.Config) service.ChallengeStore {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, using in-memory challenge store")
		return service.NewMemoryChallengeStore()
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	return service.NewRedisChallengeStore(rdb)
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	userCtrl *userctrl.Controller,
	adminCtrl *adminctrl.Controller,
) {
	apiV1 := router.Group("/api/v1")
	userCtrl.RegisterRoutes(apiV1)
	adminCtrl.RegisterRoutes(apiV1)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("HireFlow API server starting on port %s", cfg.Server.Port)
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
		&model.Candidate{},
		&model.Question{},
		&model.ExamSession{},
		&model.SessionAnswer{},
		&model.ScreeningRecord{},
		&model.CodeSubmission{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
