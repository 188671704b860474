package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audienceLab/app/echo-server/router"
	"audienceLab/business/aggregation"
	"audienceLab/business/audience"
	"audienceLab/business/catalog"
	"audienceLab/business/learning"
	"audienceLab/business/optimizer"
	"audienceLab/business/segmenter"
	"audienceLab/business/simulation"
	"audienceLab/domain"
	"audienceLab/internal/middleware"
	psqlRepo "audienceLab/internal/repository/postgres"
	redisRepo "audienceLab/internal/repository/redis"
	"audienceLab/internal/rest"
	"audienceLab/pkg/config"
	"audienceLab/pkg/database"
	redisdb "audienceLab/pkg/database/redis"
	"audienceLab/pkg/logger"
	"audienceLab/pkg/metrics"
	"audienceLab/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting AudienceLab", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	// Init repo
	archetypeRepo := psqlRepo.NewArchetypeRepository(db)
	profileRepo := psqlRepo.NewBrandProfileRepository(db)
	evaluationRepo := psqlRepo.NewEvaluationRepository(db)

	cacheTTL := time.Duration(cfg.Engine.EvaluationCacheTTLs) * time.Second
	evaluationCache := redisRepo.NewEvaluationCache(redisClient, cacheTTL)
	profileCache := redisRepo.NewProfileCache(redisClient, time.Hour)
	cachedProfiles := redisRepo.NewCachedProfileRepository(profileRepo, profileCache)

	// Init service
	catalogService := catalog.NewCatalogService(archetypeRepo)
	if err := catalogService.LoadPersisted(context.Background()); err != nil {
		logger.Fatal("Failed to load persona catalog", "error", err)
	}

	learningService := learning.NewLearningService(cachedProfiles, profileRepo, learning.Config{
		Alpha:   cfg.Engine.LearningAlpha,
		Enabled: cfg.Engine.LearningEnabled,
	})

	segmenterService := segmenter.NewSegmenterService(segmenter.DefaultConfig())

	simCfg := simulation.DefaultConfig()
	simCfg.TickCeiling = cfg.Engine.TickCeiling
	simulator := simulation.NewSimulatorService(simCfg)
	runner := simulation.NewRunner(simulator, cfg.Engine.SimulationWorkers)

	aggCfg := aggregation.DefaultConfig()
	aggCfg.MinSessions = cfg.Engine.MinSessions
	aggregationService := aggregation.NewAggregationService(aggCfg, learningService)

	optimizerService := optimizer.NewOptimizerService(optimizer.DefaultTargets())

	defaultPolicy := domain.AutoDistribution()
	if len(cfg.Engine.DistributionWeights) > 0 {
		defaultPolicy = domain.ExplicitDistribution(cfg.Engine.DistributionWeights)
	}

	audienceService := audience.NewAudienceService(
		catalogService,
		segmenterService,
		runner,
		aggregationService,
		optimizerService,
		learningService,
		evaluationRepo,
		evaluationCache,
		audience.Config{
			AudienceSize:    cfg.Engine.AudienceSize,
			LearningEnabled: cfg.Engine.LearningEnabled,
			DefaultPolicy:   defaultPolicy,
		},
	)

	// Init handler
	evaluationHandler := rest.NewEvaluationHandler(audienceService)
	personaHandler := rest.NewPersonaHandler(catalogService)
	brandHandler := rest.NewBrandHandler(learningService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupEvaluationRoutes(api, evaluationHandler)
	router.SetupPersonaRoutes(api, personaHandler, middleware.AdminOnly())
	router.SetupBrandRoutes(api, brandHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
