package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/lifelens/backend/internal/cache"
	"github.com/lifelens/backend/internal/config"
	"github.com/lifelens/backend/internal/extract"
	"github.com/lifelens/backend/internal/handlers"
	"github.com/lifelens/backend/internal/logger"
	"github.com/lifelens/backend/internal/middleware"
	"github.com/lifelens/backend/internal/repository"
	"github.com/lifelens/backend/internal/service"
	"github.com/lifelens/backend/pkg/lifestore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

// buildRegistry registers a metric adapter for every enabled module.
// An unknown module name is logged and skipped; lookups against it then
// report an unavailable source instead of crashing at startup.
func buildRegistry(client *lifestore.Client, modules []string) *extract.Registry {
	registry := extract.NewRegistry()
	for _, module := range modules {
		switch module {
		case "tasks":
			registry.Register(extract.NewAdapter("tasks", "completed", extract.ReduceSum, repository.NewTaskCompletionSource(client)))
		case "habits":
			registry.Register(extract.NewAdapter("habits", "completions", extract.ReduceSum, repository.NewHabitCompletionSource(client)))
		case "mood":
			registry.Register(extract.NewAdapter("mood", "average", extract.ReduceMean, repository.NewMoodScoreSource(client)))
		case "sleep":
			registry.Register(extract.NewAdapter("sleep", "duration", extract.ReduceSum, repository.NewSleepDurationSource(client)))
			registry.Register(extract.NewAdapter("sleep", "quality", extract.ReduceMean, repository.NewSleepQualitySource(client)))
		case "journal":
			registry.Register(extract.NewAdapter("journal", "entries", extract.ReduceSum, repository.NewJournalEntrySource(client)))
		case "finance":
			registry.Register(extract.NewAdapter("finance", "spending", extract.ReduceSum, repository.NewSpendingSource(client)))
		case "focus":
			registry.Register(extract.NewAdapter("focus", "minutes", extract.ReduceSum, repository.NewFocusMinutesSource(client)))
		default:
			logger.Warn("unknown module in configuration, skipping", logger.String("module", module))
		}
	}
	return registry
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	// Initialize structured logging
	logCfg := logger.DefaultConfig()
	if cfg.Server.Env != "production" {
		logCfg.Level = logger.LevelDebug
		logCfg.Format = "text"
	}
	logger.SetDefault(logger.NewSlogLogger(logCfg))

	logger.Info("starting lifelens insight engine",
		logger.String("env", cfg.Server.Env),
		logger.String("store_url", cfg.Store.URL),
	)

	// Initialize record store client and aggregation cache
	storeClient := lifestore.NewClient(cfg.Store.URL, cfg.Store.ServiceKey)

	rdb, err := cache.Connect(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	aggCache := cache.New(rdb)

	// Initialize repositories and the metric registry
	insightRepo := repository.NewInsightRepository(storeClient)
	dashboardRepo := repository.NewDashboardRepository(storeClient)
	registry := buildRegistry(storeClient, cfg.Analytics.Modules)

	// Initialize services
	analyticsService := service.NewAnalyticsService(registry, aggCache, cfg.Analytics)
	insightService := service.NewInsightService(analyticsService, insightRepo)
	dashboardService := service.NewDashboardService(analyticsService, registry, dashboardRepo, aggCache, cfg.Analytics)

	// Initialize handlers
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	insightsHandler := handlers.NewInsightsHandler(insightService, analyticsService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Set Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimit())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := aggCache.HealthCheck(c.Request.Context()); err != nil {
			status = "degraded"
		}
		c.JSON(200, gin.H{
			"status": status,
			"env":    cfg.Server.Env,
		})
	})

	// API v1 routes, all scoped to a user
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Scope())
	{
		v1.POST("/correlations/analyze", analyticsHandler.AnalyzeCorrelations)
		v1.GET("/trends/detect", analyticsHandler.DetectTrends)
		v1.GET("/anomalies/scan", analyticsHandler.ScanAnomalies)
		v1.POST("/forecasts/generate", analyticsHandler.GenerateForecast)

		v1.GET("/insights", insightsHandler.GetInsights)
		v1.POST("/insights/refresh", middleware.RateLimitCompute(), insightsHandler.RefreshInsights)
		v1.GET("/insights/streaks", insightsHandler.GetStreaks)
		v1.POST("/insights/:id/dismiss", insightsHandler.DismissInsight)
		v1.POST("/insights/:id/read", insightsHandler.MarkInsightRead)

		v1.GET("/dashboard/:id/data", dashboardHandler.GetDashboardData)
	}

	logger.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
