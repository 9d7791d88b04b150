package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/triptally/expense-assistant/internal/analytics"
	"github.com/triptally/expense-assistant/internal/chat"
	"github.com/triptally/expense-assistant/internal/expenses"
	"github.com/triptally/expense-assistant/internal/fraud"
	"github.com/triptally/expense-assistant/internal/imaging"
	"github.com/triptally/expense-assistant/internal/llm"
	"github.com/triptally/expense-assistant/internal/ocr"
	"github.com/triptally/expense-assistant/internal/vectorstore"
	"github.com/triptally/expense-assistant/pkg/common"
	"github.com/triptally/expense-assistant/pkg/config"
	"github.com/triptally/expense-assistant/pkg/database"
	"github.com/triptally/expense-assistant/pkg/logger"
	"github.com/triptally/expense-assistant/pkg/middleware"
	"github.com/triptally/expense-assistant/pkg/redis"
	"github.com/triptally/expense-assistant/pkg/storage"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load("assistant")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// PostgreSQL
	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)

	if err := database.RunMigrations(&cfg.Database); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Object storage for receipt documents
	ctx := context.Background()
	s3Store, err := storage.NewS3Storage(ctx, storage.S3Config{
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		BaseURL:   cfg.Storage.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	fetcher := storage.NewDocumentFetcher(s3Store)

	// LLM provider
	llmClient, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		logger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}

	// Expense ingestion
	expenseRepo := expenses.NewRepository(pool)
	expenseService := expenses.NewService(expenseRepo, expenses.NewDocumentParser(llmClient), s3Store)
	expenseHandler := expenses.NewHandler(expenseService)

	// Fraud analysis pipeline
	crossValidator := ocr.NewCrossValidator(
		ocr.NewClassicalOCR(ocr.NewTesseractEngine(cfg.OCR.TesseractPath)),
		ocr.NewModelOCR(llmClient),
	)
	fraudRepo := fraud.NewRepository(pool)
	fraudService := fraud.NewService(
		expenseRepo,
		fraudRepo,
		fraud.NewJudgmentAnalyzer(llmClient),
		fraud.NewImageForensicsAnalyzer(fetcher, imaging.NewAnalyzer(), crossValidator),
		fraud.NewOnlineVerificationAnalyzer(),
		fraud.NewPatternAnalyzer(expenseRepo),
		fraud.NewCategoryVerifier(llmClient, fraud.NewToolExecutor(redisClient)),
	)
	fraudHandler := fraud.NewHandler(fraudService)

	// Document chat
	chatService := chat.NewService(vectorstore.NewStore(pool), llmClient, llmClient, fetcher)
	chatHandler := chat.NewHandler(chatService)

	// Trip analytics
	analyticsService := analytics.NewService(analytics.NewRepository(pool), llmClient)
	analyticsHandler := analytics.NewHandler(analyticsService)

	// Router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics(cfg.Server.ServiceName))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.CORSOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check and metrics (no auth required)
	router.GET("/healthz", common.HealthCheckWithDeps(cfg.Server.ServiceName, version, map[string]func() error{
		"database": func() error { return pool.Ping(context.Background()) },
		"redis":    func() error { return redisClient.Ping(context.Background()).Err() },
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		expenseHandler.RegisterRoutes(api)
		fraudHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		analyticsHandler.RegisterRoutes(api)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Expense assistant starting", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}
