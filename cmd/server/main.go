package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mlevasseur/dossiers-militaires/internal/attachments"
	"github.com/mlevasseur/dossiers-militaires/internal/config"
	"github.com/mlevasseur/dossiers-militaires/internal/document"
	httpserver "github.com/mlevasseur/dossiers-militaires/internal/interfaces/http"
	"github.com/mlevasseur/dossiers-militaires/internal/repository"
	"github.com/mlevasseur/dossiers-militaires/internal/storage"
	"github.com/mlevasseur/dossiers-militaires/pkg/database"
	"github.com/mlevasseur/dossiers-militaires/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting military compensation case service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Create necessary directories
	if err := os.MkdirAll(cfg.Documents.StorageDir, 0755); err != nil {
		logger.Fatal("Failed to create storage directory", zap.Error(err))
	}
	fileStorage := storage.NewLocalFileStorage(cfg.Documents.StorageDir, logger)

	// Initialize repositories
	caseRepo := repository.NewCaseRepository(db, logger)
	memberRepo := repository.NewMemberRepository(db, logger)
	beneficiaryRepo := repository.NewBeneficiaryRepository(db, logger)
	statsRepo := repository.NewStatisticsRepository(db, logger)

	// Initialize template storage and resolution
	templateStore, err := storage.NewTemplateStore(
		cfg.Documents.CustomTemplateDir,
		cfg.Documents.DefaultTemplateDir,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize template store", zap.Error(err))
	}

	resolver := document.NewTemplateResolver(
		cfg.Documents.CustomTemplateDir,
		cfg.Documents.DefaultTemplateDir,
		templateStore,
		logger,
	)

	// Initialize document generation pipeline
	builder := document.NewSynthesisBuilder(document.NewLabelMapper(), logger)
	converter := document.NewLibreOfficeConverter(
		cfg.Documents.LibreOfficeBin,
		cfg.Documents.ConversionTimeout,
		logger,
	)
	renderer := document.NewRenderer(converter, logger)
	generator := document.NewGenerator(resolver, builder, renderer, logger)

	// Initialize the outbound attachment cache with a scheduled sweep
	cache := attachments.NewCache(cfg.Cache.TTL, cfg.Cache.MaxEntries, attachments.SystemClock{}, logger)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Cache.SweepSchedule, func() {
		if removed := cache.Sweep(); removed > 0 {
			logger.Debug("Attachment cache sweep", zap.Int("removed", removed))
		}
	}); err != nil {
		logger.Fatal("Failed to schedule cache sweep", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Set Gin mode based on logger level
	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers := httpserver.NewHandlers(
		caseRepo,
		memberRepo,
		beneficiaryRepo,
		statsRepo,
		generator,
		templateStore,
		fileStorage,
		cache,
		logger,
	)

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
