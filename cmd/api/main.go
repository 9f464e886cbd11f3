package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/TFHGit/skumaster_api/internal/cache"
	"github.com/TFHGit/skumaster_api/internal/config"
	"github.com/TFHGit/skumaster_api/internal/database"
	"github.com/TFHGit/skumaster_api/internal/handler"
	"github.com/TFHGit/skumaster_api/internal/middleware"
	"github.com/TFHGit/skumaster_api/internal/repository"
	"github.com/TFHGit/skumaster_api/internal/service"
	"github.com/TFHGit/skumaster_api/internal/worker"
)

// main is the application entrypoint for the SkuMaster API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting skumaster api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis (upload rate limiting)
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Initialize repositories
	skuRepo := repository.NewSKUMasterRepository(db)

	// 5. Initialize services
	fileSvc := service.NewFileService()
	urlSvc := service.NewImageURLService(cfg.DefaultBaseURL)
	skuSvc := service.NewSKUMasterService(skuRepo, urlSvc)
	updateSvc := service.NewSKUUpdateService(skuRepo, fileSvc, cfg.Images.SkuMastersDir())

	// Image directory must exist before the first upload or static request.
	if err := fileSvc.EnsureDir(cfg.Images.SkuMastersDir()); err != nil {
		log.Error().Err(err).Msg("failed to create images directory")
		os.Exit(1)
	}

	// 6. Initialize handlers
	skuHandler := handler.NewSKUMasterHandler(skuSvc, skuRepo)
	imageHandler := handler.NewSKUMasterImageHandler(updateSvc)
	healthHandler := handler.NewHealthHandler(db)

	// 7. Initialize middleware
	uploadLimiter := middleware.NewUploadRateLimiter(redisClient, cfg.UploadLimitPerMinute, time.Minute)

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, cfg, skuHandler, imageHandler, healthHandler, uploadLimiter)

	// 9. Create context for background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 10. Start orphan file sweep
	go worker.NewOrphanImageWorker(
		skuRepo, fileSvc, cfg.Images.SkuMastersDir(),
		cfg.Worker.OrphanSweepInterval,
		cfg.Worker.OrphanGracePeriod,
	).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// setupRoutes registers all routes.
func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	skuHandler *handler.SKUMasterHandler,
	imageHandler *handler.SKUMasterImageHandler,
	healthHandler *handler.HealthHandler,
	uploadLimiter *middleware.UploadRateLimiter,
) {
	router.GET("/v1/health", healthHandler.GetHealth)

	// Stored database paths are root-relative; serve the backing files from
	// the same process.
	router.Static("/images/skumasters", cfg.Images.SkuMastersDir())

	api := router.Group("/api")
	{
		skumaster := api.Group("/skumaster")
		{
			skumaster.GET("/list", skuHandler.GetPagedList)
			skumaster.GET("/:key/detail", skuHandler.GetDetail)
			skumaster.PUT("/:key/update-basic", skuHandler.UpdateBasic)

			debug := skumaster.Group("/debug")
			{
				debug.GET("/search", skuHandler.DebugSearch)
				debug.GET("/size/:key", skuHandler.DebugSize)
				debug.GET("/tables", skuHandler.DebugTables)
				debug.GET("/sample", skuHandler.DebugSample)
			}
		}

		api.POST("/skumasterimage/update", uploadLimiter.Handle(), imageHandler.Update)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
