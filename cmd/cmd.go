package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-story-backend/internal/auth"
	"travel-story-backend/internal/config"
	"travel-story-backend/internal/handlers"
	"travel-story-backend/internal/repository"
	"travel-story-backend/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	if err := repository.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	storyRepo := repository.NewStoryRepository(db)

	// Initialize services
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	userService, err := services.NewUserService(userRepo, tokens, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create user service")
	}

	storage, err := newStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to create image storage")
	}
	mediaService := services.NewMediaService(storage)
	storyService := services.NewStoryService(storyRepo, mediaService, cfg.PlaceholderImageURL())
	wsHub := services.NewWSHub()

	// Initialize handlers
	router := handlers.NewRouter(handlers.RouterDeps{
		Users:      handlers.NewUserHandler(userService),
		Stories:    handlers.NewStoryHandler(storyService, wsHub),
		Media:      handlers.NewMediaHandler(mediaService, cfg.Server.MaxUploadBytes()),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tokens),
		Health:     handlers.NewHealthHandler(db),
		Tokens:     tokens,
		UploadsDir: cfg.Server.UploadsDir,
		AssetsDir:  cfg.Server.AssetsDir,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("storage", cfg.Storage.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown; they close with the process
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newStorage picks the image storage backend
func newStorage(cfg *config.Config) (services.Storage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return services.NewS3Storage(context.Background(), cfg.AWS)
	default:
		return services.NewLocalStorage(cfg.Server.UploadsDir, cfg.Server.BaseURL)
	}
}

// configPath returns the config file location, overridable with CONFIG_PATH
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
