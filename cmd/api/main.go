package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/linskybing/admission-portal/docs"
	"github.com/linskybing/admission-portal/internal/api/handlers"
	"github.com/linskybing/admission-portal/internal/api/middleware"
	"github.com/linskybing/admission-portal/internal/api/routes"
	"github.com/linskybing/admission-portal/internal/application"
	"github.com/linskybing/admission-portal/internal/config"
	"github.com/linskybing/admission-portal/internal/config/db"
	"github.com/linskybing/admission-portal/internal/cron"
	"github.com/linskybing/admission-portal/internal/logger"
	"github.com/linskybing/admission-portal/internal/repository"
	"github.com/linskybing/admission-portal/internal/session"
	"github.com/linskybing/admission-portal/internal/storage"
	"github.com/linskybing/admission-portal/pkg/backend"
	"github.com/redis/go-redis/v9"
)

// @title Admission Portal API
// @version 1.0
// @description Admin dashboard for reviewing admission applications and payment proofs.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables, .env and CONFIG_FILE
	config.LoadConfig()
	logger.Init(config.LogLevel, config.LogFormat)
	log := logger.Get()

	// Initialize JWT signing key
	middleware.Init()

	if err := db.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect database")
	}
	if err := repository.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	repos := repository.NewRepositories(db.DB)

	store, closeStore, err := newSessionStore(repos)
	if err != nil {
		log.Fatal().Err(err).Str("backend", config.SessionBackend).Msg("Failed to create session store")
	}
	defer closeStore()

	documents, err := newDocumentLinker()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create document linker")
	}

	client := backend.NewClient(backend.Options{BaseURL: config.BackendURL, Timeout: config.BackendTimeout}, nil)
	svc := application.New(repos, application.Deps{
		Store:     store,
		Backend:   client,
		Documents: documents,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cron.StartCleanupTask(ctx, svc.Review, store, cron.CleanupOptions{
		RetentionDays: config.ReviewLogRetentionDays,
		Workspaces:    svc.Workspaces,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())

	routes.RegisterRoutes(router, handlers.New(svc, router))

	srv := &http.Server{
		Addr:              ":" + config.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend_url", config.BackendURL).Msg("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}

func newSessionStore(repos *repository.Repos) (session.Store, func(), error) {
	noop := func() {}
	sealer := session.NewSealer(config.SessionSecret)

	switch config.SessionBackend {
	case config.SessionBackendMemory:
		return session.NewMemoryStore(), noop, nil
	case config.SessionBackendDatabase:
		return session.NewDBStore(repos.Session, sealer), noop, nil
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("failed to reach redis at %s: %w", config.RedisAddr, err)
		}
		return session.NewRedisStore(client, sealer), func() { _ = client.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unsupported SESSION_BACKEND %q", config.SessionBackend)
	}
}

func newDocumentLinker() (storage.Linker, error) {
	if !config.MinioEnabled {
		return storage.PassthroughLinker{BaseURL: config.BackendURL}, nil
	}
	return storage.NewMinioLinker(storage.MinioOptions{
		Endpoint:  config.MinioEndpoint,
		AccessKey: config.MinioAccessKey,
		SecretKey: config.MinioSecretKey,
		UseSSL:    config.MinioUseSSL,
		Bucket:    config.MinioBucket,
		Region:    config.MinioRegion,
		LinkTTL:   config.DocumentLinkTTL,
	})
}
