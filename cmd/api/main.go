// Package main is the entrypoint for the Chukanavi API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/chukanavi/chukanavi/internal/auth"
	"github.com/chukanavi/chukanavi/internal/cache"
	"github.com/chukanavi/chukanavi/internal/cleanup"
	"github.com/chukanavi/chukanavi/internal/config"
	"github.com/chukanavi/chukanavi/internal/handler"
	"github.com/chukanavi/chukanavi/internal/metrics"
	"github.com/chukanavi/chukanavi/internal/middleware"
	"github.com/chukanavi/chukanavi/internal/repository"
	"github.com/chukanavi/chukanavi/internal/server"
	"github.com/chukanavi/chukanavi/internal/service"
	"github.com/chukanavi/chukanavi/internal/storage"
)

func main() {
	ctx := context.Background()

	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	blobStore, err := storage.New(storage.Config{
		Endpoint:      cfg.StorageEndpoint,
		AccessKey:     cfg.StorageAccessKey,
		SecretKey:     cfg.StorageSecretKey,
		Bucket:        cfg.StorageBucket,
		UseSSL:        cfg.StorageUseSSL,
		PublicBaseURL: cfg.StoragePublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	recorder := metrics.NewInMemory()

	publisher := cleanup.NewPublisher(cacheClient.Client(), logger, recorder)
	worker := cleanup.NewWorker(cacheClient.Client(), blobStore, logger, cleanup.NewConsumerID(), recorder)

	guard := auth.NewGuard(repo)
	authService := service.NewAuthService(repo, auth.ParseScheme(cfg.PasswordScheme), recorder)
	restaurantService := service.NewRestaurantService(repo, repo, cacheClient, guard, publisher, recorder)
	imageService := service.NewImageService(repo, repo, blobStore, cacheClient, guard, publisher, cfg.MaxUploadSize, recorder)

	authHandler := handler.NewAuthHandler(authService, cacheClient, logger, cfg.IsProduction())
	restaurantHandler := handler.NewRestaurantHandler(restaurantService, logger)
	imageHandler := handler.NewImageHandler(imageService, cfg.MaxUploadSize, logger)
	healthHandler := handler.NewHealthHandler(repo, cacheClient, blobStore)
	metricsHandler := handler.NewMetricsHandler(recorder)

	r := setupRouter(authHandler, restaurantHandler, imageHandler, healthHandler, metricsHandler, guard, cacheClient, recorder, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := worker.Run(workerCtx); err != nil && workerCtx.Err() == nil {
			logger.Error("cleanup worker stopped", "error", err)
		}
	}()
	srv.OnShutdown("cleanup worker", func(ctx context.Context) error {
		stopWorker()
		select {
		case <-workerDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	authHandler *handler.AuthHandler,
	restaurantHandler *handler.RestaurantHandler,
	imageHandler *handler.ImageHandler,
	healthHandler *handler.HealthHandler,
	metricsHandler *handler.MetricsHandler,
	guard *auth.Guard,
	cacheClient *cache.Cache,
	recorder metrics.Recorder,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.DefaultSecurityConfig()))

	corsCfg := middleware.DefaultCORSConfig()
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg.AllowedOrigins = origins
	}
	r.Use(middleware.CORS(corsCfg))

	// Operational endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	requireAuth := middleware.RequireAuth(middleware.AuthConfig{
		Logger:  logger,
		Guard:   guard,
		Cache:   cacheClient,
		Metrics: recorder,
	})

	authRateLimit := middleware.RateLimitIP(middleware.RateLimitConfig{
		Logger:  logger,
		Limiter: cacheClient,
		Enabled: cfg.RateLimitAuthEnabled,
		RPS:     cfg.RateLimitAuthRPS,
		Burst:   cfg.RateLimitAuthBurst,
	})

	bodyLimit := middleware.MaxBodySize(cfg.MaxRequestBodySize)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authRateLimit, bodyLimit).Post("/signup", authHandler.Signup)
			r.With(authRateLimit, bodyLimit).Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(requireAuth).Get("/me", authHandler.Me)
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", restaurantHandler.List)
			r.Get("/search", restaurantHandler.Search)
			r.With(requireAuth, bodyLimit).Post("/", restaurantHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", restaurantHandler.Get)
				r.With(requireAuth, bodyLimit).Put("/", restaurantHandler.Update)
				r.With(requireAuth).Delete("/", restaurantHandler.Delete)

				r.Route("/images", func(r chi.Router) {
					r.Get("/", imageHandler.List)
					r.With(requireAuth).Post("/", imageHandler.Upload)
					r.With(requireAuth).Delete("/", imageHandler.Delete)
				})
			})
		})
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
