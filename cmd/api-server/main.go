package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"reviewhub/database"
	"reviewhub/internal/cache"
	"reviewhub/internal/config"
	"reviewhub/internal/http-api/handler"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/service"
	"reviewhub/internal/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	client, db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("database disconnect failed", "error", err)
		}
	}()

	// Redis (cache only; the API stays up without it)
	var reviewCache service.ReviewListCache
	if redisClient := connectRedis(ctx, cfg, logger); redisClient != nil {
		defer redisClient.Close()
		reviewCache = cache.NewReviewCache(redisClient, time.Duration(cfg.CacheTTL)*time.Second, logger)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	configRepo := repository.NewConfigRepository(db)

	// Seed the admin passkey on first boot; runtime updates win afterwards
	if err := configRepo.Seed(ctx, models.ConfigKeyAdminPasskey, cfg.AdminPasskey); err != nil {
		logger.Error("failed to seed admin passkey", "error", err)
		os.Exit(1)
	}

	// Services
	clock := clockwork.NewRealClock()
	var m *metrics.Metrics
	if cfg.PrometheusEnabled {
		m = metrics.New()
	}

	trustService := service.NewTrustService(clock)
	sentimentService := service.NewSentimentService()
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg, logger)
	userService := service.NewUserService(userRepo, reviewRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, userRepo, userService, trustService, reviewCache, m, clock, logger)
	rankingService := service.NewRankingService(reviewRepo, userRepo, clock)
	adminService := service.NewAdminService(reviewRepo, userRepo, configRepo, userService, reviewCache, logger)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	registerCustomValidators()

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())
	if m != nil {
		r.Use(m.Middleware())
		r.GET("/metrics", m.Handler())
	}

	r.GET("/check-conn", func(c *gin.Context) {
		if err := client.Ping(c.Request.Context(), nil); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})

	api := r.Group("/api")
	handler.NewAuthHandler(authService, adminService, int(cfg.AccessTokenTTL.Seconds()), logger).RegisterRoutes(api)
	handler.NewReviewHandler(reviewService, sentimentService, authService).RegisterRoutes(api)
	handler.NewRankingHandler(rankingService, logger).RegisterRoutes(api)
	handler.NewUserHandler(userService, authService).RegisterRoutes(api)
	handler.NewAdminHandler(adminService, userService, authService).RegisterRoutes(api)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("server started", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// connectRedis returns nil when redis is unreachable; listing then just
// skips the cache.
func connectRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) *redis.Client {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid redis url, cache disabled", "error", err)
		return nil
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, cache disabled", "error", err)
		client.Close()
		return nil
	}

	logger.Info("connected to redis")
	return client
}

// registerCustomValidators wires the review tag enumeration into the
// binding layer.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("reviewtag", func(fl validator.FieldLevel) bool {
		tag := fl.Field().String()
		for _, t := range models.ReviewTags {
			if t == tag {
				return true
			}
		}
		return false
	})
}
