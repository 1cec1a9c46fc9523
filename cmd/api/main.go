package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/movierec-service/internal/api/http"
	"github.com/spec-kit/movierec-service/internal/api/http/handlers"
	"github.com/spec-kit/movierec-service/internal/auth"
	"github.com/spec-kit/movierec-service/internal/cache"
	"github.com/spec-kit/movierec-service/internal/config"
	"github.com/spec-kit/movierec-service/internal/observability"
	"github.com/spec-kit/movierec-service/internal/persistence"
	"github.com/spec-kit/movierec-service/internal/ratelimit"
	"github.com/spec-kit/movierec-service/internal/repository"
	"github.com/spec-kit/movierec-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	movieRepo := repository.NewMovieRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)

	responseCache := cache.New(redis.Client, logger)
	counterStore := ratelimit.NewRedisCounterStore(redis.Client)
	limiter := ratelimit.NewLimiter(counterStore, cfg.RateLimit.PerMinute, cfg.RateLimit.Window(), logger)

	authService := service.NewAuthService(cfg.Auth, userRepo, logger)
	movieService := service.NewMovieService(movieRepo, responseCache, logger)
	ratingService := service.NewRatingService(ratingRepo, movieRepo)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo, logger)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(redis),
		Auth:           handlers.NewAuthHandler(authService),
		Movies:         handlers.NewMoviesHandler(movieService),
		Ratings:        handlers.NewRatingsHandler(ratingService),
		AuthMiddleware: authMiddleware,
		Limiter:        limiter,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
