// Package main is the entry point for the fraud scoring console.
// It loads configuration, wires the scoring client, caches and sessions,
// and starts the HTTP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fraudconsole/internal/cache"
	"fraudconsole/internal/config"
	"fraudconsole/internal/console"
	"fraudconsole/internal/logging"
	"fraudconsole/internal/metrics"
	"fraudconsole/internal/middleware"
	"fraudconsole/internal/routes"
	"fraudconsole/internal/samples"
	"fraudconsole/internal/scoring"
	"fraudconsole/internal/services/health"
	"fraudconsole/internal/services/prediction"
	"fraudconsole/internal/utils"
	"fraudconsole/internal/view"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthCache, redisCache := setupCache(ctx, cfg)
	defer func() {
		if err := healthCache.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close cache")
		}
	}()

	client := scoring.NewClient(scoring.Options{
		BaseURL:   cfg.ScoringURL,
		APIKey:    cfg.ScoringAPIKey,
		HealthURL: cfg.ScoringHealthURL,
		Timeout:   cfg.ScoringTimeout,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = utils.MustNewSessionSecret()
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
	}

	store := console.NewStore(cfg.SessionTTL)
	go store.Run(ctx, time.Minute)

	app := fiber.New(fiber.Config{
		AppName:               "fraudconsole",
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,HEAD",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Deps{
		Predictions:        prediction.NewService(client, metrics.NewPrometheus(reg)),
		Health:             health.NewService(client, healthCache, cfg.ScoringHealthURL, cfg.HealthCacheTTL),
		Store:              store,
		Sessions:           middleware.NewSessionMiddleware(store, secret, cfg.SessionTTL, cfg.IsProduction()),
		Renderer:           renderer,
		Generator:          samples.NewGenerator(gofakeit.New(0)),
		Gatherer:           reg,
		Redis:              redisCache,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("scoring_url", cfg.ScoringURL).
		Msg("console listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// setupCache picks Redis when REDIS_ADDR is set and falls back to process
// memory when it is unset or unreachable.
func setupCache(ctx context.Context, cfg *config.Config) (cache.Cache, *cache.RedisCache) {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR not set, using in-memory health cache")
		return cache.NewMemoryCache(), nil
	}

	rc := cache.NewRedisCache(cache.NewRedisClient(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}))

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.HealthCheck(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, using in-memory health cache")
		_ = rc.Close()
		return cache.NewMemoryCache(), nil
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")
	return rc, rc
}
