// Package routes defines the console's routing configuration.
// It sets up every HTTP route with its handler and middleware.
package routes

import (
	"time"

	"fraudconsole/internal/cache"
	"fraudconsole/internal/console"
	"fraudconsole/internal/handlers"
	"fraudconsole/internal/middleware"
	"fraudconsole/internal/samples"
	"fraudconsole/internal/services/health"
	"fraudconsole/internal/services/prediction"
	"fraudconsole/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the routes need, built once in main.
type Deps struct {
	Predictions prediction.Service
	Health      health.Service
	Store       *console.Store
	Sessions    *middleware.SessionMiddleware
	Renderer    *view.Renderer
	Generator   *samples.Generator
	Gatherer    prometheus.Gatherer
	// Redis is nil when the in-memory cache is in use.
	Redis *cache.RedisCache

	RateLimitPerMinute int
}

// SetupRoutes configures all console routes.
func SetupRoutes(app *fiber.App, d Deps) {
	consoleHandler := handlers.NewConsoleHandler(d.Renderer, d.Predictions, d.Health, d.Generator)
	apiHandler := handlers.NewAPIHandler(d.Predictions)
	healthHandler := handlers.NewHealthHandler(d.Health, d.Store, d.Redis)

	predictLimit := rateLimiter(d.RateLimitPerMinute)

	app.Get("/health", healthHandler.HealthCheck)
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Loading the page starts over with an empty history.
	app.Get("/", d.Sessions.Fresh, consoleHandler.Index)

	app.Get("/sample", d.Sessions.Resume, consoleHandler.Sample)
	app.Get("/sample/random", d.Sessions.Resume, consoleHandler.RandomSample)
	app.Post("/predict", predictLimit, d.Sessions.Resume, consoleHandler.Submit)
	app.Get("/panel", d.Sessions.Resume, consoleHandler.Panel)

	api := app.Group("/api", d.Sessions.Resume)
	api.Post("/predict", predictLimit, apiHandler.Predict)
	api.Get("/history", apiHandler.History)
}

func rateLimiter(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}
