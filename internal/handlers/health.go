package handlers

import (
	"fraudconsole/internal/cache"
	"fraudconsole/internal/console"
	"fraudconsole/internal/services/health"

	"github.com/gofiber/fiber/v2"
)

// Version is reported by /health.
const Version = "1.0.0"

type HealthHandler struct {
	health health.Service
	store  *console.Store
	redis  *cache.RedisCache
}

// NewHealthHandler builds the handler. redis may be nil when the in-memory
// cache is in use.
func NewHealthHandler(healthService health.Service, store *console.Store, redis *cache.RedisCache) *HealthHandler {
	return &HealthHandler{
		health: healthService,
		store:  store,
		redis:  redis,
	}
}

// HealthCheck reports the console's own liveness. It answers 200 even when
// the scoring API is down; the upstream state is informational.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	services := fiber.Map{
		"scoring": h.scoringStatus(c),
		"cache":   h.cacheStatus(c),
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"version":  Version,
		"sessions": h.store.Len(),
		"services": services,
	})
}

func (h *HealthHandler) scoringStatus(c *fiber.Ctx) fiber.Map {
	status, err := h.health.Status(c.UserContext())
	if err != nil {
		return fiber.Map{"status": "unavailable", "error": err.Error()}
	}
	return fiber.Map{
		"status":       status.Status,
		"version":      status.Version,
		"model_loaded": status.ModelLoaded,
		"model_type":   status.ModelType,
	}
}

func (h *HealthHandler) cacheStatus(c *fiber.Ctx) fiber.Map {
	if h.redis == nil {
		return fiber.Map{"backend": "memory", "status": "connected"}
	}

	out := fiber.Map{"backend": "redis", "status": "connected"}
	if err := h.redis.HealthCheck(c.UserContext()); err != nil {
		out["status"] = "disconnected"
		out["error"] = err.Error()
	}

	poolStats := h.redis.Stats()
	out["pool_stats"] = fiber.Map{
		"hits":        poolStats.Hits,
		"misses":      poolStats.Misses,
		"timeouts":    poolStats.Timeouts,
		"total_conns": poolStats.TotalConns,
		"idle_conns":  poolStats.IdleConns,
		"stale_conns": poolStats.StaleConns,
	}
	return out
}
