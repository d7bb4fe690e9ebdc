package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-lms-api/internal/config"
	"github.com/noah-isme/gema-lms-api/internal/utils"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger func(ctx context.Context) error

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Environment  string            `json:"environment"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HealthCheck returns a handler that reports application health. A failing dependency
// marks the service as degraded without failing the health check.
func HealthCheck(cfg config.Config, checks map[string]Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		if len(checks) > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()

			payload.Dependencies = make(map[string]string, len(checks))
			for name, ping := range checks {
				if err := ping(ctx); err != nil {
					payload.Dependencies[name] = "down"
					payload.Status = "degraded"
					continue
				}
				payload.Dependencies[name] = "up"
			}
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
