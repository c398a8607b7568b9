package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/bikeshare-viewer/internal/store"
)

// RegisterHealthRoutes exposes service status and the directory probe history.
func RegisterHealthRoutes(app *fiber.App, service string, probes *store.MemoryStore, mapsEnabled bool) {
	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status":  "ok",
			"service": service,
			"maps":    mapsEnabled,
		}
		if probe, err := probes.Latest(); err == nil {
			status["directory"] = probe
			if !probe.OK() {
				status["status"] = "degraded"
			}
		}
		return c.JSON(status)
	})

	app.Get("/health/probes", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"probes": probes.History()})
	})
}
