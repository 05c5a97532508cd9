// Package ops exposes the operational HTTP surface of the bot: liveness and
// a small sales stats endpoint. User-facing traffic never goes through here.
package ops

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "flowmarket/internal/log"
	"flowmarket/internal/repos"
)

func New(workflows *repos.WorkflowRepo, purchases *repos.PurchaseRepo, deliveries *repos.DeliveryLogRepo) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(requestid.New())
	app.Use(limiter.New(limiter.Config{Max: 60, Expiration: time.Minute}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	app.Get("/stats", func(c *fiber.Ctx) error {
		purchaseCount, err := purchases.Count()
		if err != nil {
			return statsUnavailable(c, err)
		}
		revenue, err := purchases.Revenue()
		if err != nil {
			return statsUnavailable(c, err)
		}
		workflowCount, err := workflows.Count()
		if err != nil {
			return statsUnavailable(c, err)
		}
		failures, err := deliveries.FailureCount()
		if err != nil {
			return statsUnavailable(c, err)
		}
		return c.JSON(fiber.Map{
			"purchases":         purchaseCount,
			"revenue":           revenue,
			"workflows":         workflowCount,
			"delivery_failures": failures,
		})
	})

	return app
}

func statsUnavailable(c *fiber.Ctx, err error) error {
	applog.Error("ops.stats", 0, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "stats unavailable"})
}
