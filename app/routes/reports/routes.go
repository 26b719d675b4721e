package reports

import (
	"github.com/gofiber/fiber/v2"

	"dsu-attendance/app/reports"
	"dsu-attendance/app/services"
)

const defaultTopLimit = 10

func SetupReportsRoutes(app *fiber.App, svc *services.AttendanceService, protect fiber.Handler) {
	api := app.Group("/api/reports")
	api.Use(protect)

	api.Get("/distribution", func(c *fiber.Ctx) error {
		snap := svc.Current(c.UserContext())
		return c.JSON(fiber.Map{"buckets": reports.Distribution(snap.Records)})
	})

	api.Get("/top", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", defaultTopLimit)
		if limit <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "limit must be positive"})
		}
		snap := svc.Current(c.UserContext())
		return c.JSON(fiber.Map{"students": reports.Top(snap.Records, limit)})
	})

	api.Get("/departments", func(c *fiber.Ctx) error {
		snap := svc.Current(c.UserContext())
		return c.JSON(fiber.Map{"departments": reports.Departments(snap.Records)})
	})

	api.Get("/monthly", func(c *fiber.Ctx) error {
		svc.Current(c.UserContext())
		return c.JSON(fiber.Map{"months": reports.MonthlyTrend(svc.Calendar())})
	})
}
