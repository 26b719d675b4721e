package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"dsu-attendance/app/services"
)

func SetupDashboardRoutes(app *fiber.App, svc *services.AttendanceService, protect fiber.Handler) {
	api := app.Group("/api/dashboard")
	api.Use(protect)
	api.Get("/overview", GetOverviewAPI(svc))
}

// GetOverviewAPI returns the counts behind the dashboard cards.
func GetOverviewAPI(svc *services.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Summary(c.UserContext()))
	}
}
