package attendance

import (
	"github.com/gofiber/fiber/v2"

	"dsu-attendance/app/services"
)

func SetupAttendanceRoutes(app *fiber.App, svc *services.AttendanceService, protect fiber.Handler) {
	h := &Handler{svc: svc}

	api := app.Group("/api/attendance")
	api.Use(protect)
	api.Get("/", h.ListAttendanceAPI)
	api.Get("/present", h.PresentAPI)
	api.Get("/absent", h.AbsentAPI)
	api.Get("/calendar", h.CalendarAPI)
	api.Post("/refresh", h.RefreshAPI)
}
