package students

import (
	"github.com/gofiber/fiber/v2"

	"dsu-attendance/app/services"
)

func SetupStudentsRoutes(app *fiber.App, svc *services.AttendanceService, protect fiber.Handler) {
	h := &Handler{svc: svc}

	api := app.Group("/api/students")
	api.Use(protect)
	api.Get("/", h.GetStudentsAPI)
	api.Get("/:id", h.GetStudentByIDAPI)
}
