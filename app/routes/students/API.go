package students

import (
	"github.com/gofiber/fiber/v2"

	"dsu-attendance/app/roster"
	"dsu-attendance/app/services"
)

type Handler struct {
	svc *services.AttendanceService
}

// GetStudentsAPI lists the roster, searched by ?q= over name, ID No and email.
func (h *Handler) GetStudentsAPI(c *fiber.Ctx) error {
	list, source := h.svc.Students(c.UserContext())
	list = roster.Search(list, c.Query("q"))

	return c.JSON(fiber.Map{
		"students": list,
		"count":    len(list),
		"source":   source,
	})
}

// GetStudentByIDAPI returns one student with their current attendance.
func (h *Handler) GetStudentByIDAPI(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Student ID is required"})
	}

	list, _ := h.svc.Students(c.UserContext())
	for _, s := range list {
		if s.ID != id {
			continue
		}
		resp := fiber.Map{"student": s}
		for _, r := range h.svc.Current(c.UserContext()).Records {
			if r.ID == id {
				resp["attendance"] = r
				break
			}
		}
		return c.JSON(resp)
	}
	return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
}
