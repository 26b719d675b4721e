package attendance

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"dsu-attendance/app/models"
	"dsu-attendance/app/reports"
	"dsu-attendance/app/services"
)

type Handler struct {
	svc *services.AttendanceService
}

// ListAttendanceAPI returns the reconciled roster, optionally filtered by
// ?status=present|absent and a ?q= name or ID search.
func (h *Handler) ListAttendanceAPI(c *fiber.Ctx) error {
	var status models.AttendanceStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := models.ParseAttendanceStatus(raw)
		if !ok {
			return c.Status(400).JSON(fiber.Map{"error": "status must be present or absent"})
		}
		status = parsed
	}
	return h.list(c, status)
}

func (h *Handler) PresentAPI(c *fiber.Ctx) error {
	return h.list(c, models.Present)
}

func (h *Handler) AbsentAPI(c *fiber.Ctx) error {
	return h.list(c, models.Absent)
}

func (h *Handler) list(c *fiber.Ctx, status models.AttendanceStatus) error {
	snap := h.svc.Current(c.UserContext())
	records := reports.Filter(snap.Records, status, c.Query("q"))

	return c.JSON(fiber.Map{
		"records":      records,
		"count":        len(records),
		"last_updated": snap.UpdatedAt,
		"last_error":   snap.LastError,
	})
}

// RefreshAPI re-reads the present feed and returns the new overview. A failed
// fetch still answers 200 with last_error set and the previous records.
func (h *Handler) RefreshAPI(c *fiber.Ctx) error {
	snap, _ := h.svc.Refresh(c.UserContext())

	summary := reports.Summarize(snap.Records, snap.UpdatedAt)
	summary.Trace = snap.Trace
	summary.LastError = snap.LastError
	return c.JSON(summary)
}

// CalendarAPI returns the day recorded for ?date=YYYY-MM-DD, or every
// recorded day (narrowed by ?month=YYYY-MM) when no date is given.
func (h *Handler) CalendarAPI(c *fiber.Ctx) error {
	h.svc.Current(c.UserContext())

	if date := c.Query("date"); date != "" {
		if _, err := time.Parse(models.DateLayout, date); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
		}
		day, ok := h.svc.Day(date)
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "No attendance recorded for " + date})
		}
		return c.JSON(day)
	}

	days := h.svc.Calendar()
	if month := c.Query("month"); month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "month must be YYYY-MM"})
		}
		filtered := days[:0]
		for _, d := range days {
			if strings.HasPrefix(d.Date, month+"-") {
				filtered = append(filtered, d)
			}
		}
		days = filtered
	}

	return c.JSON(fiber.Map{
		"days":  days,
		"count": len(days),
	})
}
