package dashboard

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dsu-attendance/app/models"
	"dsu-attendance/app/payload"
	"dsu-attendance/app/services"
)

type fetchFunc func(ctx context.Context, url string) (payload.Value, error)

func (f fetchFunc) Fetch(ctx context.Context, url string) (payload.Value, error) { return f(ctx, url) }

func overview(t *testing.T, f fetchFunc, protect fiber.Handler) (*http.Response, models.AttendanceSummary) {
	t.Helper()
	svc := services.NewAttendanceService(f, zap.NewNop(), services.AttendanceServiceOptions{
		PresentURL: "present",
		Roster: []models.Student{
			{ID: "1", FullName: "Aarav Sharma"},
			{ID: "2", FullName: "Diya Nair"},
		},
	})
	app := fiber.New()
	SetupDashboardRoutes(app, svc, protect)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/overview", nil), -1)
	require.NoError(t, err)

	var summary models.AttendanceSummary
	if resp.StatusCode == http.StatusOK {
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, sonic.Unmarshal(data, &summary))
	}
	return resp, summary
}

func pass(c *fiber.Ctx) error { return c.Next() }

func TestGetOverviewAPI(t *testing.T) {
	resp, summary := overview(t, func(context.Context, string) (payload.Value, error) {
		return payload.Decode([]byte(`[{"Name":"Diya Nair","Date":"2026-10-19"}]`))
	}, pass)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, summary.TotalStudents)
	assert.Equal(t, 1, summary.PresentCount)
	assert.Equal(t, 1, summary.AbsentCount)
	assert.GreaterOrEqual(t, summary.AverageAttendance, 0)
	assert.LessOrEqual(t, summary.AverageAttendance, 100)
	assert.False(t, summary.LastUpdated.IsZero())
	assert.Contains(t, summary.Trace, "data is an array with 1 items")
}

func TestGetOverviewAPI_FeedDown(t *testing.T) {
	resp, summary := overview(t, func(context.Context, string) (payload.Value, error) {
		return payload.Null(), errors.New("upstream unavailable")
	}, pass)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, summary.TotalStudents)
	assert.Contains(t, summary.LastError, "upstream unavailable")
}

func TestGetOverviewAPI_Protected(t *testing.T) {
	deny := func(c *fiber.Ctx) error {
		return c.Status(401).JSON(fiber.Map{"error": "No token found"})
	}
	resp, _ := overview(t, func(context.Context, string) (payload.Value, error) {
		t.Fatal("feed must not be read for unauthenticated requests")
		return payload.Null(), nil
	}, deny)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
