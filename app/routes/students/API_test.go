package students

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

type fetcher struct {
	roster string
	err    error
}

func (f fetcher) Fetch(_ context.Context, url string) (payload.Value, error) {
	if f.err != nil {
		return payload.Null(), f.err
	}
	if url == "roster" {
		return payload.Decode([]byte(f.roster))
	}
	return payload.Decode([]byte(`[{"Name":"Meera Iyer"}]`))
}

var embedded = []models.Student{
	{ID: "24MBA001", FullName: "Meera Iyer", Email: "meera.iyer@dsu.edu.in"},
	{ID: "24MBA002", FullName: "Kabir Singh", Email: "kabir.singh@dsu.edu.in"},
}

func newTestApp(f fetcher) *fiber.App {
	svc := services.NewAttendanceService(f, zap.NewNop(), services.AttendanceServiceOptions{
		PresentURL: "present",
		RosterURL:  "roster",
		Roster:     embedded,
	})
	app := fiber.New()
	SetupStudentsRoutes(app, svc, func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(data, &out))
	return resp.StatusCode, out
}

func TestGetStudentsAPI_FromFeed(t *testing.T) {
	app := newTestApp(fetcher{roster: `{"rows":[
		{"ID No":"24BCA001","Full Name":"Aarav Sharma","Email":"aarav@dsu.edu.in"},
		{"ID No":"24BCA002","Full Name":"Diya Nair","Email":"diya@dsu.edu.in"}
	]}`})

	status, body := get(t, app, "/api/students")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])
	assert.Equal(t, "found array in property 'rows' with 2 items", body["source"])

	_, body = get(t, app, "/api/students?q=DIYA@")
	assert.EqualValues(t, 1, body["count"])
}

func TestGetStudentsAPI_Fallback(t *testing.T) {
	app := newTestApp(fetcher{err: errors.New("timeout")})

	status, body := get(t, app, "/api/students?q=24mba002")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])
	assert.Contains(t, body["source"], "embedded roster")
}

func TestGetStudentByIDAPI(t *testing.T) {
	app := newTestApp(fetcher{roster: `[]`})

	status, body := get(t, app, "/api/students/24MBA001")
	require.Equal(t, http.StatusOK, status)
	student := body["student"].(map[string]any)
	assert.Equal(t, "Meera Iyer", student["Full Name"])
	attendance := body["attendance"].(map[string]any)
	assert.Equal(t, "Present", attendance["Status"])

	status, _ = get(t, app, "/api/students/nobody")
	assert.Equal(t, http.StatusNotFound, status)
}
