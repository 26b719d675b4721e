package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsu-attendance/app/models"
)

func rec(id, name, dept string, pct float64, status models.AttendanceStatus) models.AttendanceRecord {
	return models.AttendanceRecord{
		Student:              models.Student{ID: id, FullName: name, Department: dept},
		AttendancePercentage: pct,
		Status:               status,
		TotalDays:            90,
	}
}

func sample() []models.AttendanceRecord {
	return []models.AttendanceRecord{
		rec("1", "Aarav Sharma", "BCA", 80, models.Present),
		rec("2", "Diya Nair", "BCA", 40, models.Absent),
		rec("3", "Rohan Verma", "MCA", 95, models.Present),
		rec("4", "Sneha Reddy", "", 74.9, models.Absent),
		rec("5", "Vikram Menon", "MCA", 85, models.Present),
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	s := Summarize(sample(), now)

	assert.Equal(t, 5, s.TotalStudents)
	assert.Equal(t, 3, s.PresentCount)
	assert.Equal(t, 2, s.AbsentCount)
	assert.Equal(t, 75, s.AverageAttendance) // 374.9 / 5 = 74.98
	assert.Equal(t, now, s.LastUpdated)

	empty := Summarize(nil, now)
	assert.Equal(t, 0, empty.AverageAttendance)
}

func TestDistribution(t *testing.T) {
	got := Distribution(sample())
	require.Len(t, got, 4)
	assert.Equal(t, Bucket{Name: "Below 75%", Count: 2}, got[0])
	assert.Equal(t, Bucket{Name: "75% - 85%", Count: 1}, got[1])
	assert.Equal(t, Bucket{Name: "85% - 95%", Count: 1}, got[2])
	assert.Equal(t, Bucket{Name: "Above 95%", Count: 1}, got[3])
}

func TestTop(t *testing.T) {
	records := sample()
	records = append(records, rec("6", "Tie Case", "MBA", 85, models.Present))

	got := Top(records, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "Rohan", got[0].Name)
	assert.Equal(t, "5", got[1].ID, "ties keep roster order")
	assert.Equal(t, "6", got[2].ID)

	assert.Len(t, Top(records, 0), len(records))
	assert.Equal(t, "1", records[0].ID, "input is not reordered")
}

func TestDepartments(t *testing.T) {
	got := Departments(sample())
	require.Len(t, got, 3)

	assert.Equal(t, DepartmentSummary{Department: "BCA", Students: 2, Present: 1, AverageAttendance: 60}, got[0])
	assert.Equal(t, DepartmentSummary{Department: "MCA", Students: 2, Present: 2, AverageAttendance: 90}, got[1])
	assert.Equal(t, "Unassigned", got[2].Department)
	assert.Equal(t, 74.9, got[2].AverageAttendance)
}

func TestFilter(t *testing.T) {
	assert.Len(t, Filter(sample(), "", ""), 5)
	assert.Len(t, Filter(sample(), models.Present, ""), 3)
	assert.Len(t, Filter(sample(), models.Absent, ""), 2)

	got := Filter(sample(), models.Present, "ROHAN")
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	got = Filter(sample(), "", "4")
	require.Len(t, got, 1)
	assert.Equal(t, "Sneha Reddy", got[0].FullName)
}

func TestMonthlyTrend(t *testing.T) {
	days := []models.DayAttendance{
		{Date: "2026-10-19", Present: 3, Total: 4},
		{Date: "2026-09-30", Present: 1, Total: 2},
		{Date: "2026-10-20", Present: 2, Total: 4},
		{Date: "2026-10-21", Present: 0, Total: 0},
	}

	got := MonthlyTrend(days)
	require.Len(t, got, 2)
	assert.Equal(t, MonthSummary{Month: "2026-09", Days: 1, AverageAttendance: 50}, got[0])
	assert.Equal(t, MonthSummary{Month: "2026-10", Days: 2, AverageAttendance: 62.5}, got[1])

	assert.Empty(t, MonthlyTrend(nil))
}
