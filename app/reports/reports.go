package reports

import (
	"math"
	"sort"
	"strings"
	"time"

	"dsu-attendance/app/models"
)

// Bucket counts students whose percentage falls into a band.
type Bucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DepartmentSummary aggregates one department.
type DepartmentSummary struct {
	Department        string  `json:"department"`
	Students          int     `json:"students"`
	Present           int     `json:"present"`
	AverageAttendance float64 `json:"average_attendance"`
}

// TopStudent is one bar of the top attendance chart.
type TopStudent struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	AttendancePercentage float64 `json:"attendance"`
}

const unassigned = "Unassigned"

// Summarize builds the overview cards. The average is rounded to a whole percent.
func Summarize(records []models.AttendanceRecord, updated time.Time) models.AttendanceSummary {
	s := models.AttendanceSummary{TotalStudents: len(records), LastUpdated: updated}
	sum := 0.0
	for _, r := range records {
		if r.Status == models.Present {
			s.PresentCount++
		} else {
			s.AbsentCount++
		}
		sum += r.AttendancePercentage
	}
	if len(records) > 0 {
		s.AverageAttendance = int(math.Round(sum / float64(len(records))))
	}
	return s
}

// Distribution sorts students into the four attendance bands.
func Distribution(records []models.AttendanceRecord) []Bucket {
	buckets := []Bucket{
		{Name: "Below 75%"},
		{Name: "75% - 85%"},
		{Name: "85% - 95%"},
		{Name: "Above 95%"},
	}
	for _, r := range records {
		switch p := r.AttendancePercentage; {
		case p < 75:
			buckets[0].Count++
		case p < 85:
			buckets[1].Count++
		case p < 95:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}
	return buckets
}

// Top returns the limit highest percentages. Ties keep roster order.
func Top(records []models.AttendanceRecord, limit int) []TopStudent {
	sorted := make([]models.AttendanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AttendancePercentage > sorted[j].AttendancePercentage
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]TopStudent, len(sorted))
	for i, r := range sorted {
		out[i] = TopStudent{ID: r.ID, Name: firstName(r.Student), AttendancePercentage: r.AttendancePercentage}
	}
	return out
}

func firstName(s models.Student) string {
	if s.FirstName != "" {
		return s.FirstName
	}
	if fields := strings.Fields(s.FullName); len(fields) > 0 {
		return fields[0]
	}
	return s.ID
}

// Departments aggregates per department, sorted by name.
func Departments(records []models.AttendanceRecord) []DepartmentSummary {
	index := map[string]*DepartmentSummary{}
	sums := map[string]float64{}
	for _, r := range records {
		name := strings.TrimSpace(r.Department)
		if name == "" {
			name = unassigned
		}
		d, ok := index[name]
		if !ok {
			d = &DepartmentSummary{Department: name}
			index[name] = d
		}
		d.Students++
		if r.Status == models.Present {
			d.Present++
		}
		sums[name] += r.AttendancePercentage
	}

	out := make([]DepartmentSummary, 0, len(index))
	for name, d := range index {
		d.AverageAttendance = math.Round(sums[name]/float64(d.Students)*10) / 10
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// Filter keeps records with the given status (empty keeps all) whose name or
// ID No contains q, ignoring case.
func Filter(records []models.AttendanceRecord, status models.AttendanceStatus, q string) []models.AttendanceRecord {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]models.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if status != "" && r.Status != status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(r.FullName), q) &&
			!strings.Contains(strings.ToLower(r.ID), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MonthSummary is one point of the monthly attendance trend.
type MonthSummary struct {
	Month             string  `json:"month"`
	Days              int     `json:"days"`
	AverageAttendance float64 `json:"average_attendance"`
}

// MonthlyTrend averages the daily present rate per month (YYYY-MM), oldest
// first. Days with no students are skipped.
func MonthlyTrend(days []models.DayAttendance) []MonthSummary {
	index := map[string]*MonthSummary{}
	sums := map[string]float64{}
	for _, d := range days {
		if d.Total <= 0 || len(d.Date) < len("2006-01") {
			continue
		}
		month := d.Date[:len("2006-01")]
		m, ok := index[month]
		if !ok {
			m = &MonthSummary{Month: month}
			index[month] = m
		}
		m.Days++
		sums[month] += float64(d.Present) / float64(d.Total) * 100
	}

	out := make([]MonthSummary, 0, len(index))
	for month, m := range index {
		m.AverageAttendance = math.Round(sums[month]/float64(m.Days)*10) / 10
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
