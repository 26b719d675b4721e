package models

import "time"

// AttendanceRecord is a roster student with the attendance derived for the
// current reconciliation pass.
type AttendanceRecord struct {
	Student
	PresentDays          int              `json:"Present Days"`
	TotalDays            int              `json:"Total Days"`
	AttendancePercentage float64          `json:"Attendance Percentage"`
	Status               AttendanceStatus `json:"Status"`
	LastAttendanceDate   *string          `json:"Last Attendance,omitempty"`
}

// AttendanceSummary backs the overview cards of the dashboard.
type AttendanceSummary struct {
	TotalStudents     int       `json:"total_students"`
	PresentCount      int       `json:"present_count"`
	AbsentCount       int       `json:"absent_count"`
	AverageAttendance int       `json:"average_attendance"`
	LastUpdated       time.Time `json:"last_updated"`
	Trace             string    `json:"trace"`
	LastError         string    `json:"last_error,omitempty"`
}

// DateLayout is the calendar date format used in feeds and responses.
const DateLayout = "2006-01-02"

// DayAttendance is the tally kept for one calendar day, taken from the last
// successful refresh of that day.
type DayAttendance struct {
	Date      string    `json:"date"`
	Present   int       `json:"present"`
	Total     int       `json:"total"`
	Absentees []string  `json:"absentees"`
	UpdatedAt time.Time `json:"updated_at"`
}
