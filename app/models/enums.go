package models

import "strings"

// AttendanceStatus defines the possible status values for attendance.
type AttendanceStatus string

const (
	Present AttendanceStatus = "Present"
	Absent  AttendanceStatus = "Absent"
)

// ParseAttendanceStatus accepts "present"/"absent" in any case.
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present":
		return Present, true
	case "absent":
		return Absent, true
	}
	return "", false
}
