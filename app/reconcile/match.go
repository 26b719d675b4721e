package reconcile

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"dsu-attendance/app/models"
	"dsu-attendance/app/payload"
)

// NameKeys are the record keys that may hold a present student's name,
// checked in order. Dotted keys reach into nested objects.
var NameKeys = []string{"Name", "name", "Student Name", "Full Name", "student.name"}

var (
	totalDaysKeys   = []string{"Total Days", "totalDays"}
	presentDaysKeys = []string{"Present Days", "presentDays"}
	dateKeys        = []string{"Date", "date"}
)

// candidate is a feed row that names a student.
type candidate struct {
	folded string
	record payload.Record
}

// folder case-folds names for comparison. cases.Caser keeps state, so each
// reconciliation pass gets its own.
type folder struct {
	caser cases.Caser
}

func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return f.caser.String(norm.NFC.String(s))
}

// recordName returns the first non-blank string among NameKeys.
func recordName(rec payload.Record) string {
	for _, key := range NameKeys {
		if s, ok := payload.Lookup(rec, key, nil).(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// comparisonName is the trimmed full name, or "first last" when it is blank.
func comparisonName(s models.Student) string {
	if name := strings.TrimSpace(s.FullName); name != "" {
		return name
	}
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// namesMatch reports whether either folded name contains the other.
func namesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// firstMatch returns the first candidate whose name matches name.
func firstMatch(name string, candidates []candidate) (candidate, bool) {
	for _, c := range candidates {
		if namesMatch(c.folded, name) {
			return c, true
		}
	}
	return candidate{}, false
}

// positiveInt reads the first key holding a number (or numeric string) > 0.
// Zero, negatives and junk fall through to the next key, then to "not found".
func positiveInt(rec payload.Record, keys []string) (int, bool) {
	for _, key := range keys {
		f, ok := number(rec[key])
		if !ok {
			continue
		}
		n := int(math.Round(f))
		if n > 0 {
			return n, true
		}
	}
	return 0, false
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func hasDate(rec payload.Record) bool {
	for _, key := range dateKeys {
		switch t := rec[key].(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				return true
			}
		case float64:
			return true
		}
	}
	return false
}
