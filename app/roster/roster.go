package roster

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"dsu-attendance/app/models"
	"dsu-attendance/app/payload"
)

//go:embed students.json
var embeddedStudents []byte

var (
	loadOnce sync.Once
	students []models.Student
	loadErr  error

	validate = validator.New()
)

// Default returns the enrolled roster compiled into the binary. The returned
// slice is a copy; the table itself is never modified.
func Default() []models.Student {
	loadOnce.Do(func() {
		students, loadErr = Parse(embeddedStudents)
	})
	if loadErr != nil {
		panic(fmt.Sprintf("embedded roster is invalid: %v", loadErr))
	}
	out := make([]models.Student, len(students))
	copy(out, students)
	return out
}

// Parse decodes and validates a roster table.
func Parse(data []byte) ([]models.Student, error) {
	var list []models.Student
	if err := sonic.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	seen := make(map[string]struct{}, len(list))
	for i := range list {
		if err := validate.Struct(list[i]); err != nil {
			return nil, fmt.Errorf("roster row %d: %w", i, err)
		}
		if _, dup := seen[list[i].ID]; dup {
			return nil, fmt.Errorf("roster row %d: duplicate ID No %q", i, list[i].ID)
		}
		seen[list[i].ID] = struct{}{}
	}
	return list, nil
}

// FromRecords maps roster feed rows onto Student. Rows with no identifier
// under any known id key are skipped.
func FromRecords(records []payload.Record) []models.Student {
	out := make([]models.Student, 0, len(records))
	for _, rec := range records {
		idKey := payload.DetectIDProperty(rec)
		if idKey == "" {
			continue
		}
		s := models.Student{
			ID:          text(rec[idKey]),
			FirstName:   text(rec["First Name"]),
			LastName:    text(rec["Last Name"]),
			FullName:    text(rec["Full Name"]),
			Department:  text(rec["Department"]),
			DateOfBirth: text(rec["Date of Birth"]),
			Address:     text(rec["Address"]),
			BloodGroup:  text(rec["Blood Group"]),
			Email:       text(rec["Email"]),
		}
		if s.ID == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Search keeps the students whose full name, ID No or email contains q,
// ignoring case. An empty query keeps everyone.
func Search(list []models.Student, q string) []models.Student {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return list
	}
	out := make([]models.Student, 0, len(list))
	for _, s := range list {
		if strings.Contains(strings.ToLower(s.FullName), q) ||
			strings.Contains(strings.ToLower(s.ID), q) ||
			strings.Contains(strings.ToLower(s.Email), q) {
			out = append(out, s)
		}
	}
	return out
}
