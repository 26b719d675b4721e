package reconcile

import (
	"math/rand"
	"sync"
	"time"

	"dsu-attendance/app/models"
)

const (
	DefaultTotalDays = 90

	presentMin = 70
	presentMax = 90
	absentMin  = 10
	absentMax  = 70
)

// AttendanceEstimator supplies the figures a feed row does not carry.
type AttendanceEstimator interface {
	// TotalDays is the number of working days in the period. Must be > 0.
	TotalDays() int
	// PresentDays estimates days attended for a student with the given status today.
	PresentDays(status models.AttendanceStatus) int
}

// RangeEstimator draws present days uniformly from a half-open range chosen
// by status. Safe for concurrent use. A literal RangeEstimator seeds itself
// from the clock on first use.
type RangeEstimator struct {
	Total      int
	PresentMin int
	PresentMax int
	AbsentMin  int
	AbsentMax  int

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRangeEstimator returns the default placeholder estimator. A nil source
// is seeded from the clock.
func NewRangeEstimator(src rand.Source) *RangeEstimator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &RangeEstimator{
		Total:      DefaultTotalDays,
		PresentMin: presentMin,
		PresentMax: presentMax,
		AbsentMin:  absentMin,
		AbsentMax:  absentMax,
		rnd:        rand.New(src),
	}
}

func (e *RangeEstimator) TotalDays() int {
	if e.Total <= 0 {
		return DefaultTotalDays
	}
	return e.Total
}

func (e *RangeEstimator) PresentDays(status models.AttendanceStatus) int {
	lo, hi := e.AbsentMin, e.AbsentMax
	if status == models.Present {
		lo, hi = e.PresentMin, e.PresentMax
	}
	if hi <= lo {
		return lo
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return lo + e.rnd.Intn(hi-lo)
}
