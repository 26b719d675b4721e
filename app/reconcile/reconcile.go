package reconcile

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"dsu-attendance/app/models"
	"dsu-attendance/app/payload"
)

// Result is the outcome of one reconciliation pass.
type Result struct {
	Records      []models.AttendanceRecord
	PresentCount int
	NameCount    int
	DateCount    int
	Trace        string
}

// Reconciler matches feed rows against the roster.
type Reconciler struct {
	logger    *zap.Logger
	estimator AttendanceEstimator
	now       func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithEstimator replaces the default RangeEstimator.
func WithEstimator(e AttendanceEstimator) Option {
	return func(r *Reconciler) {
		if e != nil {
			r.estimator = e
		}
	}
}

// WithClock sets the source of "today" for LastAttendanceDate.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Reconciler.
func New(logger *zap.Logger, opts ...Option) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reconciler{
		logger:    logger.Named("reconcile"),
		estimator: NewRangeEstimator(nil),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile returns one AttendanceRecord per roster student, in roster order.
// Malformed rows never fail the pass; they are ignored or fall back to
// estimator figures.
func (r *Reconciler) Reconcile(roster []models.Student, records []payload.Record) Result {
	f := newFolder()

	candidates := make([]candidate, 0, len(records))
	dates := 0
	for _, rec := range records {
		if hasDate(rec) {
			dates++
		}
		name := recordName(rec)
		if name == "" {
			continue
		}
		candidates = append(candidates, candidate{folded: f.fold(name), record: rec})
	}

	today := r.now().Format(models.DateLayout)
	out := make([]models.AttendanceRecord, len(roster))
	present := 0

	for i, student := range roster {
		match, ok := firstMatch(f.fold(comparisonName(student)), candidates)

		status := models.Absent
		if ok {
			status = models.Present
			present++
		}

		total := r.estimator.TotalDays()
		days := 0
		var gotDays bool
		if ok {
			if n, found := positiveInt(match.record, totalDaysKeys); found {
				total = n
			}
			days, gotDays = positiveInt(match.record, presentDaysKeys)
		}
		if !gotDays {
			days = r.estimator.PresentDays(status)
		}
		if total <= 0 {
			total = DefaultTotalDays
		}
		days = clamp(days, 0, total)

		rec := models.AttendanceRecord{
			Student:              student,
			PresentDays:          days,
			TotalDays:            total,
			AttendancePercentage: float64(days) / float64(total) * 100,
			Status:               status,
		}
		if ok && dates > 0 {
			d := today
			rec.LastAttendanceDate = &d
		}
		out[i] = rec
	}

	r.logger.Debug("reconciled roster",
		zap.Int("roster", len(roster)),
		zap.Int("records", len(records)),
		zap.Int("names", len(candidates)),
		zap.Int("present", present),
	)

	return Result{
		Records:      out,
		PresentCount: present,
		NameCount:    len(candidates),
		DateCount:    dates,
		Trace:        trace(len(candidates), dates, len(records)-len(candidates), present, len(roster)),
	}
}

func trace(names, dates, skipped, present, total int) string {
	lines := []string{
		fmt.Sprintf("found %d present student names", names),
	}
	if skipped > 0 {
		lines = append(lines, fmt.Sprintf("skipped %d records without a name", skipped))
	}
	lines = append(lines,
		fmt.Sprintf("found %d attendance dates", dates),
		fmt.Sprintf("final result: %d of %d students marked as present", present, total),
	)
	return strings.Join(lines, "\n")
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
