package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"dsu-attendance/app/feeds"
	"dsu-attendance/app/models"
	"dsu-attendance/app/payload"
	"dsu-attendance/app/reconcile"
	"dsu-attendance/app/reports"
	"dsu-attendance/app/roster"
)

// Fetcher is the part of feeds.Client the service needs.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (payload.Value, error)
}

// Snapshot is the latest reconciled view of the roster.
type Snapshot struct {
	Records   []models.AttendanceRecord
	Trace     string
	UpdatedAt time.Time
	LastError string
	Loaded    bool
}

// AttendanceService fetches the present-students feed, reconciles it with
// the roster and keeps the result for the HTTP handlers.
type AttendanceService struct {
	logger     *zap.Logger
	fetcher    Fetcher
	reconciler *reconcile.Reconciler
	students   []models.Student
	presentURL string
	rosterURL  string
	now        func() time.Time

	refreshMu sync.Mutex

	mu        sync.RWMutex
	snapshot  Snapshot
	attempted bool
	history   map[string]models.DayAttendance
}

// maxHistoryDays bounds the calendar kept in memory.
const maxHistoryDays = 400

type AttendanceServiceOptions struct {
	PresentURL string
	RosterURL  string
	// Roster defaults to the embedded table.
	Roster []models.Student
	// Reconciler defaults to reconcile.New with the range estimator.
	Reconciler *reconcile.Reconciler
	Now        func() time.Time
}

func NewAttendanceService(fetcher Fetcher, logger *zap.Logger, opts AttendanceServiceOptions) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Roster == nil {
		opts.Roster = roster.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Reconciler == nil {
		opts.Reconciler = reconcile.New(logger, reconcile.WithClock(opts.Now))
	}
	return &AttendanceService{
		logger:     logger.Named("attendance"),
		fetcher:    fetcher,
		reconciler: opts.Reconciler,
		students:   opts.Roster,
		presentURL: opts.PresentURL,
		rosterURL:  opts.RosterURL,
		now:        opts.Now,
		history:    make(map[string]models.DayAttendance),
	}
}

// Refresh pulls the present-students feed and replaces the snapshot. When the
// fetch fails the previous records stay in place and only LastError changes.
func (s *AttendanceService) Refresh(ctx context.Context) (Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refresh(ctx)
}

// refresh must be called with refreshMu held.
func (s *AttendanceService) refresh(ctx context.Context) (Snapshot, error) {
	v, err := s.fetcher.Fetch(ctx, s.presentURL)
	if err != nil {
		s.logger.Warn("attendance refresh failed", zap.Error(err))
		s.mu.Lock()
		s.attempted = true
		s.snapshot.LastError = fmt.Sprintf("Failed to load attendance data: %v", err)
		snap := s.snapshot
		s.mu.Unlock()
		return snap, err
	}

	records, normTrace := payload.Normalize(v)
	res := s.reconciler.Reconcile(s.students, records)

	trace := strings.Join([]string{
		fmt.Sprintf("API response type: %s", v.Kind()),
		normTrace,
		payload.Sample(records),
		res.Trace,
	}, "\n")

	snap := Snapshot{
		Records:   res.Records,
		Trace:     trace,
		UpdatedAt: s.now(),
		Loaded:    true,
	}
	s.mu.Lock()
	s.attempted = true
	s.snapshot = snap
	s.record(snap)
	s.mu.Unlock()

	s.logger.Info("attendance refreshed",
		zap.Int("records", len(records)),
		zap.Int("present", res.PresentCount),
		zap.Int("roster", len(s.students)),
	)
	return snap, nil
}

// record stores the day's tally of snap, replacing an earlier refresh of the
// same day. Must be called with mu held.
func (s *AttendanceService) record(snap Snapshot) {
	day := models.DayAttendance{
		Date:      snap.UpdatedAt.Format(models.DateLayout),
		Total:     len(snap.Records),
		Absentees: []string{},
		UpdatedAt: snap.UpdatedAt,
	}
	for _, r := range snap.Records {
		if r.Status == models.Present {
			day.Present++
		} else {
			day.Absentees = append(day.Absentees, r.ID)
		}
	}
	s.history[day.Date] = day

	if len(s.history) <= maxHistoryDays {
		return
	}
	dates := make([]string, 0, len(s.history))
	for d := range s.history {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates[:len(dates)-maxHistoryDays] {
		delete(s.history, d)
	}
}

// Current returns the snapshot. The first caller loads it; concurrent first
// callers wait for that load instead of fetching again. After one attempt,
// failed or not, further loads are left to Refresh.
func (s *AttendanceService) Current(ctx context.Context) Snapshot {
	if snap, ok := s.settled(); ok {
		return snap
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if snap, ok := s.settled(); ok {
		return snap
	}
	snap, _ := s.refresh(ctx)
	return snap
}

func (s *AttendanceService) settled() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.attempted
}

// Calendar returns the recorded days, oldest first.
func (s *AttendanceService) Calendar() []models.DayAttendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DayAttendance, 0, len(s.history))
	for _, d := range s.history {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Day returns the tally recorded for date (YYYY-MM-DD).
func (s *AttendanceService) Day(date string) (models.DayAttendance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.history[date]
	return d, ok
}

// Summary is the overview for the current snapshot.
func (s *AttendanceService) Summary(ctx context.Context) models.AttendanceSummary {
	snap := s.Current(ctx)
	summary := reports.Summarize(snap.Records, snap.UpdatedAt)
	summary.Trace = snap.Trace
	summary.LastError = snap.LastError
	return summary
}

// Students returns the roster feed, or the embedded roster when the feed is
// unset or unusable. The string says which source was used.
func (s *AttendanceService) Students(ctx context.Context) ([]models.Student, string) {
	v, err := s.fetcher.Fetch(ctx, s.rosterURL)
	if err != nil {
		if !errors.Is(err, feeds.ErrNotConfigured) {
			s.logger.Warn("roster feed failed, using embedded roster", zap.Error(err))
		}
		return s.embedded(), fmt.Sprintf("embedded roster (%v)", err)
	}

	records, trace := payload.Normalize(v, payload.WithIDProperty("ID No"))
	list := roster.FromRecords(records)
	if len(list) == 0 {
		return s.embedded(), trace + "\nno usable rows, using embedded roster"
	}
	return list, trace
}

func (s *AttendanceService) embedded() []models.Student {
	out := make([]models.Student, len(s.students))
	copy(out, s.students)
	return out
}
