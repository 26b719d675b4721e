package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dsu-attendance/app/models"
	"dsu-attendance/app/payload"
	"dsu-attendance/app/reconcile"
	"dsu-attendance/app/reports"
	"dsu-attendance/app/roster"
)

func reconcileCmd() *cobra.Command {
	var (
		rosterFile string
		seed       int64
		today      string
	)

	cmd := &cobra.Command{
		Use:   "reconcile <file|url|->",
		Short: "Reconcile a present-students payload against the roster",
		Long: `Match the names in a present-students payload against the roster and print
one attendance record per student, with the summary and trace.

Examples:
  # Against the built-in roster, reproducible estimates
  attendancectl reconcile --seed 1 present.json

  # Against another roster table
  attendancectl reconcile --roster students.json present.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			students := roster.Default()
			if rosterFile != "" {
				data, err := os.ReadFile(rosterFile)
				if err != nil {
					return fmt.Errorf("read roster: %w", err)
				}
				if students, err = roster.Parse(data); err != nil {
					return err
				}
			}

			now := time.Now()
			if today != "" {
				t, err := time.Parse(models.DateLayout, today)
				if err != nil {
					return fmt.Errorf("--today: %w", err)
				}
				now = t
			}

			opts := []reconcile.Option{reconcile.WithClock(func() time.Time { return now })}
			if seed != 0 {
				opts = append(opts, reconcile.WithEstimator(reconcile.NewRangeEstimator(rand.NewSource(seed))))
			}

			v, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			records, trace := payload.Normalize(v)
			res := reconcile.New(newLogger(), opts...).Reconcile(students, records)

			summary := reports.Summarize(res.Records, now)
			summary.Trace = trace + "\n" + res.Trace
			return printJSON(cmd, struct {
				Summary models.AttendanceSummary  `json:"summary"`
				Records []models.AttendanceRecord `json:"records"`
			}{summary, res.Records})
		},
	}

	cmd.Flags().StringVar(&rosterFile, "roster", "", "Roster table JSON (defaults to the built-in roster)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for estimated attendance days (0 picks one from the clock)")
	cmd.Flags().StringVar(&today, "today", "", "Date recorded as the last attendance, YYYY-MM-DD")
	return cmd
}
