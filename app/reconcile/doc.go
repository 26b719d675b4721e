// Package reconcile decides, for every student on the roster, whether the
// present-students feed lists them today and derives an attendance figure.
//
// # Matching
//
// A feed row names a student through one of the name-like keys (Name, name,
// Student Name, Full Name). A roster student matches when, after case
// folding, either name contains the other. Partial names and names with
// titles match; short names can also match more than one student. Both names
// must be non-empty.
//
// # Metrics
//
// The first matching row may carry "Total Days"/"totalDays" and
// "Present Days"/"presentDays". Anything it does not carry comes from an
// AttendanceEstimator. RangeEstimator, the default, draws placeholder figures
// out of fixed ranges because the feeds have no attendance history:
//
//	total days          90
//	present today       [70, 90)
//	absent today        [10, 70)
//
// The output always has one record per roster student, in roster order, with
// TotalDays > 0 and a percentage within [0, 100].
package reconcile
