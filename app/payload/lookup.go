package payload

import (
	"strings"

	"github.com/bytedance/sonic"
)

// DefaultIDCandidates are the keys the feeds have been seen to use for a
// student identifier, most specific first.
var DefaultIDCandidates = []string{"ID No", "id", "ID", "studentId", "student_id", "rollNo", "roll_no"}

// Lookup walks a dotted path ("guardian.phone") through nested objects and
// returns def when any step is missing or not an object.
func Lookup(rec Record, path string, def any) any {
	if rec == nil {
		return def
	}
	var current any = map[string]any(rec)
	for _, part := range strings.Split(path, ".") {
		obj, ok := asObject(current)
		if !ok {
			return def
		}
		next, ok := obj[part]
		if !ok {
			return def
		}
		current = next
	}
	if current == nil {
		return def
	}
	return current
}

func asObject(x any) (map[string]any, bool) {
	switch t := x.(type) {
	case map[string]any:
		return t, true
	case Record:
		return t, true
	default:
		return nil, false
	}
}

// DetectIDProperty returns the first candidate key present on rec, or "".
func DetectIDProperty(rec Record, candidates ...string) string {
	if rec == nil {
		return ""
	}
	if len(candidates) == 0 {
		candidates = DefaultIDCandidates
	}
	for _, key := range candidates {
		if _, ok := rec[key]; ok {
			return key
		}
	}
	return ""
}

const sampleLimit = 100

// Sample renders the first record as compact JSON for a trace line.
func Sample(records []Record) string {
	if len(records) == 0 {
		return "no records found in the data"
	}
	out, err := sonic.ConfigStd.MarshalToString(records[0])
	if err != nil {
		return "sample record: <unprintable>"
	}
	if len(out) > sampleLimit {
		out = out[:sampleLimit] + "..."
	}
	return "sample record: " + out
}
