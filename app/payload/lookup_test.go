package payload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	rec := Record{
		"Name": "Asha Rao",
		"guardian": map[string]any{
			"phone": "98450",
			"address": map[string]any{
				"city": "Bengaluru",
			},
		},
		"empty": nil,
	}

	assert.Equal(t, "Asha Rao", Lookup(rec, "Name", nil))
	assert.Equal(t, "98450", Lookup(rec, "guardian.phone", nil))
	assert.Equal(t, "Bengaluru", Lookup(rec, "guardian.address.city", nil))
	assert.Equal(t, "n/a", Lookup(rec, "guardian.email", "n/a"))
	assert.Equal(t, "n/a", Lookup(rec, "Name.first", "n/a"))
	assert.Equal(t, "n/a", Lookup(rec, "empty", "n/a"))
	assert.Equal(t, 0, Lookup(nil, "Name", 0))
}

func TestDetectIDProperty(t *testing.T) {
	assert.Equal(t, "ID No", DetectIDProperty(Record{"ID No": "1", "id": "2"}))
	assert.Equal(t, "student_id", DetectIDProperty(Record{"student_id": "1", "Name": "x"}))
	assert.Equal(t, "", DetectIDProperty(Record{"Name": "x"}))
	assert.Equal(t, "", DetectIDProperty(nil))
	assert.Equal(t, "Roll", DetectIDProperty(Record{"Roll": 4, "id": 1}, "Roll", "id"))
}

func TestSample(t *testing.T) {
	assert.Equal(t, "no records found in the data", Sample(nil))
	assert.Equal(t, `sample record: {"Name":"Asha"}`, Sample([]Record{{"Name": "Asha"}}))

	long := Sample([]Record{{"Name": strings.Repeat("x", 200)}})
	assert.True(t, strings.HasSuffix(long, "..."))
	assert.LessOrEqual(t, len(long), len("sample record: ")+sampleLimit+3)
}
