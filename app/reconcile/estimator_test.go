package reconcile

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"dsu-attendance/app/models"
	"dsu-attendance/app/payload"
)

func TestRangeEstimator_Ranges(t *testing.T) {
	e := NewRangeEstimator(rand.NewSource(42))
	assert.Equal(t, 90, e.TotalDays())

	seenPresent := map[int]bool{}
	for i := 0; i < 5000; i++ {
		p := e.PresentDays(models.Present)
		assert.GreaterOrEqual(t, p, 70)
		assert.Less(t, p, 90)
		seenPresent[p] = true

		a := e.PresentDays(models.Absent)
		assert.GreaterOrEqual(t, a, 10)
		assert.Less(t, a, 70)
	}
	assert.Greater(t, len(seenPresent), 10, "draws should spread over the range")
}

func TestRangeEstimator_Degenerate(t *testing.T) {
	e := &RangeEstimator{Total: 0, PresentMin: 5, PresentMax: 5}
	assert.Equal(t, DefaultTotalDays, e.TotalDays())
	assert.Equal(t, 5, e.PresentDays(models.Present))
}

func TestRangeEstimator_Literal(t *testing.T) {
	e := &RangeEstimator{Total: 90, PresentMin: 70, PresentMax: 90, AbsentMin: 10, AbsentMax: 70}

	for i := 0; i < 100; i++ {
		p := e.PresentDays(models.Present)
		assert.GreaterOrEqual(t, p, 70)
		assert.Less(t, p, 90)

		a := e.PresentDays(models.Absent)
		assert.GreaterOrEqual(t, a, 10)
		assert.Less(t, a, 70)
	}
}

func TestRangeEstimator_Concurrent(t *testing.T) {
	e := NewRangeEstimator(rand.NewSource(1))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = e.PresentDays(models.Absent)
			}
		}()
	}
	wg.Wait()
}

func TestReconcile_DefaultRangesBySampling(t *testing.T) {
	r := New(zap.NewNop(), WithEstimator(NewRangeEstimator(rand.NewSource(3))))
	list := []models.Student{
		{ID: "p", FullName: "Jane Doe"},
		{ID: "a", FullName: "Rahul Das"},
	}
	records := []payload.Record{{"Name": "Jane Doe"}}

	for i := 0; i < 1000; i++ {
		res := r.Reconcile(list, records)
		present, absent := res.Records[0], res.Records[1]

		assert.Equal(t, models.Present, present.Status)
		assert.Equal(t, 90, present.TotalDays)
		assert.GreaterOrEqual(t, present.PresentDays, 70)
		assert.Less(t, present.PresentDays, 90)

		assert.Equal(t, models.Absent, absent.Status)
		assert.Equal(t, 90, absent.TotalDays)
		assert.GreaterOrEqual(t, absent.PresentDays, 10)
		assert.Less(t, absent.PresentDays, 70)
	}
}
