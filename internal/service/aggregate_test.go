package service

import (
	"GlucoTrack/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func grecs(values ...int) []model.GlucoseRecord {
	out := make([]model.GlucoseRecord, 0, len(values))
	for _, v := range values {
		out = append(out, model.GlucoseRecord{Value: v})
	}
	return out
}

func TestSummarizeGlucose(t *testing.T) {
	t.Run("empty set gives zeros", func(t *testing.T) {
		s := SummarizeGlucose(nil)
		assert.Equal(t, GlucoseStats{}, s)
	})

	t.Run("single record", func(t *testing.T) {
		s := SummarizeGlucose(grecs(120))
		assert.Equal(t, GlucoseStats{Average: 120, Minimum: 120, Maximum: 120, Count: 1}, s)
	})

	t.Run("average rounds half away from zero", func(t *testing.T) {
		// (100+101)/2 = 100.5 -> 101
		s := SummarizeGlucose(grecs(100, 101))
		assert.Equal(t, 101, s.Average)
		// (100+100+101)/3 = 100.33 -> 100
		s = SummarizeGlucose(grecs(100, 100, 101))
		assert.Equal(t, 100, s.Average)
	})

	t.Run("min and max", func(t *testing.T) {
		s := SummarizeGlucose(grecs(130, 55, 210, 90))
		assert.Equal(t, 55, s.Minimum)
		assert.Equal(t, 210, s.Maximum)
		assert.Equal(t, 4, s.Count)
	})
}

func TestSummarizeInsulin(t *testing.T) {
	t.Run("empty set gives zeros", func(t *testing.T) {
		assert.Equal(t, InsulinStats{}, SummarizeInsulin(nil))
	})

	t.Run("totals and average keep two decimals", func(t *testing.T) {
		recs := []model.InsulinRecord{{Units: 4.5}, {Units: 6.2}, {Units: 10}}
		s := SummarizeInsulin(recs)
		assert.InDelta(t, 6.9, s.Average, 0.001)
		assert.InDelta(t, 20.7, s.Total, 0.001)
		assert.Equal(t, 4.5, s.Minimum)
		assert.Equal(t, 10.0, s.Maximum)
		assert.Equal(t, 3, s.Count)
	})
}

func TestTimeInRange(t *testing.T) {
	t.Run("empty set gives zero percentage", func(t *testing.T) {
		b := TimeInRange(nil, 70, 180)
		assert.Equal(t, RangeBuckets{}, b)
	})

	t.Run("buckets partition the set", func(t *testing.T) {
		records := grecs(60, 70, 120, 180, 181, 250)
		b := TimeInRange(records, 70, 180)
		assert.Equal(t, 1, b.BelowRange)
		assert.Equal(t, 3, b.InRange) // границы входят в диапазон
		assert.Equal(t, 2, b.AboveRange)
		assert.Equal(t, b.Total, b.InRange+b.BelowRange+b.AboveRange)
		assert.Equal(t, 50, b.InRangePercentage) // 3/6
	})

	t.Run("percentage rounds to nearest", func(t *testing.T) {
		// 2 из 3 в диапазоне: 66.67 -> 67
		b := TimeInRange(grecs(100, 120, 300), 70, 180)
		assert.Equal(t, 67, b.InRangePercentage)
	})
}

func TestGroupGlucoseByPeriod(t *testing.T) {
	records := []model.GlucoseRecord{
		{Period: model.PeriodBedtime, Value: 140},
		{Period: model.PeriodFasting, Value: 90},
		{Period: model.PeriodFasting, Value: 110},
		{Period: model.PeriodBedtime, Value: 160},
	}
	groups := GroupGlucoseByPeriod(records)

	// только периоды с записями, в каноническом порядке
	assert.Len(t, groups, 2)
	assert.Equal(t, model.PeriodFasting, groups[0].Period)
	assert.Equal(t, model.PeriodBedtime, groups[1].Period)

	assert.Equal(t, 100, groups[0].Average)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, 150, groups[1].Average)
	assert.Equal(t, 140, groups[1].Minimum)
	assert.Equal(t, 160, groups[1].Maximum)
}
