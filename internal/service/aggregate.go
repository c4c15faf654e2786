package service

import (
	"GlucoTrack/internal/model"
	"math"
)

// GlucoseStats — сводка по набору измерений глюкозы.
// Для пустого набора все поля нулевые: деления на ноль не возникает.
type GlucoseStats struct {
	Average int `json:"average"` // среднее, округлённое до целых мг/дл
	Minimum int `json:"minimum"`
	Maximum int `json:"maximum"`
	Count   int `json:"count"`
}

// SummarizeGlucose считает среднее/минимум/максимум/количество по уже
// отфильтрованному набору. Округление среднего — math.Round (половина от нуля).
func SummarizeGlucose(records []model.GlucoseRecord) GlucoseStats {
	if len(records) == 0 {
		return GlucoseStats{}
	}
	sum := 0
	minV, maxV := records[0].Value, records[0].Value
	for _, rec := range records {
		sum += rec.Value
		if rec.Value < minV {
			minV = rec.Value
		}
		if rec.Value > maxV {
			maxV = rec.Value
		}
	}
	return GlucoseStats{
		Average: int(math.Round(float64(sum) / float64(len(records)))),
		Minimum: minV,
		Maximum: maxV,
		Count:   len(records),
	}
}

// InsulinStats — сводка по набору доз инсулина. Дозы дробные, поэтому
// среднее и сумма сохраняют два знака после запятой.
type InsulinStats struct {
	Average float64 `json:"average"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
}

// SummarizeInsulin считает сводку по дозам, включая суммарные единицы.
func SummarizeInsulin(records []model.InsulinRecord) InsulinStats {
	if len(records) == 0 {
		return InsulinStats{}
	}
	sum := 0.0
	minV, maxV := records[0].Units, records[0].Units
	for _, rec := range records {
		sum += rec.Units
		if rec.Units < minV {
			minV = rec.Units
		}
		if rec.Units > maxV {
			maxV = rec.Units
		}
	}
	return InsulinStats{
		Average: round2(sum / float64(len(records))),
		Minimum: minV,
		Maximum: maxV,
		Count:   len(records),
		Total:   round2(sum),
	}
}

// RangeBuckets — разбиение измерений относительно целевого диапазона.
// Инвариант: InRange + BelowRange + AboveRange == Total.
type RangeBuckets struct {
	InRange           int `json:"inRange"`
	BelowRange        int `json:"belowRange"`
	AboveRange        int `json:"aboveRange"`
	Total             int `json:"total"`
	InRangePercentage int `json:"inRangePercentage"`
}

// TimeInRange раскладывает измерения на три непересекающихся корзины
// относительно [targetMin, targetMax]; границы входят в диапазон.
// Для пустого набора процент равен нулю, а не ошибке.
func TimeInRange(records []model.GlucoseRecord, targetMin, targetMax int) RangeBuckets {
	var b RangeBuckets
	for _, rec := range records {
		switch {
		case rec.Value < targetMin:
			b.BelowRange++
		case rec.Value > targetMax:
			b.AboveRange++
		default:
			b.InRange++
		}
	}
	b.Total = len(records)
	if b.Total > 0 {
		b.InRangePercentage = int(math.Round(float64(b.InRange) / float64(b.Total) * 100))
	}
	return b
}

// PeriodStats — сводка по одному периоду измерений.
type PeriodStats struct {
	Period  string `json:"period"`
	Average int    `json:"average"`
	Minimum int    `json:"minimum"`
	Maximum int    `json:"maximum"`
	Count   int    `json:"count"`
}

// GroupGlucoseByPeriod группирует измерения по периоду и считает сводку
// каждой группы независимо. Периоды без записей в результат не попадают;
// порядок групп — канонический порядок периодов.
func GroupGlucoseByPeriod(records []model.GlucoseRecord) []PeriodStats {
	byPeriod := make(map[string][]model.GlucoseRecord)
	for _, rec := range records {
		byPeriod[rec.Period] = append(byPeriod[rec.Period], rec)
	}

	out := make([]PeriodStats, 0, len(byPeriod))
	for _, period := range model.GlucosePeriods {
		group, ok := byPeriod[period]
		if !ok {
			continue
		}
		s := SummarizeGlucose(group)
		out = append(out, PeriodStats{
			Period:  period,
			Average: s.Average,
			Minimum: s.Minimum,
			Maximum: s.Maximum,
			Count:   s.Count,
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
