package service

import (
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/repo"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// ReportService строит аналитические отчёты по накопленным записям.
// Все расчёты делаются в памяти по выборкам репозиториев.
type ReportService struct {
	users   repo.UserRepository
	glucose repo.GlucoseRepository
	insulin repo.InsulinRepository
	alerts  repo.AlertRepository
}

// NewReportService создаёт сервис отчётов.
func NewReportService(users repo.UserRepository, glucose repo.GlucoseRepository, insulin repo.InsulinRepository, alerts repo.AlertRepository) *ReportService {
	return &ReportService{users: users, glucose: glucose, insulin: insulin, alerts: alerts}
}

// ChartPoint — точка графика на панели: дата и значения за день.
type ChartPoint struct {
	Date         string  `json:"date"`
	GlucoseAvg   int     `json:"glucoseAvg"`
	InsulinTotal float64 `json:"insulinTotal"`
}

// Dashboard — сводная панель: счётчики, средние за неделю и месяц,
// ряд для графика и последние измерения.
type Dashboard struct {
	TotalGlucoseRecords int64                 `json:"totalGlucoseRecords"`
	TotalInsulinRecords int64                 `json:"totalInsulinRecords"`
	WeekGlucoseAvg      int                   `json:"weekGlucoseAvg"`
	MonthGlucoseAvg     int                   `json:"monthGlucoseAvg"`
	WeekInsulinTotal    float64               `json:"weekInsulinTotal"`
	UnreadAlerts        int64                 `json:"unreadAlerts"`
	Chart               []ChartPoint          `json:"chart"`
	RecentRecords       []model.GlucoseRecord `json:"recentRecords"`
}

// Dashboard собирает сводную панель за последние 30 дней.
func (s *ReportService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7).Format("2006-01-02")
	monthAgo := now.AddDate(0, 0, -30).Format("2006-01-02")

	totalGlucose, err := s.glucose.Count(ctx, userID, model.RecordFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count glucose records: %w", err)
	}
	totalInsulin, err := s.insulin.Count(ctx, userID, model.RecordFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count insulin records: %w", err)
	}

	monthGlucose, err := s.glucose.ListAll(ctx, userID, model.RecordFilter{StartDate: monthAgo})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch glucose records: %w", err)
	}
	monthInsulin, err := s.insulin.ListAll(ctx, userID, model.RecordFilter{StartDate: monthAgo})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch insulin records: %w", err)
	}

	var weekGlucose []model.GlucoseRecord
	for _, rec := range monthGlucose {
		if rec.Date >= weekAgo {
			weekGlucose = append(weekGlucose, rec)
		}
	}
	var weekInsulinTotal float64
	for _, rec := range monthInsulin {
		if rec.Date >= weekAgo {
			weekInsulinTotal += rec.Units
		}
	}

	unread, err := s.alerts.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread alerts: %w", err)
	}

	recent, err := s.glucose.List(ctx, userID, model.RecordFilter{}, 10, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent records: %w", err)
	}

	return &Dashboard{
		TotalGlucoseRecords: totalGlucose,
		TotalInsulinRecords: totalInsulin,
		WeekGlucoseAvg:      SummarizeGlucose(weekGlucose).Average,
		MonthGlucoseAvg:     SummarizeGlucose(monthGlucose).Average,
		WeekInsulinTotal:    round2(weekInsulinTotal),
		UnreadAlerts:        unread,
		Chart:               buildChart(monthGlucose, monthInsulin),
		RecentRecords:       recent,
	}, nil
}

// buildChart сворачивает записи в дневной ряд: среднее по глюкозе и сумма
// единиц инсулина на каждую дату, по возрастанию дат.
func buildChart(glucose []model.GlucoseRecord, insulin []model.InsulinRecord) []ChartPoint {
	type day struct {
		sum, count int
		units      float64
	}
	days := make(map[string]*day)
	get := func(date string) *day {
		d, ok := days[date]
		if !ok {
			d = &day{}
			days[date] = d
		}
		return d
	}
	for _, rec := range glucose {
		d := get(rec.Date)
		d.sum += rec.Value
		d.count++
	}
	for _, rec := range insulin {
		get(rec.Date).units += rec.Units
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]ChartPoint, 0, len(dates))
	for _, date := range dates {
		d := days[date]
		p := ChartPoint{Date: date, InsulinTotal: round2(d.units)}
		if d.count > 0 {
			p.GlucoseAvg = int(math.Round(float64(d.sum) / float64(d.count)))
		}
		points = append(points, p)
	}
	return points
}

// WeeklyTrend — сводка измерений за одну ISO-неделю.
type WeeklyTrend struct {
	Week    string `json:"week"` // формат 2006-W02
	Average int    `json:"average"`
	Count   int    `json:"count"`
}

// DayPattern — сводка по дню недели (0 = воскресенье).
type DayPattern struct {
	DayOfWeek int    `json:"dayOfWeek"`
	DayName   string `json:"dayName"`
	Average   int    `json:"average"`
	Count     int    `json:"count"`
}

// GlucoseAnalysis — развёрнутый отчёт по глюкозе за период.
type GlucoseAnalysis struct {
	StartDate    string        `json:"startDate"`
	EndDate      string        `json:"endDate"`
	TargetMin    int           `json:"targetMin"`
	TargetMax    int           `json:"targetMax"`
	Overall      GlucoseStats  `json:"overall"`
	TimeInRange  RangeBuckets  `json:"timeInRange"`
	ByPeriod     []PeriodStats `json:"byPeriod"`
	WeeklyTrends []WeeklyTrend `json:"weeklyTrends"`
	DayPatterns  []DayPattern  `json:"dayPatterns"`
}

// GlucoseAnalysis строит отчёт за указанный интервал; пустые границы
// означают последние 30 дней.
func (s *ReportService) GlucoseAnalysis(ctx context.Context, userID int64, startDate, endDate string) (*GlucoseAnalysis, error) {
	now := time.Now()
	if endDate == "" {
		endDate = now.Format("2006-01-02")
	}
	if startDate == "" {
		startDate = now.AddDate(0, 0, -30).Format("2006-01-02")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, ErrRecordNotFound
	}

	records, err := s.glucose.ListAll(ctx, userID, model.RecordFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch glucose records: %w", err)
	}

	return &GlucoseAnalysis{
		StartDate:    startDate,
		EndDate:      endDate,
		TargetMin:    user.TargetGlucoseMin,
		TargetMax:    user.TargetGlucoseMax,
		Overall:      SummarizeGlucose(records),
		TimeInRange:  TimeInRange(records, user.TargetGlucoseMin, user.TargetGlucoseMax),
		ByPeriod:     GroupGlucoseByPeriod(records),
		WeeklyTrends: weeklyTrends(records),
		DayPatterns:  dayPatterns(records),
	}, nil
}

func weeklyTrends(records []model.GlucoseRecord) []WeeklyTrend {
	type bucket struct {
		sum, count int
	}
	weeks := make(map[string]*bucket)
	for _, rec := range records {
		t, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			continue
		}
		year, week := t.ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		b, ok := weeks[key]
		if !ok {
			b = &bucket{}
			weeks[key] = b
		}
		b.sum += rec.Value
		b.count++
	}

	keys := make([]string, 0, len(weeks))
	for k := range weeks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]WeeklyTrend, 0, len(keys))
	for _, k := range keys {
		b := weeks[k]
		out = append(out, WeeklyTrend{
			Week:    k,
			Average: int(math.Round(float64(b.sum) / float64(b.count))),
			Count:   b.count,
		})
	}
	return out
}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func dayPatterns(records []model.GlucoseRecord) []DayPattern {
	var sums, counts [7]int
	for _, rec := range records {
		t, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			continue
		}
		d := int(t.Weekday())
		sums[d] += rec.Value
		counts[d]++
	}

	out := make([]DayPattern, 0, 7)
	for d := 0; d < 7; d++ {
		if counts[d] == 0 {
			continue
		}
		out = append(out, DayPattern{
			DayOfWeek: d,
			DayName:   dayNames[d],
			Average:   int(math.Round(float64(sums[d]) / float64(counts[d]))),
			Count:     counts[d],
		})
	}
	return out
}

// PeriodEffect — связка доз инсулина одного приёма пищи с измерениями
// глюкозы до и после него.
type PeriodEffect struct {
	Period    string  `json:"period"`
	AvgUnits  float64 `json:"avgUnits"`
	AvgBefore int     `json:"avgBefore"`
	AvgAfter  int     `json:"avgAfter"`
	AvgChange int     `json:"avgChange"`
	PairCount int     `json:"pairCount"`
}

// DoseBucket — средняя глюкоза после дозы в пределах диапазона единиц.
type DoseBucket struct {
	Range      string `json:"range"`
	AvgGlucose int    `json:"avgGlucose"`
	Count      int    `json:"count"`
}

// InsulinEffectiveness — отчёт о связи доз и измерений за период.
type InsulinEffectiveness struct {
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	ByPeriod    []PeriodEffect `json:"byPeriod"`
	DoseBuckets []DoseBucket   `json:"doseBuckets"`
}

// Приём пищи → периоды измерения глюкозы вокруг него. Дозы перед сном
// не сопоставляются: после них измерения нет.
var mealGlucosePeriods = map[string][2]string{
	model.InsulinPeriodBreakfast: {model.PeriodBeforeBreakfast, model.PeriodAfterBreakfast},
	model.InsulinPeriodLunch:     {model.PeriodBeforeLunch, model.PeriodAfterLunch},
	model.InsulinPeriodDinner:    {model.PeriodBeforeDinner, model.PeriodAfterDinner},
}

// InsulinEffectiveness сопоставляет дозы с измерениями той же даты:
// для каждого приёма пищи берутся измерения до и после него.
func (s *ReportService) InsulinEffectiveness(ctx context.Context, userID int64, startDate, endDate string) (*InsulinEffectiveness, error) {
	now := time.Now()
	if endDate == "" {
		endDate = now.Format("2006-01-02")
	}
	if startDate == "" {
		startDate = now.AddDate(0, 0, -30).Format("2006-01-02")
	}
	f := model.RecordFilter{StartDate: startDate, EndDate: endDate}

	doses, err := s.insulin.ListAll(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch insulin records: %w", err)
	}
	measurements, err := s.glucose.ListAll(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch glucose records: %w", err)
	}

	// индекс: (дата, период) → значение глюкозы
	byDatePeriod := make(map[string]int, len(measurements))
	for _, rec := range measurements {
		byDatePeriod[rec.Date+"|"+rec.Period] = rec.Value
	}

	type agg struct {
		units                 float64
		before, after, change int
		pairs, doses          int
	}
	perPeriod := make(map[string]*agg)

	type doseAgg struct {
		glucoseSum, count int
	}
	buckets := map[string]*doseAgg{
		"0-5":   {},
		"6-10":  {},
		"11-15": {},
		"16+":   {},
	}

	for _, dose := range doses {
		periods, ok := mealGlucosePeriods[dose.Period]
		if !ok {
			continue
		}
		a, exists := perPeriod[dose.Period]
		if !exists {
			a = &agg{}
			perPeriod[dose.Period] = a
		}
		a.units += dose.Units
		a.doses++

		before, hasBefore := byDatePeriod[dose.Date+"|"+periods[0]]
		after, hasAfter := byDatePeriod[dose.Date+"|"+periods[1]]
		if hasBefore && hasAfter {
			a.before += before
			a.after += after
			a.change += after - before
			a.pairs++
		}
		if hasAfter {
			b := buckets[doseBucketKey(dose.Units)]
			b.glucoseSum += after
			b.count++
		}
	}

	out := &InsulinEffectiveness{StartDate: startDate, EndDate: endDate}
	for _, period := range model.InsulinPeriods {
		a, ok := perPeriod[period]
		if !ok {
			continue
		}
		e := PeriodEffect{
			Period:    period,
			AvgUnits:  round2(a.units / float64(a.doses)),
			PairCount: a.pairs,
		}
		if a.pairs > 0 {
			e.AvgBefore = int(math.Round(float64(a.before) / float64(a.pairs)))
			e.AvgAfter = int(math.Round(float64(a.after) / float64(a.pairs)))
			e.AvgChange = int(math.Round(float64(a.change) / float64(a.pairs)))
		}
		out.ByPeriod = append(out.ByPeriod, e)
	}

	for _, r := range []string{"0-5", "6-10", "11-15", "16+"} {
		b := buckets[r]
		if b.count == 0 {
			continue
		}
		out.DoseBuckets = append(out.DoseBuckets, DoseBucket{
			Range:      r,
			AvgGlucose: int(math.Round(float64(b.glucoseSum) / float64(b.count))),
			Count:      b.count,
		})
	}
	return out, nil
}

func doseBucketKey(units float64) string {
	switch {
	case units <= 5:
		return "0-5"
	case units <= 10:
		return "6-10"
	case units <= 15:
		return "11-15"
	default:
		return "16+"
	}
}

// ExportCSV выгружает записи за период в CSV. kind: glucose | insulin | all.
func (s *ReportService) ExportCSV(ctx context.Context, userID int64, kind, startDate, endDate string) ([]byte, error) {
	f := model.RecordFilter{StartDate: startDate, EndDate: endDate}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if kind == "glucose" || kind == "all" {
		records, err := s.glucose.ListAll(ctx, userID, f)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch glucose records: %w", err)
		}
		_ = w.Write([]string{"Date", "Period", "Glucose (mg/dL)", "Notes"})
		for _, rec := range records {
			_ = w.Write([]string{rec.Date, rec.Period, strconv.Itoa(rec.Value), rec.Notes})
		}
	}
	if kind == "insulin" || kind == "all" {
		if kind == "all" {
			_ = w.Write([]string{})
		}
		records, err := s.insulin.ListAll(ctx, userID, f)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch insulin records: %w", err)
		}
		_ = w.Write([]string{"Date", "Period", "Insulin Type", "Units", "Notes"})
		for _, rec := range records {
			_ = w.Write([]string{rec.Date, rec.Period, rec.InsulinType, strconv.FormatFloat(rec.Units, 'f', -1, 64), rec.Notes})
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}
