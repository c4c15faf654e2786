package service

import (
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/repo"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// GlucoseService — бизнес-логика измерений глюкозы: проверка уникальности,
// запись и реакция на выход за целевой диапазон.
type GlucoseService struct {
	records repo.GlucoseRepository
	users   repo.UserRepository
	alerts  repo.AlertRepository
	logger  *zap.SugaredLogger
}

// NewGlucoseService создаёт сервис измерений глюкозы.
func NewGlucoseService(records repo.GlucoseRepository, users repo.UserRepository, alerts repo.AlertRepository, logger *zap.SugaredLogger) *GlucoseService {
	return &GlucoseService{records: records, users: users, alerts: alerts, logger: logger}
}

// CreateGlucoseRequest — проверенные данные нового измерения.
type CreateGlucoseRequest struct {
	Date   string
	Period string
	Value  int
	Notes  string
}

// Create сохраняет измерение и, если оно вне целевого диапазона, добавляет
// алерт. Ошибка записи алерта не откатывает уже сохранённое измерение:
// она только логируется.
func (s *GlucoseService) Create(ctx context.Context, userID int64, req CreateGlucoseRequest) (*model.GlucoseRecord, error) {
	existing, err := s.records.FindByDatePeriod(ctx, userID, req.Date, req.Period)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing record: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateRecord
	}

	rec := &model.GlucoseRecord{
		UserID: userID,
		Date:   req.Date,
		Period: req.Period,
		Value:  req.Value,
		Notes:  req.Notes,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create glucose record: %w", err)
	}

	s.raiseThresholdAlert(ctx, userID, req.Value)
	return rec, nil
}

// raiseThresholdAlert сверяет значение с целевым диапазоном пользователя
// и пишет алерт. Любая ошибка здесь не фатальна для запроса.
func (s *GlucoseService) raiseThresholdAlert(ctx context.Context, userID int64, value int) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		s.logger.Warnw("failed to load user for threshold check", "user_id", userID, "error", err)
		return
	}

	var alert *model.Alert
	v := value
	switch EvaluateThreshold(value, user.TargetGlucoseMin, user.TargetGlucoseMax) {
	case DecisionLow:
		alert = &model.Alert{
			UserID:       userID,
			Type:         model.AlertLowGlucose,
			Title:        "Hypoglycemia Detected",
			Message:      fmt.Sprintf("Low glucose recorded: %d mg/dL", value),
			GlucoseValue: &v,
		}
	case DecisionHigh:
		alert = &model.Alert{
			UserID:       userID,
			Type:         model.AlertHighGlucose,
			Title:        "Hyperglycemia Detected",
			Message:      fmt.Sprintf("High glucose recorded: %d mg/dL", value),
			GlucoseValue: &v,
		}
	default:
		return
	}

	if err := s.alerts.Create(ctx, alert); err != nil {
		s.logger.Warnw("failed to create threshold alert", "user_id", userID, "value", value, "error", err)
	}
}

// GlucoseListResult — страница записей со сводкой по всей выборке.
type GlucoseListResult struct {
	Records []model.GlucoseRecord
	Total   int64
	Stats   GlucoseStats
}

// List возвращает страницу измерений и сводку, пересчитанную по всему
// отфильтрованному набору, а не по странице.
func (s *GlucoseService) List(ctx context.Context, userID int64, f model.RecordFilter, page, limit int) (*GlucoseListResult, error) {
	offset := (page - 1) * limit

	records, err := s.records.List(ctx, userID, f, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list glucose records: %w", err)
	}
	total, err := s.records.Count(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to count glucose records: %w", err)
	}
	all, err := s.records.ListAll(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records for stats: %w", err)
	}

	return &GlucoseListResult{
		Records: records,
		Total:   total,
		Stats:   SummarizeGlucose(all),
	}, nil
}

// Update меняет значение и/или заметку. Дата и период неизменяемы.
func (s *GlucoseService) Update(ctx context.Context, userID, id int64, value *int, notes *string) (*model.GlucoseRecord, error) {
	updates := map[string]any{}
	if value != nil {
		updates["value"] = *value
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	if len(updates) > 0 {
		rows, err := s.records.Update(ctx, userID, id, updates)
		if err != nil {
			return nil, fmt.Errorf("failed to update glucose record: %w", err)
		}
		if rows == 0 {
			return nil, ErrRecordNotFound
		}
	}

	rec, err := s.records.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated record: %w", err)
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

// Delete удаляет измерение пользователя.
func (s *GlucoseService) Delete(ctx context.Context, userID, id int64) error {
	rows, err := s.records.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete glucose record: %w", err)
	}
	if rows == 0 {
		return ErrRecordNotFound
	}
	return nil
}
