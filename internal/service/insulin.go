package service

import (
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/repo"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// InsulinService — бизнес-логика доз инсулина. Алертов по дозам нет,
// в остальном поведение зеркально GlucoseService.
type InsulinService struct {
	records repo.InsulinRepository
	logger  *zap.SugaredLogger
}

// NewInsulinService создаёт сервис доз инсулина.
func NewInsulinService(records repo.InsulinRepository, logger *zap.SugaredLogger) *InsulinService {
	return &InsulinService{records: records, logger: logger}
}

// CreateInsulinRequest — проверенные данные новой дозы.
type CreateInsulinRequest struct {
	Date        string
	Period      string
	InsulinType string
	Units       float64
	Notes       string
}

// Create сохраняет дозу после проверки уникальности (дата, период).
func (s *InsulinService) Create(ctx context.Context, userID int64, req CreateInsulinRequest) (*model.InsulinRecord, error) {
	existing, err := s.records.FindByDatePeriod(ctx, userID, req.Date, req.Period)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing record: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateRecord
	}

	rec := &model.InsulinRecord{
		UserID:      userID,
		Date:        req.Date,
		Period:      req.Period,
		InsulinType: req.InsulinType,
		Units:       req.Units,
		Notes:       req.Notes,
	}
	if rec.InsulinType == "" {
		rec.InsulinType = model.InsulinRapid
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create insulin record: %w", err)
	}
	return rec, nil
}

// InsulinListResult — страница записей со сводкой по всей выборке.
type InsulinListResult struct {
	Records []model.InsulinRecord
	Total   int64
	Stats   InsulinStats
}

// List возвращает страницу доз и сводку по всему отфильтрованному набору.
func (s *InsulinService) List(ctx context.Context, userID int64, f model.RecordFilter, page, limit int) (*InsulinListResult, error) {
	offset := (page - 1) * limit

	records, err := s.records.List(ctx, userID, f, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list insulin records: %w", err)
	}
	total, err := s.records.Count(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to count insulin records: %w", err)
	}
	all, err := s.records.ListAll(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records for stats: %w", err)
	}

	return &InsulinListResult{
		Records: records,
		Total:   total,
		Stats:   SummarizeInsulin(all),
	}, nil
}

// Update меняет дозу, тип и/или заметку. Дата и период неизменяемы.
func (s *InsulinService) Update(ctx context.Context, userID, id int64, units *float64, insulinType, notes *string) (*model.InsulinRecord, error) {
	updates := map[string]any{}
	if units != nil {
		updates["units"] = *units
	}
	if insulinType != nil {
		updates["insulin_type"] = *insulinType
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	if len(updates) > 0 {
		rows, err := s.records.Update(ctx, userID, id, updates)
		if err != nil {
			return nil, fmt.Errorf("failed to update insulin record: %w", err)
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

// Delete удаляет дозу пользователя.
func (s *InsulinService) Delete(ctx context.Context, userID, id int64) error {
	rows, err := s.records.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete insulin record: %w", err)
	}
	if rows == 0 {
		return ErrRecordNotFound
	}
	return nil
}
