package handlers

import (
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Параметры пагинации списков записей.
const (
	defaultPage  = 1
	defaultLimit = 30
	maxLimit     = 100
)

// GlucoseHandler обрабатывает записи измерений глюкозы.
type GlucoseHandler struct {
	Service *service.GlucoseService
	Logger  *zap.SugaredLogger
}

// NewGlucoseHandler создаёт хендлер глюкозы.
func NewGlucoseHandler(svc *service.GlucoseService, logger *zap.SugaredLogger) *GlucoseHandler {
	return &GlucoseHandler{Service: svc, Logger: logger}
}

// CreateGlucoseRequest — тело запроса нового измерения.
type CreateGlucoseRequest struct {
	Date   string `json:"date" validate:"required"`
	Period string `json:"period" validate:"required,oneof=fasting before_breakfast after_breakfast before_lunch after_lunch before_dinner after_dinner bedtime"`
	Value  int    `json:"value" validate:"required,min=20,max=600"`
	Notes  string `json:"notes" validate:"max=500"`
}

// UpdateGlucoseRequest — частичное изменение измерения.
type UpdateGlucoseRequest struct {
	Value *int    `json:"value,omitempty" validate:"omitempty,min=20,max=600"`
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// glucoseDTO — представление измерения в ответах.
type glucoseDTO struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Period    string `json:"period"`
	Value     int    `json:"value"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toGlucoseDTO(rec *model.GlucoseRecord) glucoseDTO {
	return glucoseDTO{
		ID:        rec.ID,
		Date:      rec.Date,
		Period:    rec.Period,
		Value:     rec.Value,
		Notes:     rec.Notes,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Create сохраняет новое измерение глюкозы.
func (h *GlucoseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateGlucoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("CreateGlucose: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		http.Error(w, "invalid date format, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	rec, err := h.Service.Create(r.Context(), userID, service.CreateGlucoseRequest{
		Date:   req.Date,
		Period: req.Period,
		Value:  req.Value,
		Notes:  req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateRecord) {
			http.Error(w, "record for this date and period already exists", http.StatusConflict)
			return
		}
		h.Logger.Errorw("CreateGlucose: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "glucose record created",
		"record":  toGlucoseDTO(rec),
	})
}

// List возвращает страницу измерений со сводкой по выборке.
func (h *GlucoseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	f, page, limit, err := parseListQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if f.Period != "" && !model.IsGlucosePeriod(f.Period) {
		http.Error(w, "unknown period", http.StatusBadRequest)
		return
	}

	res, err := h.Service.List(r.Context(), userID, f, page, limit)
	if err != nil {
		h.Logger.Errorw("ListGlucose: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	records := make([]glucoseDTO, 0, len(res.Records))
	for i := range res.Records {
		records = append(records, toGlucoseDTO(&res.Records[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records":    records,
		"pagination": paginationDTO(page, limit, res.Total),
		"stats":      res.Stats,
	})
}

// Update меняет значение и/или заметку измерения.
func (h *GlucoseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req UpdateGlucoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("UpdateGlucose: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.Service.Update(r.Context(), userID, id, req.Value, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("UpdateGlucose: service error", "user_id", userID, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "glucose record updated",
		"record":  toGlucoseDTO(rec),
	})
}

// Delete удаляет измерение.
func (h *GlucoseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("DeleteGlucose: service error", "user_id", userID, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "glucose record deleted"})
}

// parseID читает числовой идентификатор из пути.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseListQuery разбирает общие query-параметры списков записей.
func parseListQuery(r *http.Request) (model.RecordFilter, int, int, error) {
	q := r.URL.Query()
	f := model.RecordFilter{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Period:    q.Get("period"),
	}
	for _, d := range []string{f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return f, 0, 0, errors.New("invalid date format, expected YYYY-MM-DD")
		}
	}

	page := defaultPage
	if s := q.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return f, 0, 0, errors.New("invalid page")
		}
		page = v
	}
	limit := defaultLimit
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return f, 0, 0, errors.New("invalid limit")
		}
		if v > maxLimit {
			v = maxLimit
		}
		limit = v
	}
	return f, page, limit, nil
}

// paginationDTO — блок пагинации в ответах списков.
func paginationDTO(page, limit int, total int64) map[string]any {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return map[string]any{
		"page":  page,
		"limit": limit,
		"total": total,
		"pages": pages,
	}
}
