package handlers

import (
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// InsulinHandler обрабатывает записи доз инсулина.
type InsulinHandler struct {
	Service *service.InsulinService
	Logger  *zap.SugaredLogger
}

// NewInsulinHandler создаёт хендлер инсулина.
func NewInsulinHandler(svc *service.InsulinService, logger *zap.SugaredLogger) *InsulinHandler {
	return &InsulinHandler{Service: svc, Logger: logger}
}

// CreateInsulinRequest — тело запроса новой дозы.
type CreateInsulinRequest struct {
	Date        string  `json:"date" validate:"required"`
	Period      string  `json:"period" validate:"required,oneof=breakfast lunch dinner bedtime"`
	InsulinType string  `json:"insulinType" validate:"omitempty,oneof=rapid long mixed other"`
	Units       float64 `json:"units" validate:"required,min=0.1,max=100"`
	Notes       string  `json:"notes" validate:"max=500"`
}

// UpdateInsulinRequest — частичное изменение дозы.
type UpdateInsulinRequest struct {
	Units       *float64 `json:"units,omitempty" validate:"omitempty,min=0.1,max=100"`
	InsulinType *string  `json:"insulinType,omitempty" validate:"omitempty,oneof=rapid long mixed other"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// insulinDTO — представление дозы в ответах.
type insulinDTO struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Period      string  `json:"period"`
	InsulinType string  `json:"insulinType"`
	Units       float64 `json:"units"`
	Notes       string  `json:"notes"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toInsulinDTO(rec *model.InsulinRecord) insulinDTO {
	return insulinDTO{
		ID:          rec.ID,
		Date:        rec.Date,
		Period:      rec.Period,
		InsulinType: rec.InsulinType,
		Units:       rec.Units,
		Notes:       rec.Notes,
		CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Create сохраняет новую дозу инсулина.
func (h *InsulinHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateInsulinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("CreateInsulin: invalid request body", "error", err)
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

	rec, err := h.Service.Create(r.Context(), userID, service.CreateInsulinRequest{
		Date:        req.Date,
		Period:      req.Period,
		InsulinType: req.InsulinType,
		Units:       req.Units,
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateRecord) {
			http.Error(w, "record for this date and period already exists", http.StatusConflict)
			return
		}
		h.Logger.Errorw("CreateInsulin: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "insulin record created",
		"record":  toInsulinDTO(rec),
	})
}

// List возвращает страницу доз со сводкой по выборке.
func (h *InsulinHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	f, page, limit, err := parseListQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if f.Period != "" && !model.IsInsulinPeriod(f.Period) {
		http.Error(w, "unknown period", http.StatusBadRequest)
		return
	}

	res, err := h.Service.List(r.Context(), userID, f, page, limit)
	if err != nil {
		h.Logger.Errorw("ListInsulin: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	records := make([]insulinDTO, 0, len(res.Records))
	for i := range res.Records {
		records = append(records, toInsulinDTO(&res.Records[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records":    records,
		"pagination": paginationDTO(page, limit, res.Total),
		"stats":      res.Stats,
	})
}

// Update меняет дозу, тип и/или заметку.
func (h *InsulinHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req UpdateInsulinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("UpdateInsulin: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.Service.Update(r.Context(), userID, id, req.Units, req.InsulinType, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("UpdateInsulin: service error", "user_id", userID, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "insulin record updated",
		"record":  toInsulinDTO(rec),
	})
}

// Delete удаляет дозу.
func (h *InsulinHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
		h.Logger.Errorw("DeleteInsulin: service error", "user_id", userID, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "insulin record deleted"})
}
