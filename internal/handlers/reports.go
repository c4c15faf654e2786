package handlers

import (
	"GlucoTrack/internal/service"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ReportHandler обрабатывает аналитические отчёты и экспорт.
type ReportHandler struct {
	Service *service.ReportService
	Logger  *zap.SugaredLogger
}

// NewReportHandler создаёт хендлер отчётов.
func NewReportHandler(svc *service.ReportService, logger *zap.SugaredLogger) *ReportHandler {
	return &ReportHandler{Service: svc, Logger: logger}
}

// Dashboard возвращает сводную панель пользователя.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	d, err := h.Service.Dashboard(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("Dashboard: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// parseReportRange читает необязательные границы периода отчёта.
func parseReportRange(r *http.Request) (string, string, error) {
	q := r.URL.Query()
	start, end := q.Get("startDate"), q.Get("endDate")
	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return "", "", fmt.Errorf("invalid date format, expected YYYY-MM-DD")
		}
	}
	return start, end, nil
}

// GlucoseAnalysis возвращает развёрнутый отчёт по глюкозе.
func (h *ReportHandler) GlucoseAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	start, end, err := parseReportRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.Service.GlucoseAnalysis(r.Context(), userID, start, end)
	if err != nil {
		h.Logger.Errorw("GlucoseAnalysis: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// InsulinEffectiveness возвращает отчёт о связи доз и измерений.
func (h *ReportHandler) InsulinEffectiveness(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	start, end, err := parseReportRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.Service.InsulinEffectiveness(r.Context(), userID, start, end)
	if err != nil {
		h.Logger.Errorw("InsulinEffectiveness: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Export выгружает записи в CSV. type: glucose | insulin | all.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	start, end, err := parseReportRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = "all"
	}
	if kind != "glucose" && kind != "insulin" && kind != "all" {
		http.Error(w, "invalid export type", http.StatusBadRequest)
		return
	}

	data, err := h.Service.ExportCSV(r.Context(), userID, kind, start, end)
	if err != nil {
		h.Logger.Errorw("Export: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("glucotrack_export_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
