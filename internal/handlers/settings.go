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

// SettingsHandler обрабатывает настройки пользователя и ленту алертов.
type SettingsHandler struct {
	Settings *service.SettingsService
	Alerts   *service.AlertService
	Logger   *zap.SugaredLogger
}

// NewSettingsHandler создаёт хендлер настроек.
func NewSettingsHandler(settings *service.SettingsService, alerts *service.AlertService, logger *zap.SugaredLogger) *SettingsHandler {
	return &SettingsHandler{Settings: settings, Alerts: alerts, Logger: logger}
}

// settingsDTO — настройки в ответах; блоки отдаются как вложенный JSON.
type settingsDTO struct {
	NotificationSettings json.RawMessage `json:"notificationSettings"`
	PrivacySettings      json.RawMessage `json:"privacySettings"`
	DataSettings         json.RawMessage `json:"dataSettings"`
	ReminderTimes        json.RawMessage `json:"reminderTimes"`
}

func toSettingsDTO(s *model.UserSettings) settingsDTO {
	return settingsDTO{
		NotificationSettings: json.RawMessage(s.NotificationSettings),
		PrivacySettings:      json.RawMessage(s.PrivacySettings),
		DataSettings:         json.RawMessage(s.DataSettings),
		ReminderTimes:        json.RawMessage(s.ReminderTimes),
	}
}

// Get возвращает настройки, создавая их при первом обращении.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	settings, err := h.Settings.Get(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("GetSettings: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": toSettingsDTO(settings)})
}

// UpdateSettingsRequest — тело запроса обновления настроек.
// Каждый присланный блок заменяется целиком.
type UpdateSettingsRequest struct {
	NotificationSettings json.RawMessage `json:"notificationSettings,omitempty"`
	PrivacySettings      json.RawMessage `json:"privacySettings,omitempty"`
	DataSettings         json.RawMessage `json:"dataSettings,omitempty"`
	ReminderTimes        json.RawMessage `json:"reminderTimes,omitempty"`
}

// Update заменяет присланные блоки настроек.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("UpdateSettings: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	for _, block := range []json.RawMessage{req.NotificationSettings, req.PrivacySettings, req.DataSettings, req.ReminderTimes} {
		if block != nil && !json.Valid(block) {
			http.Error(w, "invalid settings block", http.StatusBadRequest)
			return
		}
	}

	settings, err := h.Settings.Update(r.Context(), userID, service.UpdateSettingsRequest{
		NotificationSettings: req.NotificationSettings,
		PrivacySettings:      req.PrivacySettings,
		DataSettings:         req.DataSettings,
		ReminderTimes:        req.ReminderTimes,
	})
	if err != nil {
		h.Logger.Errorw("UpdateSettings: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "settings updated",
		"settings": toSettingsDTO(settings),
	})
}

// alertDTO — алерт в ответах.
type alertDTO struct {
	ID           int64  `json:"id"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	GlucoseValue *int   `json:"glucoseValue"`
	Read         bool   `json:"read"`
	CreatedAt    string `json:"createdAt"`
}

// ListAlerts возвращает последние алерты пользователя.
func (h *SettingsHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	alerts, err := h.Alerts.List(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("ListAlerts: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]alertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertDTO{
			ID:           a.ID,
			Type:         a.Type,
			Title:        a.Title,
			Message:      a.Message,
			GlucoseValue: a.GlucoseValue,
			Read:         a.Read,
			CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": out})
}

// MarkAlertRead помечает один алерт прочитанным.
func (h *SettingsHandler) MarkAlertRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Alerts.MarkRead(r.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrAlertNotFound) {
			http.Error(w, "alert not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("MarkAlertRead: service error", "user_id", userID, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "alert marked as read"})
}

// MarkAllAlertsRead помечает прочитанными все алерты пользователя.
func (h *SettingsHandler) MarkAllAlertsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.Alerts.MarkAllRead(r.Context(), userID); err != nil {
		h.Logger.Errorw("MarkAllAlertsRead: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "all alerts marked as read"})
}
