package handlers

import (
	"GlucoTrack/internal/config"
	"GlucoTrack/internal/middleware"
	"GlucoTrack/internal/service"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"
	"go.uber.org/zap"
)

// validate — общий валидатор структур запросов.
var validate = validator.New()

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	glucoseService *service.GlucoseService,
	insulinService *service.InsulinService,
	alertService *service.AlertService,
	settingsService *service.SettingsService,
	backupService *service.BackupService,
	reportService *service.ReportService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	authHandler := NewAuthHandler(userService, logger, config)
	glucoseHandler := NewGlucoseHandler(glucoseService, logger)
	insulinHandler := NewInsulinHandler(insulinService, logger)
	settingsHandler := NewSettingsHandler(settingsService, alertService, logger)
	backupHandler := NewBackupHandler(backupService, logger)
	reportHandler := NewReportHandler(reportService, logger)
	userHandler := NewUserHandler(userService, logger)

	// Auth routes
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)
	r.Get("/api/auth/me", authHandler.Me)
	r.Post("/api/auth/refresh", authHandler.Refresh)

	// Glucose routes
	r.Post("/api/glucose", glucoseHandler.Create)
	r.Get("/api/glucose", glucoseHandler.List)
	r.Put("/api/glucose/{id}", glucoseHandler.Update)
	r.Delete("/api/glucose/{id}", glucoseHandler.Delete)

	// Insulin routes
	r.Post("/api/insulin", insulinHandler.Create)
	r.Get("/api/insulin", insulinHandler.List)
	r.Put("/api/insulin/{id}", insulinHandler.Update)
	r.Delete("/api/insulin/{id}", insulinHandler.Delete)

	// Settings and alerts
	r.Get("/api/settings", settingsHandler.Get)
	r.Put("/api/settings", settingsHandler.Update)
	r.Get("/api/settings/alerts", settingsHandler.ListAlerts)
	r.Put("/api/settings/alerts/{id}/read", settingsHandler.MarkAlertRead)
	r.Put("/api/settings/alerts/read-all", settingsHandler.MarkAllAlertsRead)

	// Backups
	r.Post("/api/backup/create", backupHandler.Create)
	r.Get("/api/backup/list", backupHandler.List)
	r.Get("/api/backup/download/{id}", backupHandler.Download)
	r.Post("/api/backup/restore", backupHandler.Restore)
	r.Delete("/api/backup/{id}", backupHandler.Delete)

	// Reports
	r.Get("/api/reports/dashboard", reportHandler.Dashboard)
	r.Get("/api/reports/glucose-analysis", reportHandler.GlucoseAnalysis)
	r.Get("/api/reports/insulin-effectiveness", reportHandler.InsulinEffectiveness)
	r.Get("/api/reports/export", reportHandler.Export)

	// Users
	r.Get("/api/users/profile", userHandler.Profile)
	r.Put("/api/users/profile", userHandler.UpdateProfile)
	r.Put("/api/users/change-password", userHandler.ChangePassword)
	r.Get("/api/users/stats", userHandler.Stats)
	r.Delete("/api/users/account", userHandler.DeleteAccount)

	return &Handler{Router: r}
}

// writeJSON сериализует ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requireUser извлекает user_id из контекста; без него отвечает 401.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}
