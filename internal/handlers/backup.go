package handlers

import (
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// BackupHandler обрабатывает резервные копии данных пользователя.
type BackupHandler struct {
	Service *service.BackupService
	Logger  *zap.SugaredLogger
}

// NewBackupHandler создаёт хендлер резервных копий.
func NewBackupHandler(svc *service.BackupService, logger *zap.SugaredLogger) *BackupHandler {
	return &BackupHandler{Service: svc, Logger: logger}
}

// backupDTO — метаданные копии в ответах.
type backupDTO struct {
	ID        int64  `json:"id"`
	Filename  string `json:"filename"`
	FileSize  int64  `json:"fileSize"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func toBackupDTO(b *model.Backup) backupDTO {
	return backupDTO{
		ID:        b.ID,
		Filename:  b.Filename,
		FileSize:  b.FileSize,
		Status:    b.Status,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create делает полную резервную копию данных пользователя.
func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	b, err := h.Service.Create(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("CreateBackup: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "backup created",
		"backup":  toBackupDTO(b),
	})
}

// List возвращает последние резервные копии пользователя.
func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	backups, err := h.Service.List(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("ListBackups: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]backupDTO, 0, len(backups))
	for i := range backups {
		out = append(out, toBackupDTO(&backups[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"backups": out})
}

// Download отдаёт файл копии как вложение.
func (h *BackupHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	filename, data, err := h.Service.Download(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrBackupNotFound) {
			http.Error(w, "backup not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("DownloadBackup: service error", "user_id", userID, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Restore заменяет данные пользователя содержимым документа копии.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var doc service.BackupDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.Logger.Warnw("RestoreBackup: invalid request body", "error", err)
		http.Error(w, "invalid backup document", http.StatusBadRequest)
		return
	}

	summary, err := h.Service.Restore(r.Context(), userID, doc)
	if err != nil {
		if errors.Is(err, service.ErrForeignBackup) {
			http.Error(w, "backup belongs to another user", http.StatusForbidden)
			return
		}
		h.Logger.Errorw("RestoreBackup: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "backup restored",
		"restored": summary,
	})
}

// Delete удаляет копию и её файл.
func (h *BackupHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
		if errors.Is(err, service.ErrBackupNotFound) {
			http.Error(w, "backup not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("DeleteBackup: service error", "user_id", userID, "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "backup deleted"})
}
