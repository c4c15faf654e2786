package handlers

import (
	"GlucoTrack/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler обрабатывает профиль, пароль и статистику пользователя.
type UserHandler struct {
	Service *service.UserService
	Logger  *zap.SugaredLogger
}

// NewUserHandler создаёт хендлер пользователей.
func NewUserHandler(svc *service.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{Service: svc, Logger: logger}
}

// Profile возвращает профиль пользователя.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.Service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("Profile: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// UpdateProfileRequest — тело запроса обновления профиля.
type UpdateProfileRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	DateOfBirth      *string `json:"dateOfBirth,omitempty"`
	DiabetesType     *string `json:"diabetesType,omitempty" validate:"omitempty,oneof=type1 type2 gestational other"`
	DiagnosisDate    *string `json:"diagnosisDate,omitempty"`
	TargetGlucoseMin *int    `json:"targetGlucoseMin,omitempty" validate:"omitempty,min=50,max=100"`
	TargetGlucoseMax *int    `json:"targetGlucoseMax,omitempty" validate:"omitempty,min=120,max=250"`
}

// UpdateProfile применяет частичное обновление профиля.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("UpdateProfile: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !validDatePtr(req.DateOfBirth) || !validDatePtr(req.DiagnosisDate) {
		http.Error(w, "invalid date format, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	user, err := h.Service.UpdateProfile(r.Context(), userID, service.UpdateProfileRequest{
		Name:             req.Name,
		DateOfBirth:      req.DateOfBirth,
		DiabetesType:     req.DiabetesType,
		DiagnosisDate:    req.DiagnosisDate,
		TargetGlucoseMin: req.TargetGlucoseMin,
		TargetGlucoseMax: req.TargetGlucoseMax,
	})
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("UpdateProfile: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "profile updated",
		"user":    toUserDTO(user),
	})
}

// ChangePasswordRequest — тело запроса смены пароля.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// ChangePassword меняет пароль после проверки текущего.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("ChangePassword: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "current password is incorrect", http.StatusUnauthorized)
			return
		}
		h.Logger.Errorw("ChangePassword: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "password changed"})
}

// Stats возвращает сводку для карточки пользователя.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	stats, err := h.Service.Stats(r.Context(), userID)
	if err != nil {
		h.Logger.Errorw("Stats: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DeleteAccountRequest — тело запроса удаления учётной записи.
// Помимо пароля требуется явное подтверждение.
type DeleteAccountRequest struct {
	Password     string `json:"password" validate:"required"`
	Confirmation string `json:"confirmation" validate:"required,eq=DELETE_MY_ACCOUNT"`
}

// DeleteAccount помечает учётную запись неактивной.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("DeleteAccount: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteAccount(r.Context(), userID, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "password is incorrect", http.StatusUnauthorized)
			return
		}
		h.Logger.Errorw("DeleteAccount: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "account deactivated"})
}
