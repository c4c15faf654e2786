package handlers

import (
	"GlucoTrack/internal/config"
	"GlucoTrack/internal/middleware"
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AuthHandler обрабатывает регистрацию, вход и выпуск токенов.
type AuthHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewAuthHandler создаёт хендлер аутентификации.
func NewAuthHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{UserService: userService, Logger: logger, Config: cfg}
}

// RegisterRequest — тело запроса регистрации.
type RegisterRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=6"`
	DateOfBirth   *string `json:"dateOfBirth,omitempty"`
	DiabetesType  string  `json:"diabetesType,omitempty" validate:"omitempty,oneof=type1 type2 gestational other"`
	DiagnosisDate *string `json:"diagnosisDate,omitempty"`
}

// LoginRequest — тело запроса входа.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userDTO — представление профиля в ответах. Хеш пароля наружу не выходит.
type userDTO struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	DateOfBirth      *string `json:"dateOfBirth"`
	DiabetesType     string  `json:"diabetesType"`
	DiagnosisDate    *string `json:"diagnosisDate"`
	TargetGlucoseMin int     `json:"targetGlucoseMin"`
	TargetGlucoseMax int     `json:"targetGlucoseMax"`
	CreatedAt        string  `json:"createdAt"`
}

func toUserDTO(u *model.User) userDTO {
	return userDTO{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		DateOfBirth:      u.DateOfBirth,
		DiabetesType:     u.DiabetesType,
		DiagnosisDate:    u.DiagnosisDate,
		TargetGlucoseMin: u.TargetGlucoseMin,
		TargetGlucoseMax: u.TargetGlucoseMax,
		CreatedAt:        u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *AuthHandler) issueToken(userID int64) (string, error) {
	ttl := time.Duration(h.Config.TokenTTLMin) * time.Minute
	return middleware.NewToken(userID, h.Config.AuthSecret, ttl)
}

// Register создаёт учётную запись и сразу выдаёт access-токен.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
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

	user, err := h.UserService.Register(r.Context(), service.RegisterRequest{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		DateOfBirth:   req.DateOfBirth,
		DiabetesType:  req.DiabetesType,
		DiagnosisDate: req.DiagnosisDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		h.Logger.Errorw("Register: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		h.Logger.Errorw("Register: failed to issue token", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "registration successful",
		"token":   token,
		"user":    toUserDTO(user),
	})
}

// Login проверяет учётные данные и выдаёт access-токен.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		h.Logger.Errorw("Login: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		h.Logger.Errorw("Login: failed to issue token", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"token":   token,
		"user":    toUserDTO(user),
	})
}

// Me возвращает профиль владельца токена.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorw("Me: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// Refresh выдаёт свежий токен взамен ещё действующего.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	token, err := h.issueToken(userID)
	if err != nil {
		h.Logger.Errorw("Refresh: failed to issue token", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

// validDatePtr проверяет необязательную дату формата YYYY-MM-DD.
func validDatePtr(s *string) bool {
	if s == nil {
		return true
	}
	_, err := time.Parse("2006-01-02", *s)
	return err == nil
}
