package service

import (
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/repo"
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserService инкапсулирует регистрацию, аутентификацию и работу с профилем.
type UserService struct {
	users   repo.UserRepository
	glucose repo.GlucoseRepository
	insulin repo.InsulinRepository
	alerts  repo.AlertRepository
}

// NewUserService создаёт сервис пользователей.
func NewUserService(users repo.UserRepository, glucose repo.GlucoseRepository, insulin repo.InsulinRepository, alerts repo.AlertRepository) *UserService {
	return &UserService{users: users, glucose: glucose, insulin: insulin, alerts: alerts}
}

// RegisterRequest — данные новой учётной записи. Поля профиля опциональны.
type RegisterRequest struct {
	Name          string
	Email         string
	Password      string
	DateOfBirth   *string
	DiabetesType  string
	DiagnosisDate *string
}

// Register создаёт пользователя с bcrypt-хешем пароля.
// Возвращает ErrEmailTaken, если email занят.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	existing, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:          req.Name,
		Email:         req.Email,
		Password:      string(hash),
		DateOfBirth:   req.DateOfBirth,
		DiagnosisDate: req.DiagnosisDate,
		DiabetesType:  req.DiabetesType,
		Active:        true,
	}
	if user.DiabetesType == "" {
		user.DiabetesType = model.DiabetesType1
	}
	if user.TargetGlucoseMin == 0 {
		user.TargetGlucoseMin = 70
	}
	if user.TargetGlucoseMax == 0 {
		user.TargetGlucoseMax = 180
	}

	return s.users.CreateUser(ctx, user)
}

// Login проверяет учётные данные. Неактивные пользователи и неверные пароли
// неразличимы снаружи: всегда ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetProfile возвращает профиль пользователя.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, ErrRecordNotFound
	}
	return user, nil
}

// UpdateProfileRequest — частичное обновление профиля. nil означает «не трогать».
type UpdateProfileRequest struct {
	Name             *string
	DateOfBirth      *string
	DiabetesType     *string
	DiagnosisDate    *string
	TargetGlucoseMin *int
	TargetGlucoseMax *int
}

// UpdateProfile применяет частичное обновление и возвращает свежий профиль.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*model.User, error) {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.DateOfBirth != nil {
		updates["date_of_birth"] = *req.DateOfBirth
	}
	if req.DiabetesType != nil {
		updates["diabetes_type"] = *req.DiabetesType
	}
	if req.DiagnosisDate != nil {
		updates["diagnosis_date"] = *req.DiagnosisDate
	}
	if req.TargetGlucoseMin != nil {
		updates["target_glucose_min"] = *req.TargetGlucoseMin
	}
	if req.TargetGlucoseMax != nil {
		updates["target_glucose_max"] = *req.TargetGlucoseMax
	}

	if len(updates) > 0 {
		if err := s.users.UpdateProfile(ctx, userID, updates); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return s.GetProfile(ctx, userID)
}

// ChangePassword меняет пароль после проверки текущего.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

// DeleteAccount проверяет пароль и помечает учётную запись неактивной.
// Данные пользователя при этом не удаляются.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64, password string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return s.users.Deactivate(ctx, userID)
}

// UserStats — сводка для карточки пользователя.
type UserStats struct {
	TotalGlucoseRecords int64  `json:"totalGlucoseRecords"`
	TotalInsulinRecords int64  `json:"totalInsulinRecords"`
	RecentGlucoseAvg    int    `json:"recentGlucoseAvg"`
	Trend               string `json:"trend"` // up | down | stable
	UnreadAlerts        int64  `json:"unreadAlerts"`
}

// Stats считает агрегаты по последней неделе и тренд относительно предыдущей.
func (s *UserService) Stats(ctx context.Context, userID int64) (*UserStats, error) {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7).Format("2006-01-02")
	twoWeeksAgo := now.AddDate(0, 0, -14).Format("2006-01-02")
	eightDaysAgo := now.AddDate(0, 0, -8).Format("2006-01-02")

	totalGlucose, err := s.glucose.Count(ctx, userID, model.RecordFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count glucose records: %w", err)
	}
	totalInsulin, err := s.insulin.Count(ctx, userID, model.RecordFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count insulin records: %w", err)
	}

	recent, err := s.glucose.ListAll(ctx, userID, model.RecordFilter{StartDate: weekAgo})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent records: %w", err)
	}
	previous, err := s.glucose.ListAll(ctx, userID, model.RecordFilter{StartDate: twoWeeksAgo, EndDate: eightDaysAgo})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch previous week records: %w", err)
	}

	recentStats := SummarizeGlucose(recent)
	previousStats := SummarizeGlucose(previous)

	trend := "stable"
	if recentStats.Average > previousStats.Average {
		trend = "up"
	} else if recentStats.Average < previousStats.Average {
		trend = "down"
	}

	unread, err := s.alerts.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread alerts: %w", err)
	}

	return &UserStats{
		TotalGlucoseRecords: totalGlucose,
		TotalInsulinRecords: totalInsulin,
		RecentGlucoseAvg:    recentStats.Average,
		Trend:               trend,
		UnreadAlerts:        unread,
	}, nil
}
