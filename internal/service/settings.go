package service

import (
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/repo"
	"context"
	"encoding/json"
	"fmt"
)

// Значения настроек по умолчанию, создаются при первом обращении.
const (
	defaultNotificationSettings = `{"measurementReminders":true,"highGlucoseAlerts":true,"lowGlucoseAlerts":true,"medicationReminders":true,"weeklyReports":true}`
	defaultPrivacySettings      = `{"shareWithDoctor":false,"anonymousAnalytics":true,"dataExport":true}`
	defaultDataSettings         = `{"autoBackup":true,"backupFrequency":"daily","dataRetention":"2years"}`
	defaultReminderTimes        = `{"breakfast":"07:00","lunch":"12:00","dinner":"18:00","bedtime":"22:00"}`
)

// SettingsService — настройки пользователя с ленивым созданием значений по умолчанию.
type SettingsService struct {
	settings repo.SettingsRepository
}

// NewSettingsService создаёт сервис настроек.
func NewSettingsService(settings repo.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// DefaultSettings возвращает новый набор настроек по умолчанию для пользователя.
func DefaultSettings(userID int64) *model.UserSettings {
	return &model.UserSettings{
		UserID:               userID,
		NotificationSettings: defaultNotificationSettings,
		PrivacySettings:      defaultPrivacySettings,
		DataSettings:         defaultDataSettings,
		ReminderTimes:        defaultReminderTimes,
	}
}

// Get возвращает настройки пользователя, создавая их при первом обращении.
func (s *SettingsService) Get(ctx context.Context, userID int64) (*model.UserSettings, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	if settings != nil {
		return settings, nil
	}

	settings = DefaultSettings(userID)
	if err := s.settings.Create(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}
	return settings, nil
}

// UpdateSettingsRequest — частичное обновление JSON-блоков настроек.
// nil означает «не трогать блок».
type UpdateSettingsRequest struct {
	NotificationSettings json.RawMessage
	PrivacySettings      json.RawMessage
	DataSettings         json.RawMessage
	ReminderTimes        json.RawMessage
}

// Update заменяет переданные блоки целиком и возвращает свежие настройки.
// Если настроек ещё нет, сначала создаются значения по умолчанию.
func (s *SettingsService) Update(ctx context.Context, userID int64, req UpdateSettingsRequest) (*model.UserSettings, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.NotificationSettings != nil {
		updates["notification_settings"] = string(req.NotificationSettings)
	}
	if req.PrivacySettings != nil {
		updates["privacy_settings"] = string(req.PrivacySettings)
	}
	if req.DataSettings != nil {
		updates["data_settings"] = string(req.DataSettings)
	}
	if req.ReminderTimes != nil {
		updates["reminder_times"] = string(req.ReminderTimes)
	}

	if len(updates) > 0 {
		if err := s.settings.Update(ctx, userID, updates); err != nil {
			return nil, fmt.Errorf("failed to update settings: %w", err)
		}
	}
	return s.settings.Get(ctx, userID)
}
