package repo

import (
	"GlucoTrack/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// SettingsRepository — контракт хранилища настроек пользователя.
type SettingsRepository interface {
	// Get возвращает настройки пользователя; (nil, nil) если они ещё не создавались.
	Get(ctx context.Context, userID int64) (*model.UserSettings, error)
	// Create сохраняет новый набор настроек.
	Create(ctx context.Context, s *model.UserSettings) error
	// Update применяет частичное обновление JSON-блоков.
	Update(ctx context.Context, userID int64, updates map[string]any) error
}

type settingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepository создаёт реализацию репозитория для UserSettings.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context, userID int64) (*model.UserSettings, error) {
	var s model.UserSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) Create(ctx context.Context, s *model.UserSettings) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *settingsRepo) Update(ctx context.Context, userID int64, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.UserSettings{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}
