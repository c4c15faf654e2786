package repo

import (
	"GlucoTrack/internal/model"
	"context"

	"gorm.io/gorm"
)

// RestoreData — полный набор данных пользователя для транзакционного
// восстановления. ID у записей должны быть обнулены: хранилище присвоит новые.
type RestoreData struct {
	Glucose  []model.GlucoseRecord
	Insulin  []model.InsulinRecord
	Settings *model.UserSettings
	Alerts   []model.Alert
	Profile  map[string]any // обновляемые поля users (без email и пароля)
}

// RestoreRepository выполняет замену данных пользователя одной транзакцией.
type RestoreRepository interface {
	// Restore удаляет текущие алерты, дозы, измерения и настройки пользователя
	// и вставляет данные из data. Любая ошибка откатывает всю операцию:
	// частично восстановленное состояние снаружи не наблюдаемо.
	Restore(ctx context.Context, userID int64, data RestoreData) error
}

type restoreRepo struct {
	db *gorm.DB
}

// NewRestoreRepository создаёт реализацию транзакционного восстановления.
func NewRestoreRepository(db *gorm.DB) RestoreRepository {
	return &restoreRepo{db: db}
}

func (r *restoreRepo) Restore(ctx context.Context, userID int64, data RestoreData) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.Alert{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.InsulinRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.GlucoseRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserSettings{}).Error; err != nil {
			return err
		}

		if len(data.Glucose) > 0 {
			if err := tx.Create(&data.Glucose).Error; err != nil {
				return err
			}
		}
		if len(data.Insulin) > 0 {
			if err := tx.Create(&data.Insulin).Error; err != nil {
				return err
			}
		}
		if data.Settings != nil {
			if err := tx.Create(data.Settings).Error; err != nil {
				return err
			}
		}
		if len(data.Alerts) > 0 {
			if err := tx.Create(&data.Alerts).Error; err != nil {
				return err
			}
		}

		if len(data.Profile) > 0 {
			if err := tx.Model(&model.User{}).Where("id = ?", userID).Updates(data.Profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
