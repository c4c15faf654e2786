package repo

import (
	"GlucoTrack/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// BackupRepository — контракт хранилища метаданных резервных копий.
type BackupRepository interface {
	// Create сохраняет запись о резервной копии.
	Create(ctx context.Context, b *model.Backup) error
	// List возвращает последние резервные копии пользователя, новые первыми.
	List(ctx context.Context, userID int64, limit int) ([]model.Backup, error)
	// GetByID возвращает резервную копию пользователя; (nil, nil) если не найдена или чужая.
	GetByID(ctx context.Context, userID, id int64) (*model.Backup, error)
	// Delete удаляет запись; возвращает число затронутых строк.
	Delete(ctx context.Context, userID, id int64) (int64, error)
}

type backupRepo struct {
	db *gorm.DB
}

// NewBackupRepository создаёт реализацию репозитория для Backup.
func NewBackupRepository(db *gorm.DB) BackupRepository {
	return &backupRepo{db: db}
}

func (r *backupRepo) Create(ctx context.Context, b *model.Backup) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *backupRepo) List(ctx context.Context, userID int64, limit int) ([]model.Backup, error) {
	var backups []model.Backup
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&backups).Error; err != nil {
		return nil, err
	}
	return backups, nil
}

func (r *backupRepo) GetByID(ctx context.Context, userID, id int64) (*model.Backup, error) {
	var b model.Backup
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *backupRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Backup{})
	return tx.RowsAffected, tx.Error
}
