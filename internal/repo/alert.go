package repo

import (
	"GlucoTrack/internal/model"
	"context"

	"gorm.io/gorm"
)

// AlertRepository — контракт ленты алертов.
type AlertRepository interface {
	// Create добавляет алерт в ленту.
	Create(ctx context.Context, alert *model.Alert) error
	// List возвращает алерты пользователя от новых к старым;
	// limit <= 0 означает выборку без ограничения.
	List(ctx context.Context, userID int64, limit int) ([]model.Alert, error)
	// MarkRead помечает алерт прочитанным; возвращает число затронутых строк.
	MarkRead(ctx context.Context, userID, id int64) (int64, error)
	// MarkAllRead помечает прочитанными все непрочитанные алерты пользователя.
	MarkAllRead(ctx context.Context, userID int64) error
	// CountUnread возвращает число непрочитанных алертов.
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type alertRepo struct {
	db *gorm.DB
}

// NewAlertRepository создаёт реализацию репозитория для Alert.
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepo{db: db}
}

func (r *alertRepo) Create(ctx context.Context, alert *model.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepo) List(ctx context.Context, userID int64, limit int) ([]model.Alert, error) {
	var alerts []model.Alert
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepo) MarkRead(ctx context.Context, userID, id int64) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Alert{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	return tx.RowsAffected, tx.Error
}

func (r *alertRepo) MarkAllRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&model.Alert{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

func (r *alertRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Alert{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
