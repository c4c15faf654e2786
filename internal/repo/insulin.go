package repo

import (
	"GlucoTrack/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// InsulinRepository — контракт хранилища доз инсулина, зеркален GlucoseRepository.
type InsulinRepository interface {
	FindByDatePeriod(ctx context.Context, userID int64, date, period string) (*model.InsulinRecord, error)
	Create(ctx context.Context, rec *model.InsulinRecord) error
	GetByID(ctx context.Context, userID, id int64) (*model.InsulinRecord, error)
	List(ctx context.Context, userID int64, f model.RecordFilter, limit, offset int) ([]model.InsulinRecord, error)
	ListAll(ctx context.Context, userID int64, f model.RecordFilter) ([]model.InsulinRecord, error)
	Count(ctx context.Context, userID int64, f model.RecordFilter) (int64, error)
	Update(ctx context.Context, userID, id int64, updates map[string]any) (int64, error)
	Delete(ctx context.Context, userID, id int64) (int64, error)
}

type insulinRepo struct {
	db *gorm.DB
}

// NewInsulinRepository создаёт реализацию репозитория для InsulinRecord.
func NewInsulinRepository(db *gorm.DB) InsulinRepository {
	return &insulinRepo{db: db}
}

func (r *insulinRepo) FindByDatePeriod(ctx context.Context, userID int64, date, period string) (*model.InsulinRecord, error) {
	var rec model.InsulinRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND period = ?", userID, date, period).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *insulinRepo) Create(ctx context.Context, rec *model.InsulinRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *insulinRepo) GetByID(ctx context.Context, userID, id int64) (*model.InsulinRecord, error) {
	var rec model.InsulinRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *insulinRepo) List(ctx context.Context, userID int64, f model.RecordFilter, limit, offset int) ([]model.InsulinRecord, error) {
	var recs []model.InsulinRecord
	tx := applyRecordFilter(r.db.WithContext(ctx).Where("user_id = ?", userID), f)
	err := tx.Order("date DESC").Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *insulinRepo) ListAll(ctx context.Context, userID int64, f model.RecordFilter) ([]model.InsulinRecord, error) {
	var recs []model.InsulinRecord
	tx := applyRecordFilter(r.db.WithContext(ctx).Where("user_id = ?", userID), f)
	if err := tx.Order("date ASC").Order("period ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *insulinRepo) Count(ctx context.Context, userID int64, f model.RecordFilter) (int64, error) {
	var count int64
	tx := applyRecordFilter(r.db.WithContext(ctx).Model(&model.InsulinRecord{}).Where("user_id = ?", userID), f)
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *insulinRepo) Update(ctx context.Context, userID, id int64, updates map[string]any) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.InsulinRecord{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

func (r *insulinRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.InsulinRecord{})
	return tx.RowsAffected, tx.Error
}
