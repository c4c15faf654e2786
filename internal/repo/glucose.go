package repo

import (
	"GlucoTrack/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// GlucoseRepository — контракт хранилища измерений глюкозы.
// Все операции ограничены записями одного пользователя.
type GlucoseRepository interface {
	// FindByDatePeriod возвращает запись по ключу (дата, период); (nil, nil) если её нет.
	FindByDatePeriod(ctx context.Context, userID int64, date, period string) (*model.GlucoseRecord, error)
	// Create сохраняет новую запись, присваивая ID и отметки времени.
	Create(ctx context.Context, rec *model.GlucoseRecord) error
	// GetByID возвращает запись пользователя по ID; (nil, nil) если не найдена или чужая.
	GetByID(ctx context.Context, userID, id int64) (*model.GlucoseRecord, error)
	// List возвращает страницу записей: сортировка по дате и времени создания по убыванию.
	List(ctx context.Context, userID int64, f model.RecordFilter, limit, offset int) ([]model.GlucoseRecord, error)
	// ListAll возвращает все записи под фильтром по возрастанию даты.
	ListAll(ctx context.Context, userID int64, f model.RecordFilter) ([]model.GlucoseRecord, error)
	// Count возвращает число записей под фильтром.
	Count(ctx context.Context, userID int64, f model.RecordFilter) (int64, error)
	// Update применяет частичное обновление; возвращает число затронутых строк.
	Update(ctx context.Context, userID, id int64, updates map[string]any) (int64, error)
	// Delete удаляет запись; возвращает число затронутых строк.
	Delete(ctx context.Context, userID, id int64) (int64, error)
}

type glucoseRepo struct {
	db *gorm.DB
}

// NewGlucoseRepository создаёт реализацию репозитория для GlucoseRecord.
func NewGlucoseRepository(db *gorm.DB) GlucoseRepository {
	return &glucoseRepo{db: db}
}

// applyRecordFilter навешивает необязательные условия выборки, объединяя их через AND.
func applyRecordFilter(tx *gorm.DB, f model.RecordFilter) *gorm.DB {
	if f.StartDate != "" {
		tx = tx.Where("date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		tx = tx.Where("date <= ?", f.EndDate)
	}
	if f.Period != "" {
		tx = tx.Where("period = ?", f.Period)
	}
	return tx
}

func (r *glucoseRepo) FindByDatePeriod(ctx context.Context, userID int64, date, period string) (*model.GlucoseRecord, error) {
	var rec model.GlucoseRecord
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

func (r *glucoseRepo) Create(ctx context.Context, rec *model.GlucoseRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *glucoseRepo) GetByID(ctx context.Context, userID, id int64) (*model.GlucoseRecord, error) {
	var rec model.GlucoseRecord
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

func (r *glucoseRepo) List(ctx context.Context, userID int64, f model.RecordFilter, limit, offset int) ([]model.GlucoseRecord, error) {
	var recs []model.GlucoseRecord
	tx := applyRecordFilter(r.db.WithContext(ctx).Where("user_id = ?", userID), f)
	err := tx.Order("date DESC").Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *glucoseRepo) ListAll(ctx context.Context, userID int64, f model.RecordFilter) ([]model.GlucoseRecord, error) {
	var recs []model.GlucoseRecord
	tx := applyRecordFilter(r.db.WithContext(ctx).Where("user_id = ?", userID), f)
	if err := tx.Order("date ASC").Order("period ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *glucoseRepo) Count(ctx context.Context, userID int64, f model.RecordFilter) (int64, error) {
	var count int64
	tx := applyRecordFilter(r.db.WithContext(ctx).Model(&model.GlucoseRecord{}).Where("user_id = ?", userID), f)
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *glucoseRepo) Update(ctx context.Context, userID, id int64, updates map[string]any) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.GlucoseRecord{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

func (r *glucoseRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.GlucoseRecord{})
	return tx.RowsAffected, tx.Error
}
