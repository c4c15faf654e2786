package service

import (
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/repo"
	"context"

	"github.com/stretchr/testify/mock"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id int64, updates map[string]any) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockUserRepo) Deactivate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// мок для repo.GlucoseRepository
type mockGlucoseRepo struct{ mock.Mock }

func (m *mockGlucoseRepo) FindByDatePeriod(ctx context.Context, userID int64, date, period string) (*model.GlucoseRecord, error) {
	args := m.Called(ctx, userID, date, period)
	if r, ok := args.Get(0).(*model.GlucoseRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGlucoseRepo) Create(ctx context.Context, rec *model.GlucoseRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockGlucoseRepo) GetByID(ctx context.Context, userID, id int64) (*model.GlucoseRecord, error) {
	args := m.Called(ctx, userID, id)
	if r, ok := args.Get(0).(*model.GlucoseRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGlucoseRepo) List(ctx context.Context, userID int64, f model.RecordFilter, limit, offset int) ([]model.GlucoseRecord, error) {
	args := m.Called(ctx, userID, f, limit, offset)
	if r, ok := args.Get(0).([]model.GlucoseRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGlucoseRepo) ListAll(ctx context.Context, userID int64, f model.RecordFilter) ([]model.GlucoseRecord, error) {
	args := m.Called(ctx, userID, f)
	if r, ok := args.Get(0).([]model.GlucoseRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGlucoseRepo) Count(ctx context.Context, userID int64, f model.RecordFilter) (int64, error) {
	args := m.Called(ctx, userID, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGlucoseRepo) Update(ctx context.Context, userID, id int64, updates map[string]any) (int64, error) {
	args := m.Called(ctx, userID, id, updates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGlucoseRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.GlucoseRepository = (*mockGlucoseRepo)(nil)

// мок для repo.InsulinRepository
type mockInsulinRepo struct{ mock.Mock }

func (m *mockInsulinRepo) FindByDatePeriod(ctx context.Context, userID int64, date, period string) (*model.InsulinRecord, error) {
	args := m.Called(ctx, userID, date, period)
	if r, ok := args.Get(0).(*model.InsulinRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsulinRepo) Create(ctx context.Context, rec *model.InsulinRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockInsulinRepo) GetByID(ctx context.Context, userID, id int64) (*model.InsulinRecord, error) {
	args := m.Called(ctx, userID, id)
	if r, ok := args.Get(0).(*model.InsulinRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsulinRepo) List(ctx context.Context, userID int64, f model.RecordFilter, limit, offset int) ([]model.InsulinRecord, error) {
	args := m.Called(ctx, userID, f, limit, offset)
	if r, ok := args.Get(0).([]model.InsulinRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsulinRepo) ListAll(ctx context.Context, userID int64, f model.RecordFilter) ([]model.InsulinRecord, error) {
	args := m.Called(ctx, userID, f)
	if r, ok := args.Get(0).([]model.InsulinRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsulinRepo) Count(ctx context.Context, userID int64, f model.RecordFilter) (int64, error) {
	args := m.Called(ctx, userID, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockInsulinRepo) Update(ctx context.Context, userID, id int64, updates map[string]any) (int64, error) {
	args := m.Called(ctx, userID, id, updates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockInsulinRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.InsulinRepository = (*mockInsulinRepo)(nil)

// мок для repo.AlertRepository
type mockAlertRepo struct{ mock.Mock }

func (m *mockAlertRepo) Create(ctx context.Context, alert *model.Alert) error {
	return m.Called(ctx, alert).Error(0)
}

func (m *mockAlertRepo) List(ctx context.Context, userID int64, limit int) ([]model.Alert, error) {
	args := m.Called(ctx, userID, limit)
	if r, ok := args.Get(0).([]model.Alert); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAlertRepo) MarkRead(ctx context.Context, userID, id int64) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAlertRepo) MarkAllRead(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockAlertRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.AlertRepository = (*mockAlertRepo)(nil)

// мок для repo.SettingsRepository
type mockSettingsRepo struct{ mock.Mock }

func (m *mockSettingsRepo) Get(ctx context.Context, userID int64) (*model.UserSettings, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).(*model.UserSettings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSettingsRepo) Create(ctx context.Context, s *model.UserSettings) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSettingsRepo) Update(ctx context.Context, userID int64, updates map[string]any) error {
	return m.Called(ctx, userID, updates).Error(0)
}

var _ repo.SettingsRepository = (*mockSettingsRepo)(nil)

// мок для repo.BackupRepository
type mockBackupRepo struct{ mock.Mock }

func (m *mockBackupRepo) Create(ctx context.Context, b *model.Backup) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBackupRepo) List(ctx context.Context, userID int64, limit int) ([]model.Backup, error) {
	args := m.Called(ctx, userID, limit)
	if r, ok := args.Get(0).([]model.Backup); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackupRepo) GetByID(ctx context.Context, userID, id int64) (*model.Backup, error) {
	args := m.Called(ctx, userID, id)
	if b, ok := args.Get(0).(*model.Backup); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackupRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.BackupRepository = (*mockBackupRepo)(nil)

// мок для repo.RestoreRepository
type mockRestoreRepo struct{ mock.Mock }

func (m *mockRestoreRepo) Restore(ctx context.Context, userID int64, data repo.RestoreData) error {
	return m.Called(ctx, userID, data).Error(0)
}

var _ repo.RestoreRepository = (*mockRestoreRepo)(nil)
