package handlers_test

import (
	"GlucoTrack/internal/config"
	"GlucoTrack/internal/handlers"
	"GlucoTrack/internal/middleware"
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/repo"
	"GlucoTrack/internal/service"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Local light mocks
type hMockUserRepo struct{ mock.Mock }

func (m *hMockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) UpdateProfile(ctx context.Context, id int64, updates map[string]any) error {
	return m.Called(ctx, id, updates).Error(0)
}
func (m *hMockUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}
func (m *hMockUserRepo) Deactivate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.UserRepository = (*hMockUserRepo)(nil)

type hMockGlucoseRepo struct{ mock.Mock }

func (m *hMockGlucoseRepo) FindByDatePeriod(ctx context.Context, userID int64, date, period string) (*model.GlucoseRecord, error) {
	args := m.Called(ctx, userID, date, period)
	if r, ok := args.Get(0).(*model.GlucoseRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockGlucoseRepo) Create(ctx context.Context, rec *model.GlucoseRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *hMockGlucoseRepo) GetByID(ctx context.Context, userID, id int64) (*model.GlucoseRecord, error) {
	args := m.Called(ctx, userID, id)
	if r, ok := args.Get(0).(*model.GlucoseRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockGlucoseRepo) List(ctx context.Context, userID int64, f model.RecordFilter, limit, offset int) ([]model.GlucoseRecord, error) {
	args := m.Called(ctx, userID, f, limit, offset)
	if r, ok := args.Get(0).([]model.GlucoseRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockGlucoseRepo) ListAll(ctx context.Context, userID int64, f model.RecordFilter) ([]model.GlucoseRecord, error) {
	args := m.Called(ctx, userID, f)
	if r, ok := args.Get(0).([]model.GlucoseRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockGlucoseRepo) Count(ctx context.Context, userID int64, f model.RecordFilter) (int64, error) {
	args := m.Called(ctx, userID, f)
	return args.Get(0).(int64), args.Error(1)
}
func (m *hMockGlucoseRepo) Update(ctx context.Context, userID, id int64, updates map[string]any) (int64, error) {
	args := m.Called(ctx, userID, id, updates)
	return args.Get(0).(int64), args.Error(1)
}
func (m *hMockGlucoseRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.GlucoseRepository = (*hMockGlucoseRepo)(nil)

type hMockInsulinRepo struct{ mock.Mock }

func (m *hMockInsulinRepo) FindByDatePeriod(ctx context.Context, userID int64, date, period string) (*model.InsulinRecord, error) {
	args := m.Called(ctx, userID, date, period)
	if r, ok := args.Get(0).(*model.InsulinRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockInsulinRepo) Create(ctx context.Context, rec *model.InsulinRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *hMockInsulinRepo) GetByID(ctx context.Context, userID, id int64) (*model.InsulinRecord, error) {
	args := m.Called(ctx, userID, id)
	if r, ok := args.Get(0).(*model.InsulinRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockInsulinRepo) List(ctx context.Context, userID int64, f model.RecordFilter, limit, offset int) ([]model.InsulinRecord, error) {
	args := m.Called(ctx, userID, f, limit, offset)
	if r, ok := args.Get(0).([]model.InsulinRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockInsulinRepo) ListAll(ctx context.Context, userID int64, f model.RecordFilter) ([]model.InsulinRecord, error) {
	args := m.Called(ctx, userID, f)
	if r, ok := args.Get(0).([]model.InsulinRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockInsulinRepo) Count(ctx context.Context, userID int64, f model.RecordFilter) (int64, error) {
	args := m.Called(ctx, userID, f)
	return args.Get(0).(int64), args.Error(1)
}
func (m *hMockInsulinRepo) Update(ctx context.Context, userID, id int64, updates map[string]any) (int64, error) {
	args := m.Called(ctx, userID, id, updates)
	return args.Get(0).(int64), args.Error(1)
}
func (m *hMockInsulinRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.InsulinRepository = (*hMockInsulinRepo)(nil)

type hMockAlertRepo struct{ mock.Mock }

func (m *hMockAlertRepo) Create(ctx context.Context, alert *model.Alert) error {
	return m.Called(ctx, alert).Error(0)
}
func (m *hMockAlertRepo) List(ctx context.Context, userID int64, limit int) ([]model.Alert, error) {
	args := m.Called(ctx, userID, limit)
	if r, ok := args.Get(0).([]model.Alert); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockAlertRepo) MarkRead(ctx context.Context, userID, id int64) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *hMockAlertRepo) MarkAllRead(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *hMockAlertRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.AlertRepository = (*hMockAlertRepo)(nil)

type hMockSettingsRepo struct{ mock.Mock }

func (m *hMockSettingsRepo) Get(ctx context.Context, userID int64) (*model.UserSettings, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).(*model.UserSettings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockSettingsRepo) Create(ctx context.Context, s *model.UserSettings) error {
	return m.Called(ctx, s).Error(0)
}
func (m *hMockSettingsRepo) Update(ctx context.Context, userID int64, updates map[string]any) error {
	return m.Called(ctx, userID, updates).Error(0)
}

var _ repo.SettingsRepository = (*hMockSettingsRepo)(nil)

type hMockBackupRepo struct{ mock.Mock }

func (m *hMockBackupRepo) Create(ctx context.Context, b *model.Backup) error {
	return m.Called(ctx, b).Error(0)
}
func (m *hMockBackupRepo) List(ctx context.Context, userID int64, limit int) ([]model.Backup, error) {
	args := m.Called(ctx, userID, limit)
	if r, ok := args.Get(0).([]model.Backup); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockBackupRepo) GetByID(ctx context.Context, userID, id int64) (*model.Backup, error) {
	args := m.Called(ctx, userID, id)
	if b, ok := args.Get(0).(*model.Backup); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockBackupRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.BackupRepository = (*hMockBackupRepo)(nil)

type hMockRestoreRepo struct{ mock.Mock }

func (m *hMockRestoreRepo) Restore(ctx context.Context, userID int64, data repo.RestoreData) error {
	return m.Called(ctx, userID, data).Error(0)
}

var _ repo.RestoreRepository = (*hMockRestoreRepo)(nil)

// testMocks — все репозитории тестового роутера.
type testMocks struct {
	users    *hMockUserRepo
	glucose  *hMockGlucoseRepo
	insulin  *hMockInsulinRepo
	alerts   *hMockAlertRepo
	settings *hMockSettingsRepo
	backups  *hMockBackupRepo
	restore  *hMockRestoreRepo
}

func newHandlersTestRouter(t *testing.T) (http.Handler, *config.Config, *testMocks) {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", TokenTTLMin: 60, BackupDir: t.TempDir()}
	logger := zap.NewNop().Sugar()

	m := &testMocks{
		users:    &hMockUserRepo{},
		glucose:  &hMockGlucoseRepo{},
		insulin:  &hMockInsulinRepo{},
		alerts:   &hMockAlertRepo{},
		settings: &hMockSettingsRepo{},
		backups:  &hMockBackupRepo{},
		restore:  &hMockRestoreRepo{},
	}

	userSvc := service.NewUserService(m.users, m.glucose, m.insulin, m.alerts)
	glucoseSvc := service.NewGlucoseService(m.glucose, m.users, m.alerts, logger)
	insulinSvc := service.NewInsulinService(m.insulin, logger)
	alertSvc := service.NewAlertService(m.alerts)
	settingsSvc := service.NewSettingsService(m.settings)
	backupSvc := service.NewBackupService(m.users, m.glucose, m.insulin, m.settings, m.alerts, m.backups, m.restore, cfg.BackupDir, logger)
	reportSvc := service.NewReportService(m.users, m.glucose, m.insulin, m.alerts)

	h := handlers.NewHandler(userSvc, glucoseSvc, insulinSvc, alertSvc, settingsSvc, backupSvc, reportSvc, logger, cfg)
	return h.Router, cfg, m
}

func addAuth(t *testing.T, req *http.Request, userID int64, secret string) {
	t.Helper()
	token, err := middleware.NewToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
