package service

import (
	"GlucoTrack/internal/model"
	"GlucoTrack/internal/repo"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// backupFormatVersion — версия формата документа резервной копии.
// Восстановление принимает документы той же мажорной линии.
const backupFormatVersion = "1.0.0"

// backupListLimit — сколько последних копий отдаёт список.
const backupListLimit = 20

// restoreAlertCap — при восстановлении возвращаются только непрочитанные
// алерты, не больше этого количества самых свежих.
const restoreAlertCap = 10

// BackupExportInfo — заголовок документа: когда, в каком формате и для кого
// сделан экспорт. UserID используется проверкой принадлежности при восстановлении.
type BackupExportInfo struct {
	ExportDate string `json:"exportDate"`
	Version    string `json:"version"`
	UserID     int64  `json:"userId"`
}

// BackupUser — срез профиля в документе. Хеш пароля не экспортируется.
type BackupUser struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	DiabetesType     string    `json:"diabetes_type"`
	DateOfBirth      *string   `json:"date_of_birth"`
	DiagnosisDate    *string   `json:"diagnosis_date"`
	TargetGlucoseMin int       `json:"target_glucose_min"`
	TargetGlucoseMax int       `json:"target_glucose_max"`
	CreatedAt        time.Time `json:"created_at"`
}

// BackupGlucoseRecord — измерение глюкозы в документе.
type BackupGlucoseRecord struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Date         string    `json:"date"`
	Period       string    `json:"period"`
	GlucoseValue int       `json:"glucose_value"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BackupInsulinRecord — доза инсулина в документе.
type BackupInsulinRecord struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Date        string    `json:"date"`
	Period      string    `json:"period"`
	InsulinType string    `json:"insulin_type"`
	Units       float64   `json:"units"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BackupSettings — настройки в документе; блоки переносятся как есть.
type BackupSettings struct {
	NotificationSettings json.RawMessage `json:"notification_settings"`
	PrivacySettings      json.RawMessage `json:"privacy_settings"`
	DataSettings         json.RawMessage `json:"data_settings"`
	ReminderTimes        json.RawMessage `json:"reminder_times"`
}

// BackupAlert — алерт в документе.
type BackupAlert struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	GlucoseValue *int      `json:"glucose_value"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}

// BackupDocument — самодостаточный JSON-снимок всех данных пользователя.
// Формат стабилен: ранее выгруженные документы должны восстанавливаться.
type BackupDocument struct {
	ExportInfo     BackupExportInfo      `json:"exportInfo"`
	User           BackupUser            `json:"user"`
	GlucoseRecords []BackupGlucoseRecord `json:"glucoseRecords"`
	InsulinRecords []BackupInsulinRecord `json:"insulinRecords"`
	Settings       *BackupSettings       `json:"settings"`
	Alerts         []BackupAlert         `json:"alerts"`
}

// RestoreSummary — сколько чего было восстановлено. Числа считаются по
// входному документу, а не повторным запросом после коммита.
type RestoreSummary struct {
	GlucoseRecords   int  `json:"glucoseRecords"`
	InsulinRecords   int  `json:"insulinRecords"`
	SettingsRestored bool `json:"settingsRestored"`
	AlertsRestored   int  `json:"alertsRestored"`
}

// BackupService — координатор экспорта и восстановления данных пользователя.
type BackupService struct {
	users    repo.UserRepository
	glucose  repo.GlucoseRepository
	insulin  repo.InsulinRepository
	settings repo.SettingsRepository
	alerts   repo.AlertRepository
	backups  repo.BackupRepository
	restore  repo.RestoreRepository

	dir    string
	logger *zap.SugaredLogger
}

// NewBackupService создаёт координатор резервных копий; dir — каталог файлов.
func NewBackupService(
	users repo.UserRepository,
	glucose repo.GlucoseRepository,
	insulin repo.InsulinRepository,
	settings repo.SettingsRepository,
	alerts repo.AlertRepository,
	backups repo.BackupRepository,
	restore repo.RestoreRepository,
	dir string,
	logger *zap.SugaredLogger,
) *BackupService {
	return &BackupService{
		users:    users,
		glucose:  glucose,
		insulin:  insulin,
		settings: settings,
		alerts:   alerts,
		backups:  backups,
		restore:  restore,
		dir:      dir,
		logger:   logger,
	}
}

// Create собирает снимок данных пользователя, пишет его в файл и фиксирует
// метаданные со статусом completed. Пять выборок независимы и читаются
// конкурентно; первая же ошибка отменяет остальные. При любом сбое
// фиксируется запись со статусом failed (в меру возможностей) и
// возвращается ошибка.
func (s *BackupService) Create(ctx context.Context, userID int64) (*model.Backup, error) {
	var (
		user     *model.User
		grecs    []model.GlucoseRecord
		irecs    []model.InsulinRecord
		settings *model.UserSettings
		alerts   []model.Alert
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.users.GetUserByID(gctx, userID)
		if err == nil && user == nil {
			err = ErrRecordNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		grecs, err = s.glucose.ListAll(gctx, userID, model.RecordFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		irecs, err = s.insulin.ListAll(gctx, userID, model.RecordFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.settings.Get(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		alerts, err = s.alerts.List(gctx, userID, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		s.recordFailure(ctx, userID)
		return nil, fmt.Errorf("failed to gather backup data: %w", err)
	}

	doc := s.buildDocument(userID, user, grecs, irecs, settings, alerts)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.recordFailure(ctx, userID)
		return nil, fmt.Errorf("failed to serialize backup: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.recordFailure(ctx, userID)
		return nil, fmt.Errorf("failed to create backup dir: %w", err)
	}
	filename := fmt.Sprintf("backup_%d_%s.json", userID, uuid.NewString())
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		s.recordFailure(ctx, userID)
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	b := &model.Backup{
		UserID:   userID,
		Filename: filename,
		FilePath: path,
		FileSize: int64(len(data)),
		Status:   model.BackupCompleted,
	}
	if err := s.backups.Create(ctx, b); err != nil {
		s.recordFailure(ctx, userID)
		return nil, fmt.Errorf("failed to record backup: %w", err)
	}
	return b, nil
}

// recordFailure фиксирует неудавшуюся попытку. Ошибка самой фиксации
// только логируется: вторая ошибка не должна заслонять первую.
func (s *BackupService) recordFailure(ctx context.Context, userID int64) {
	b := &model.Backup{
		UserID:   userID,
		Filename: fmt.Sprintf("backup_failed_%d", time.Now().UnixMilli()),
		Status:   model.BackupFailed,
	}
	if err := s.backups.Create(ctx, b); err != nil {
		s.logger.Errorw("failed to record failed backup", "user_id", userID, "error", err)
	}
}

func (s *BackupService) buildDocument(userID int64, user *model.User, grecs []model.GlucoseRecord, irecs []model.InsulinRecord, settings *model.UserSettings, alerts []model.Alert) BackupDocument {
	doc := BackupDocument{
		ExportInfo: BackupExportInfo{
			ExportDate: time.Now().UTC().Format(time.RFC3339),
			Version:    backupFormatVersion,
			UserID:     userID,
		},
		User: BackupUser{
			ID:               user.ID,
			Name:             user.Name,
			Email:            user.Email,
			DiabetesType:     user.DiabetesType,
			DateOfBirth:      user.DateOfBirth,
			DiagnosisDate:    user.DiagnosisDate,
			TargetGlucoseMin: user.TargetGlucoseMin,
			TargetGlucoseMax: user.TargetGlucoseMax,
			CreatedAt:        user.CreatedAt,
		},
		GlucoseRecords: make([]BackupGlucoseRecord, 0, len(grecs)),
		InsulinRecords: make([]BackupInsulinRecord, 0, len(irecs)),
		Alerts:         make([]BackupAlert, 0, len(alerts)),
	}

	for _, rec := range grecs {
		doc.GlucoseRecords = append(doc.GlucoseRecords, BackupGlucoseRecord{
			ID:           rec.ID,
			UserID:       rec.UserID,
			Date:         rec.Date,
			Period:       rec.Period,
			GlucoseValue: rec.Value,
			Notes:        rec.Notes,
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
		})
	}
	for _, rec := range irecs {
		doc.InsulinRecords = append(doc.InsulinRecords, BackupInsulinRecord{
			ID:          rec.ID,
			UserID:      rec.UserID,
			Date:        rec.Date,
			Period:      rec.Period,
			InsulinType: rec.InsulinType,
			Units:       rec.Units,
			Notes:       rec.Notes,
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
		})
	}
	if settings != nil {
		doc.Settings = &BackupSettings{
			NotificationSettings: json.RawMessage(settings.NotificationSettings),
			PrivacySettings:      json.RawMessage(settings.PrivacySettings),
			DataSettings:         json.RawMessage(settings.DataSettings),
			ReminderTimes:        json.RawMessage(settings.ReminderTimes),
		}
	}
	for _, a := range alerts {
		doc.Alerts = append(doc.Alerts, BackupAlert{
			ID:           a.ID,
			UserID:       a.UserID,
			Type:         a.Type,
			Title:        a.Title,
			Message:      a.Message,
			GlucoseValue: a.GlucoseValue,
			Read:         a.Read,
			CreatedAt:    a.CreatedAt,
		})
	}
	return doc
}

// Restore заменяет данные пользователя содержимым документа.
// Принадлежность документа проверяется до любой записи; сама замена
// выполняется одной транзакцией в RestoreRepository.
func (s *BackupService) Restore(ctx context.Context, userID int64, doc BackupDocument) (*RestoreSummary, error) {
	if doc.ExportInfo.UserID != userID {
		return nil, ErrForeignBackup
	}

	data := repo.RestoreData{
		Glucose: make([]model.GlucoseRecord, 0, len(doc.GlucoseRecords)),
		Insulin: make([]model.InsulinRecord, 0, len(doc.InsulinRecords)),
	}

	// ID обнуляются: хранилище присвоит новые.
	for _, rec := range doc.GlucoseRecords {
		data.Glucose = append(data.Glucose, model.GlucoseRecord{
			UserID:    userID,
			Date:      rec.Date,
			Period:    rec.Period,
			Value:     rec.GlucoseValue,
			Notes:     rec.Notes,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}
	for _, rec := range doc.InsulinRecords {
		data.Insulin = append(data.Insulin, model.InsulinRecord{
			UserID:      userID,
			Date:        rec.Date,
			Period:      rec.Period,
			InsulinType: rec.InsulinType,
			Units:       rec.Units,
			Notes:       rec.Notes,
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
		})
	}
	if doc.Settings != nil {
		data.Settings = &model.UserSettings{
			UserID:               userID,
			NotificationSettings: string(doc.Settings.NotificationSettings),
			PrivacySettings:      string(doc.Settings.PrivacySettings),
			DataSettings:         string(doc.Settings.DataSettings),
			ReminderTimes:        string(doc.Settings.ReminderTimes),
		}
	}

	restorable := selectRestorableAlerts(doc.Alerts)
	for _, a := range restorable {
		data.Alerts = append(data.Alerts, model.Alert{
			UserID:       userID,
			Type:         a.Type,
			Title:        a.Title,
			Message:      a.Message,
			GlucoseValue: a.GlucoseValue,
			Read:         false,
			CreatedAt:    a.CreatedAt,
		})
	}

	// Поля профиля обновляются из документа; email и пароль не трогаем.
	data.Profile = map[string]any{
		"diabetes_type":      doc.User.DiabetesType,
		"date_of_birth":      doc.User.DateOfBirth,
		"diagnosis_date":     doc.User.DiagnosisDate,
		"target_glucose_min": doc.User.TargetGlucoseMin,
		"target_glucose_max": doc.User.TargetGlucoseMax,
	}

	if err := s.restore.Restore(ctx, userID, data); err != nil {
		return nil, fmt.Errorf("failed to restore backup: %w", err)
	}

	return &RestoreSummary{
		GlucoseRecords:   len(doc.GlucoseRecords),
		InsulinRecords:   len(doc.InsulinRecords),
		SettingsRestored: doc.Settings != nil,
		AlertsRestored:   len(restorable),
	}, nil
}

// selectRestorableAlerts отбирает из документа непрочитанные алерты,
// самые свежие первыми, не больше restoreAlertCap штук.
func selectRestorableAlerts(alerts []BackupAlert) []BackupAlert {
	unread := make([]BackupAlert, 0, len(alerts))
	for _, a := range alerts {
		if !a.Read {
			unread = append(unread, a)
		}
	}
	sort.SliceStable(unread, func(i, j int) bool {
		return unread[i].CreatedAt.After(unread[j].CreatedAt)
	})
	if len(unread) > restoreAlertCap {
		unread = unread[:restoreAlertCap]
	}
	return unread
}

// List возвращает последние резервные копии пользователя.
func (s *BackupService) List(ctx context.Context, userID int64) ([]model.Backup, error) {
	backups, err := s.backups.List(ctx, userID, backupListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	return backups, nil
}

// Download возвращает имя и содержимое файла завершённой копии.
func (s *BackupService) Download(ctx context.Context, userID, id int64) (string, []byte, error) {
	b, err := s.backups.GetByID(ctx, userID, id)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch backup: %w", err)
	}
	if b == nil || b.Status != model.BackupCompleted {
		return "", nil, ErrBackupNotFound
	}
	data, err := os.ReadFile(b.FilePath)
	if err != nil {
		// файл мог быть удалён извне; для клиента это то же "не найдено"
		s.logger.Warnw("backup file missing", "user_id", userID, "backup_id", id, "path", b.FilePath, "error", err)
		return "", nil, ErrBackupNotFound
	}
	return b.Filename, data, nil
}

// Delete удаляет запись о копии и её файл. Ошибка удаления файла не
// мешает удалению записи, но логируется.
func (s *BackupService) Delete(ctx context.Context, userID, id int64) error {
	b, err := s.backups.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to fetch backup: %w", err)
	}
	if b == nil {
		return ErrBackupNotFound
	}
	if b.FilePath != "" {
		if err := os.Remove(b.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warnw("failed to remove backup file", "path", b.FilePath, "error", err)
		}
	}
	if _, err := s.backups.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete backup record: %w", err)
	}
	return nil
}
