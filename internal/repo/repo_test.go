package repo

import (
	"GlucoTrack/internal/model"
	"fmt"
	"testing"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для тестов репозитория.
// DSN уникален на тест, чтобы данные не протекали между тестами.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	// Миграции для всех моделей, используемых в репозиториях
	if err := db.AutoMigrate(
		&model.User{},
		&model.GlucoseRecord{},
		&model.InsulinRecord{},
		&model.Alert{},
		&model.UserSettings{},
		&model.Backup{},
	); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

// newTestUser создаёт пользователя и возвращает его ID.
func newTestUser(t *testing.T, db *gorm.DB, email string) int64 {
	t.Helper()
	u := &model.User{
		Name:             "Test User",
		Email:            email,
		Password:         "hash",
		DiabetesType:     model.DiabetesType1,
		TargetGlucoseMin: 70,
		TargetGlucoseMax: 180,
		Active:           true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u.ID
}
