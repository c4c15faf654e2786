package model

import "time"

// Статусы резервной копии.
const (
	BackupPending   = "pending"
	BackupCompleted = "completed"
	BackupFailed    = "failed"
)

// Backup — метаданные файла резервной копии пользователя.
type Backup struct {
	ID     int64 `gorm:"primaryKey"`
	UserID int64 `gorm:"not null;index"`

	Filename string `gorm:"size:255;not null"`
	FilePath string `gorm:"size:500"`
	FileSize int64
	Status   string `gorm:"size:32;not null;default:pending"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
