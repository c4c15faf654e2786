package model

import "time"

// UserSettings — пользовательские настройки, четыре независимых JSON-блока.
// Создаются лениво при первом обращении.
type UserSettings struct {
	ID     int64 `gorm:"primaryKey"`
	UserID int64 `gorm:"not null;uniqueIndex"`

	NotificationSettings string `gorm:"type:json"`
	PrivacySettings      string `gorm:"type:json"`
	DataSettings         string `gorm:"type:json"`
	ReminderTimes        string `gorm:"type:json"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
