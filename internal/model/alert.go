package model

import "time"

// Типы алертов.
const (
	AlertLowGlucose         = "low_glucose"
	AlertHighGlucose        = "high_glucose"
	AlertMissedMeasurement  = "missed_measurement"
	AlertMedicationReminder = "medication_reminder"
)

// Alert — запись ленты алертов. Создаётся при выходе измерения за целевой
// диапазон; после создания меняется только флаг прочтения.
type Alert struct {
	ID     int64  `gorm:"primaryKey"`
	UserID int64  `gorm:"not null;index"`
	Type   string `gorm:"size:32;not null"`

	Title        string `gorm:"size:255;not null"`
	Message      string `gorm:"size:500"`
	GlucoseValue *int   // значение, вызвавшее алерт (если применимо)

	Read bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
