package model

import "time"

// Типы диабета в профиле пользователя.
const (
	DiabetesType1       = "type1"
	DiabetesType2       = "type2"
	DiabetesGestational = "gestational"
	DiabetesOther       = "other"
)

// User — учётная запись и профиль пользователя.
// Целевой диапазон глюкозы используется при оценке измерений и в отчётах.
type User struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"size:255;not null"`
	Email    string `gorm:"size:255;not null;uniqueIndex"`
	Password string `gorm:"size:255;not null"` // bcrypt-хеш

	DateOfBirth   *string `gorm:"type:date"`
	DiabetesType  string  `gorm:"size:32;not null;default:type1"`
	DiagnosisDate *string `gorm:"type:date"`

	TargetGlucoseMin int `gorm:"not null;default:70"`
	TargetGlucoseMax int `gorm:"not null;default:180"`

	Active bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
