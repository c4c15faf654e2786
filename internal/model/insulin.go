package model

import "time"

// Периоды введения инсулина привязаны к приёмам пищи и сну.
const (
	InsulinPeriodBreakfast = "breakfast"
	InsulinPeriodLunch     = "lunch"
	InsulinPeriodDinner    = "dinner"
	InsulinPeriodBedtime   = "bedtime"
)

// InsulinPeriods — канонический порядок периодов инсулина.
var InsulinPeriods = []string{
	InsulinPeriodBreakfast,
	InsulinPeriodLunch,
	InsulinPeriodDinner,
	InsulinPeriodBedtime,
}

// IsInsulinPeriod проверяет принадлежность строки к множеству периодов инсулина.
func IsInsulinPeriod(p string) bool {
	for _, ip := range InsulinPeriods {
		if ip == p {
			return true
		}
	}
	return false
}

// Типы инсулина.
const (
	InsulinRapid = "rapid"
	InsulinLong  = "long"
	InsulinMixed = "mixed"
	InsulinOther = "other"
)

// Границы допустимой дозы в единицах.
const (
	InsulinUnitsMin = 0.1
	InsulinUnitsMax = 100
)

// InsulinRecord — одна доза инсулина.
// Инвариант уникальности тот же, что и у GlucoseRecord.
type InsulinRecord struct {
	ID     int64  `gorm:"primaryKey"`
	UserID int64  `gorm:"not null;uniqueIndex:idx_insulin_user_date_period"`
	Date   string `gorm:"type:date;not null;uniqueIndex:idx_insulin_user_date_period"`
	Period string `gorm:"size:32;not null;uniqueIndex:idx_insulin_user_date_period"`

	InsulinType string  `gorm:"size:32;not null;default:rapid"`
	Units       float64 `gorm:"type:decimal(5,2);not null"`
	Notes       string  `gorm:"size:500"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
