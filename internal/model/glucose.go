package model

import "time"

// Периоды измерения глюкозы: натощак, до/после каждого приёма пищи и перед сном.
const (
	PeriodFasting         = "fasting"
	PeriodBeforeBreakfast = "before_breakfast"
	PeriodAfterBreakfast  = "after_breakfast"
	PeriodBeforeLunch     = "before_lunch"
	PeriodAfterLunch      = "after_lunch"
	PeriodBeforeDinner    = "before_dinner"
	PeriodAfterDinner     = "after_dinner"
	PeriodBedtime         = "bedtime"
)

// GlucosePeriods — канонический порядок периодов, используется в группировках.
var GlucosePeriods = []string{
	PeriodFasting,
	PeriodBeforeBreakfast,
	PeriodAfterBreakfast,
	PeriodBeforeLunch,
	PeriodAfterLunch,
	PeriodBeforeDinner,
	PeriodAfterDinner,
	PeriodBedtime,
}

// IsGlucosePeriod проверяет принадлежность строки к множеству периодов глюкозы.
func IsGlucosePeriod(p string) bool {
	for _, gp := range GlucosePeriods {
		if gp == p {
			return true
		}
	}
	return false
}

// Границы допустимых значений глюкозы в мг/дл.
const (
	GlucoseValueMin = 20
	GlucoseValueMax = 600
)

// GlucoseRecord — одно измерение глюкозы.
// На пару (дата, период) у пользователя допускается не более одной записи.
type GlucoseRecord struct {
	ID     int64  `gorm:"primaryKey"`
	UserID int64  `gorm:"not null;uniqueIndex:idx_glucose_user_date_period"`
	Date   string `gorm:"type:date;not null;uniqueIndex:idx_glucose_user_date_period"` // ISO YYYY-MM-DD
	Period string `gorm:"size:32;not null;uniqueIndex:idx_glucose_user_date_period"`

	Value int    `gorm:"not null"` // мг/дл
	Notes string `gorm:"size:500"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
