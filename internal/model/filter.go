package model

// RecordFilter — необязательные условия выборки измерений.
// Пустая строка означает отсутствие ограничения по этому измерению;
// заданные условия комбинируются через AND.
type RecordFilter struct {
	StartDate string // дата >= StartDate (ISO YYYY-MM-DD)
	EndDate   string // дата <= EndDate
	Period    string // период = Period
}
