package service

// AlertDecision — результат сравнения измерения с целевым диапазоном.
type AlertDecision int

const (
	// DecisionNone — значение в пределах диапазона, алерт не нужен.
	DecisionNone AlertDecision = iota
	// DecisionLow — значение ниже целевого минимума.
	DecisionLow
	// DecisionHigh — значение выше целевого максимума.
	DecisionHigh
)

// EvaluateThreshold сравнивает измерение глюкозы с целевым диапазоном
// [targetMin, targetMax]. Граничные значения считаются в норме.
// Чистая функция: запись алерта делает вызывающая сторона.
func EvaluateThreshold(value, targetMin, targetMax int) AlertDecision {
	switch {
	case value < targetMin:
		return DecisionLow
	case value > targetMax:
		return DecisionHigh
	default:
		return DecisionNone
	}
}
