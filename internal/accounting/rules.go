package accounting

import "github.com/Spok95/print-stock/internal/apperr"

// Чистые переходы состояний. Никакого I/O: движок читает строку под
// блокировкой, прогоняет переход, пишет результат. Так инварианты
// проверяются в одном месте и тестируются без базы.

// RollState — остаток рулона.
type RollState struct {
	TotalKg     float64
	RemainingKg float64
}

// AssignmentState — остаток бумажной карты у типографии.
type AssignmentState struct {
	SentKg      float64
	RemainingKg float64
}

// Bucket — двухведёрный учёт: available + used.
// Для материала available = total - used, для клиента хранится напрямую.
type Bucket struct {
	AvailableKg float64
	UsedKg      float64
}

// AssignFromRoll списывает amountKg с рулона под новую карту.
func AssignFromRoll(r RollState, amountKg float64) (RollState, error) {
	if amountKg <= 0 {
		return r, apperr.Invalid("assignment amount must be > 0, got %v", amountKg)
	}
	if amountKg > r.RemainingKg {
		return r, apperr.Insufficient("roll has %.3f kg remaining, requested %.3f kg", r.RemainingKg, amountKg)
	}
	r.RemainingKg -= amountKg
	return r, nil
}

// ReceiveFromAssignment списывает приход с карты.
func ReceiveFromAssignment(a AssignmentState, amountKg float64) (AssignmentState, error) {
	if amountKg <= 0 {
		return a, apperr.Invalid("receipt amount must be > 0, got %v", amountKg)
	}
	if amountKg > a.RemainingKg {
		return a, apperr.Insufficient("assignment has %.3f kg remaining, requested %.3f kg", a.RemainingKg, amountKg)
	}
	a.RemainingKg -= amountKg
	return a, nil
}

// Credit пополняет available (приход бумаги клиенту).
func Credit(b Bucket, amountKg float64) (Bucket, error) {
	if amountKg <= 0 {
		return b, apperr.Invalid("credit amount must be > 0, got %v", amountKg)
	}
	b.AvailableKg += amountKg
	return b, nil
}

// Consume переносит amountKg из available в used.
func Consume(b Bucket, amountKg float64) (Bucket, error) {
	if amountKg <= 0 {
		return b, apperr.Invalid("consume amount must be > 0, got %v", amountKg)
	}
	if amountKg > b.AvailableKg {
		return b, apperr.Insufficient("only %.3f kg available, requested %.3f kg", b.AvailableKg, amountKg)
	}
	b.AvailableKg -= amountKg
	b.UsedKg += amountKg
	return b, nil
}
