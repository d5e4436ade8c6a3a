package rolls

import (
	"time"

	"github.com/google/uuid"
)

// Roll — зарегистрированный рулон чистой бумаги.
// Инвариант: RemainingKg = TotalKg - Σ sent_kg назначений, >= 0.
type Roll struct {
	ID          int64
	OrgID       uuid.UUID
	Name        string
	TotalKg     float64
	RemainingKg float64
	CreatedAt   time.Time
}

// Assignment — «бумажная карта»: часть рулона, отправленная типографии.
// Хранится отдельной строкой (а не элементом массива в рулоне),
// чтобы конкурентные приходы не переписывали весь список.
// Инвариант: RemainingKg = SentKg - Σ amount_kg приходов, >= 0.
type Assignment struct {
	ID          int64
	RollID      int64
	AgencyID    int64
	SentKg      float64
	RemainingKg float64
	CreatedAt   time.Time
}

// Receipt — приход напечатанной бумаги с типографии на клиента.
// Исторический факт, после записи не меняется.
type Receipt struct {
	ID             int64
	AssignmentID   int64
	CustomerID     int64
	AmountKg       float64
	ReceivedAt     time.Time
	IdempotencyKey *uuid.UUID
}

const lowStockThresholdKg = 10.0

func (r Roll) LowStock() bool { return r.RemainingKg < lowStockThresholdKg }
