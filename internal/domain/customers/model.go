package customers

import (
	"time"

	"github.com/google/uuid"
)

// Customer — заказчик. PaperAvailableKg/PaperUsedKg — двухведёрный
// учёт бумаги клиента: приход с типографии пополняет available,
// заказ переносит из available в used.
type Customer struct {
	ID               int64
	OrgID            uuid.UUID
	Brand            string
	CompanyName      string
	ContactName      string
	Phone            string
	PaperAvailableKg float64
	PaperUsedKg      float64
	CreatedAt        time.Time
}
