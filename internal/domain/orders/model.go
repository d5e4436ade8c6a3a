package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Spok95/print-stock/internal/apperr"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusDelivered  Status = "delivered"
)

// ParseStatus валидирует статус на границе. Других значений не бывает.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusInProgress, StatusReady, StatusDelivered:
		return Status(s), nil
	}
	return "", apperr.Invalid("unknown order status %q", s)
}

// Order создаётся один раз; после создания меняется только Status.
// Brand/CompanyName и Category/Title — снимки на момент заказа.
type Order struct {
	ID          int64
	OrgID       uuid.UUID
	Number      string
	Date        time.Time
	Brand       string
	CompanyName string
	CategoryID  int64
	ProductID   int64
	Category    string
	Title       string
	Quantity    int64
	Price       decimal.Decimal
	Status      Status
	Total       decimal.Decimal
	CreatedAt   time.Time
}
