package products

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID    int64
	OrgID uuid.UUID
	Name  string
}

// Product — позиция каталога. Нормы расхода:
// MaterialUsageG — граммов материала на единицу,
// RequiredPaperGPer1000 — граммов бумаги на 1000 единиц тиража.
type Product struct {
	ID                    int64
	OrgID                 uuid.UUID
	CategoryID            int64
	Category              string
	Title                 string
	Price                 decimal.Decimal
	MaterialID            int64
	MaterialUsageG        float64
	RequiredPaperGPer1000 float64
	CreatedAt             time.Time
}

// Key — ключ "categoryID_productID", по нему отчёты резолвят материал.
func (p Product) Key() string {
	return Key(p.CategoryID, p.ID)
}

func Key(categoryID, productID int64) string {
	return strconv.FormatInt(categoryID, 10) + "_" + strconv.FormatInt(productID, 10)
}
