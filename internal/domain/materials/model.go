package materials

import (
	"time"

	"github.com/google/uuid"
)

// Material — расходный материал (краска, плёнка и т.п.).
// Инвариант: AvailableKg() = TotalKg - UsedKg, всегда >= 0.
type Material struct {
	ID        int64
	OrgID     uuid.UUID
	Name      string
	TotalKg   float64
	UsedKg    float64
	CreatedAt time.Time
}

func (m Material) AvailableKg() float64 { return m.TotalKg - m.UsedKg }

const lowStockThresholdKg = 5.0

// LowStock — материал на исходе, подсвечивается в списках.
func (m Material) LowStock() bool { return m.AvailableKg() < lowStockThresholdKg }
