package agencies

import (
	"time"

	"github.com/google/uuid"
)

// Agency — типография-подрядчик. Остатки бумаги живут не здесь,
// а в назначениях рулона (rolls.Assignment).
type Agency struct {
	ID        int64
	OrgID     uuid.UUID
	Name      string
	CreatedAt time.Time
}
