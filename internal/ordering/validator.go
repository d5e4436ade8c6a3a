package ordering

import (
	"math"

	"github.com/Spok95/print-stock/internal/apperr"
	"github.com/Spok95/print-stock/internal/domain/products"
)

// Requirements — сколько ресурсов съест тираж.
type Requirements struct {
	PaperKg    float64
	MaterialKg float64
}

// ComputeRequirements: бумага задаётся в граммах на 1000 единиц,
// материал — в граммах на единицу; результат в килограммах.
func ComputeRequirements(p products.Product, qty int64) Requirements {
	return Requirements{
		PaperKg:    float64(qty) * p.RequiredPaperGPer1000 / 1_000_000,
		MaterialKg: float64(qty) * p.MaterialUsageG / 1000,
	}
}

// MaxFeasibleQty — максимальный тираж при текущих остатках.
// Бумажная часть округляется вниз до целых тысяч: норма бумаги
// задана на 1000 единиц, и так считала исходная система.
func MaxFeasibleQty(paperAvailableKg, materialAvailableKg float64, p products.Product) int64 {
	feasible := int64(math.MaxInt64)

	if p.RequiredPaperGPer1000 > 0 {
		// граммы бумаги / (граммы на 1000 единиц) = тысячи единиц
		byPaper := int64(math.Floor(paperAvailableKg*1000/p.RequiredPaperGPer1000)) * 1000
		if byPaper < feasible {
			feasible = byPaper
		}
	}
	if p.MaterialUsageG > 0 {
		byMaterial := int64(math.Floor(materialAvailableKg * 1000 / p.MaterialUsageG))
		if byMaterial < feasible {
			feasible = byMaterial
		}
	}
	if feasible == math.MaxInt64 {
		return 0
	}
	return feasible
}

// CheckResources сверяет потребность с остатками. При нехватке ошибка
// несёт максимальный достижимый тираж.
func CheckResources(paperAvailableKg, materialAvailableKg float64, p products.Product, qty int64) (Requirements, error) {
	if qty <= 0 {
		return Requirements{}, apperr.Invalid("quantity must be > 0, got %d", qty)
	}

	req := ComputeRequirements(p, qty)
	if req.PaperKg > paperAvailableKg || req.MaterialKg > materialAvailableKg {
		maxQty := MaxFeasibleQty(paperAvailableKg, materialAvailableKg, p)
		if req.PaperKg > paperAvailableKg {
			return req, apperr.InsufficientMax(maxQty,
				"need %.3f kg paper, customer has %.3f kg", req.PaperKg, paperAvailableKg)
		}
		return req, apperr.InsufficientMax(maxQty,
			"need %.3f kg material, %.3f kg available", req.MaterialKg, materialAvailableKg)
	}
	return req, nil
}
