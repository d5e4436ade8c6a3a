package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Spok95/print-stock/internal/domain/materials"
	"github.com/Spok95/print-stock/internal/domain/orders"
	"github.com/Spok95/print-stock/internal/domain/products"
)

// UnknownMaterial — корзина для заказов, чей продукт/материал не резолвится.
const UnknownMaterial = "Unknown"

// Summary — продажи по продуктам (ряды выровнены по индексу,
// отсортированы по убыванию доли) и выручка по материалам.
type Summary struct {
	Labels      []string
	Percentages []float64
	Quantities  []int64
	Revenue     []MaterialRevenue
}

type MaterialRevenue struct {
	Material string
	Revenue  decimal.Decimal
}

// BuildSummary — чистая свёртка по полной истории заказов.
// Ничего не кэшируется: на наших объёмах O(orders) на вызов приемлемо.
func BuildSummary(orderList []orders.Order, productList []products.Product, materialList []materials.Material) Summary {
	type labelAgg struct {
		label string
		qty   int64
	}

	byLabel := map[string]*labelAgg{}
	var totalQty int64
	for _, o := range orderList {
		label := o.Category + " / " + o.Title
		agg, ok := byLabel[label]
		if !ok {
			agg = &labelAgg{label: label}
			byLabel[label] = agg
		}
		agg.qty += o.Quantity
		totalQty += o.Quantity
	}

	labels := make([]*labelAgg, 0, len(byLabel))
	for _, agg := range byLabel {
		labels = append(labels, agg)
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].qty != labels[j].qty {
			return labels[i].qty > labels[j].qty
		}
		return labels[i].label < labels[j].label
	})

	s := Summary{}
	for _, agg := range labels {
		pct := 0.0
		if totalQty > 0 {
			pct = float64(agg.qty) / float64(totalQty) * 100
		}
		s.Labels = append(s.Labels, agg.label)
		s.Percentages = append(s.Percentages, pct)
		s.Quantities = append(s.Quantities, agg.qty)
	}

	s.Revenue = revenueByMaterial(orderList, productList, materialList)
	return s
}

func revenueByMaterial(orderList []orders.Order, productList []products.Product, materialList []materials.Material) []MaterialRevenue {
	prodByKey := make(map[string]products.Product, len(productList))
	for _, p := range productList {
		prodByKey[p.Key()] = p
	}
	matByID := make(map[int64]materials.Material, len(materialList))
	for _, m := range materialList {
		matByID[m.ID] = m
	}

	revenue := map[string]decimal.Decimal{}
	for _, o := range orderList {
		name := UnknownMaterial
		if p, ok := prodByKey[products.Key(o.CategoryID, o.ProductID)]; ok {
			if m, ok := matByID[p.MaterialID]; ok {
				name = m.Name
			}
		}
		revenue[name] = revenue[name].Add(o.Price.Mul(decimal.NewFromInt(o.Quantity)))
	}

	out := make([]MaterialRevenue, 0, len(revenue))
	for name, sum := range revenue {
		out = append(out, MaterialRevenue{Material: name, Revenue: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Material < out[j].Material
	})
	return out
}
