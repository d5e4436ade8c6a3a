package reports

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/print-stock/internal/domain/materials"
	"github.com/Spok95/print-stock/internal/domain/orders"
	"github.com/Spok95/print-stock/internal/domain/products"
)

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func fixtures() ([]orders.Order, []products.Product, []materials.Material) {
	mats := []materials.Material{
		{ID: 1, Name: "Плёнка"},
		{ID: 2, Name: "Краска"},
	}
	prods := []products.Product{
		{ID: 10, CategoryID: 1, Category: "Этикетки", Title: "Круглая", MaterialID: 1},
		{ID: 11, CategoryID: 1, Category: "Этикетки", Title: "Овальная", MaterialID: 2},
	}
	ords := []orders.Order{
		{CategoryID: 1, ProductID: 10, Category: "Этикетки", Title: "Круглая", Quantity: 6000, Price: price("0.50")},
		{CategoryID: 1, ProductID: 10, Category: "Этикетки", Title: "Круглая", Quantity: 1000, Price: price("0.50")},
		{CategoryID: 1, ProductID: 11, Category: "Этикетки", Title: "Овальная", Quantity: 3000, Price: price("1.00")},
	}
	return ords, prods, mats
}

func TestBuildSummarySeriesAligned(t *testing.T) {
	ords, prods, mats := fixtures()

	s := BuildSummary(ords, prods, mats)

	require.Equal(t, []string{"Этикетки / Круглая", "Этикетки / Овальная"}, s.Labels)
	require.Equal(t, []int64{7000, 3000}, s.Quantities)
	require.Len(t, s.Percentages, 2)
	require.InDelta(t, 70.0, s.Percentages[0], 1e-9)
	require.InDelta(t, 30.0, s.Percentages[1], 1e-9)
}

func TestBuildSummarySortedDescending(t *testing.T) {
	ords, prods, mats := fixtures()

	s := BuildSummary(ords, prods, mats)
	for i := 1; i < len(s.Percentages); i++ {
		require.GreaterOrEqual(t, s.Percentages[i-1], s.Percentages[i])
	}
}

func TestRevenueByMaterial(t *testing.T) {
	ords, prods, mats := fixtures()

	s := BuildSummary(ords, prods, mats)

	require.Len(t, s.Revenue, 2)
	// 7000 * 0.50 = 3500 по плёнке; 3000 * 1.00 = 3000 по краске
	require.Equal(t, "Плёнка", s.Revenue[0].Material)
	require.True(t, s.Revenue[0].Revenue.Equal(price("3500")))
	require.Equal(t, "Краска", s.Revenue[1].Material)
	require.True(t, s.Revenue[1].Revenue.Equal(price("3000")))
}

func TestRevenueUnknownBucket(t *testing.T) {
	ords, prods, mats := fixtures()
	// заказ на продукт, которого больше нет в каталоге
	ords = append(ords, orders.Order{CategoryID: 9, ProductID: 99, Category: "Прочее", Title: "Архив", Quantity: 100, Price: price("2.00")})

	s := BuildSummary(ords, prods, mats)

	var unknown *MaterialRevenue
	for i := range s.Revenue {
		if s.Revenue[i].Material == UnknownMaterial {
			unknown = &s.Revenue[i]
		}
	}
	require.NotNil(t, unknown)
	require.True(t, unknown.Revenue.Equal(price("200")))
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := BuildSummary(nil, nil, nil)

	require.Empty(t, s.Labels)
	require.Empty(t, s.Percentages)
	require.Empty(t, s.Quantities)
	require.Empty(t, s.Revenue)
}

func TestExportXlsx(t *testing.T) {
	ords, prods, mats := fixtures()
	s := BuildSummary(ords, prods, mats)

	data, err := ExportXlsx(s)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	// xlsx — это zip: сигнатура PK
	require.Equal(t, []byte{'P', 'K'}, data[:2])
}
