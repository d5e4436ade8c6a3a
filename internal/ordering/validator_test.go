package ordering

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Spok95/print-stock/internal/apperr"
	"github.com/Spok95/print-stock/internal/domain/products"
)

func testProduct() products.Product {
	return products.Product{
		MaterialUsageG:        2,    // 2 г материала на единицу
		RequiredPaperGPer1000: 5000, // 5 кг бумаги на 1000 единиц
	}
}

func TestComputeRequirements(t *testing.T) {
	req := ComputeRequirements(testProduct(), 3000)

	require.Equal(t, 15.0, req.PaperKg)
	require.Equal(t, 6.0, req.MaterialKg)
}

func TestCheckResourcesPaperShort(t *testing.T) {
	// бумаги у клиента 10 кг, надо 15 — отказ с подсказкой 2000 единиц
	_, err := CheckResources(10, 100, testProduct(), 3000)

	require.True(t, apperr.IsInsufficientStock(err))
	maxQty, ok := apperr.MaxFeasible(err)
	require.True(t, ok)
	require.Equal(t, int64(2000), maxQty)
}

func TestCheckResourcesMaterialShort(t *testing.T) {
	// бумаги хватает, материала всего 1 кг => максимум 500 единиц
	_, err := CheckResources(100, 1, testProduct(), 3000)

	require.True(t, apperr.IsInsufficientStock(err))
	maxQty, ok := apperr.MaxFeasible(err)
	require.True(t, ok)
	require.Equal(t, int64(500), maxQty)
}

func TestCheckResourcesOK(t *testing.T) {
	req, err := CheckResources(15, 6, testProduct(), 3000)

	require.NoError(t, err)
	require.Equal(t, 15.0, req.PaperKg)
	require.Equal(t, 6.0, req.MaterialKg)
}

func TestCheckResourcesInvalidQty(t *testing.T) {
	_, err := CheckResources(100, 100, testProduct(), 0)
	require.True(t, apperr.IsInvalidInput(err))

	_, err = CheckResources(100, 100, testProduct(), -5)
	require.True(t, apperr.IsInvalidInput(err))
}

func TestMaxFeasibleQtyPaperRoundsToThousands(t *testing.T) {
	p := testProduct()

	// 12.4 кг бумаги => 2.48 тысячи, вниз до 2000; материал не ограничивает
	require.Equal(t, int64(2000), MaxFeasibleQty(12.4, 1000, p))

	// материал жёстче бумаги: 3 кг / 2 г = 1500 единиц
	require.Equal(t, int64(1500), MaxFeasibleQty(12.4, 3, p))
}

func TestMaxFeasibleQtyNoNorms(t *testing.T) {
	// продукт без норм расхода ничего не лимитирует, но и не обещает
	require.Equal(t, int64(0), MaxFeasibleQty(10, 10, products.Product{}))
}
