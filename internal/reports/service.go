package reports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Spok95/print-stock/internal/domain/materials"
	"github.com/Spok95/print-stock/internal/domain/orders"
	"github.com/Spok95/print-stock/internal/domain/products"
)

type Service struct {
	orders    *orders.Repo
	products  *products.Repo
	materials *materials.Repo
}

func NewService(ordersRepo *orders.Repo, productsRepo *products.Repo, materialsRepo *materials.Repo) *Service {
	return &Service{orders: ordersRepo, products: productsRepo, materials: materialsRepo}
}

// Sales собирает сводку по всей истории заказов организации.
func (s *Service) Sales(ctx context.Context, orgID uuid.UUID) (Summary, error) {
	orderList, err := s.orders.List(ctx, orgID)
	if err != nil {
		return Summary{}, err
	}
	productList, err := s.products.List(ctx, orgID)
	if err != nil {
		return Summary{}, err
	}
	materialList, err := s.materials.List(ctx, orgID)
	if err != nil {
		return Summary{}, err
	}
	return BuildSummary(orderList, productList, materialList), nil
}
