package ordering

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Spok95/print-stock/internal/accounting"
	"github.com/Spok95/print-stock/internal/apperr"
	"github.com/Spok95/print-stock/internal/domain/customers"
	"github.com/Spok95/print-stock/internal/domain/orders"
	"github.com/Spok95/print-stock/internal/domain/products"
	"github.com/Spok95/print-stock/internal/infra/db"
	"github.com/Spok95/print-stock/internal/infra/metrics"
)

// Service создаёт заказы: проверка ресурсов, списание и запись заказа —
// один коммит. Если списание не прошло, заказа нет.
type Service struct {
	pool      *pgxpool.Pool
	log       *slog.Logger
	products  *products.Repo
	customers *customers.Repo
}

func NewService(pool *pgxpool.Pool, log *slog.Logger, productsRepo *products.Repo, customersRepo *customers.Repo) *Service {
	return &Service{
		pool:      pool,
		log:       log.With("component", "ordering"),
		products:  productsRepo,
		customers: customersRepo,
	}
}

// Validate — предпросмотр потребности без списания. Снимок без блокировок:
// к моменту создания остатки могут уйти, создание перепроверяет заново.
func (s *Service) Validate(ctx context.Context, orgID uuid.UUID, customerID, productID, qty int64) (Requirements, error) {
	cust, err := s.customers.GetByID(ctx, orgID, customerID)
	if err != nil {
		return Requirements{}, err
	}
	if cust == nil {
		return Requirements{}, apperr.NotFound("customer %d not found", customerID)
	}

	prod, err := s.products.GetByID(ctx, orgID, productID)
	if err != nil {
		return Requirements{}, err
	}
	if prod == nil {
		return Requirements{}, apperr.NotFound("product %d not found", productID)
	}

	var materialAvailable float64
	err = s.pool.QueryRow(ctx,
		`SELECT total_kg - used_kg FROM materials WHERE org_id = $1 AND id = $2`,
		orgID, prod.MaterialID).Scan(&materialAvailable)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Requirements{}, apperr.NotFound("material %d not found", prod.MaterialID)
		}
		return Requirements{}, err
	}

	return CheckResources(cust.PaperAvailableKg, materialAvailable, *prod, qty)
}

// Create создаёт заказ. В одной транзакции: блокировка клиента и
// материала, проверка остатков, списание, номер заказа от последнего
// в этой же транзакции, вставка.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, customerID, productID, qty int64) (created *orders.Order, err error) {
	defer func(start time.Time) { metrics.ObserveOp("create_order", start, err) }(time.Now())

	if qty <= 0 {
		return nil, apperr.Invalid("quantity must be > 0, got %d", qty)
	}

	err = db.WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		var cust customers.Customer
		if err := tx.QueryRow(ctx, `
			SELECT id, brand, company_name, paper_available_kg, paper_used_kg
			FROM customers
			WHERE org_id = $1 AND id = $2
			FOR UPDATE
		`, orgID, customerID).Scan(&cust.ID, &cust.Brand, &cust.CompanyName, &cust.PaperAvailableKg, &cust.PaperUsedKg); err != nil {
			if err == pgx.ErrNoRows {
				return apperr.NotFound("customer %d not found", customerID)
			}
			return err
		}

		var prod products.Product
		if err := tx.QueryRow(ctx, `
			SELECT p.id, p.category_id, COALESCE(c.name,''), p.title, p.price,
			       p.material_id, p.material_usage_g, p.required_paper_g_per_1000
			FROM products p
			LEFT JOIN product_categories c ON c.id = p.category_id
			WHERE p.org_id = $1 AND p.id = $2
		`, orgID, productID).Scan(
			&prod.ID, &prod.CategoryID, &prod.Category, &prod.Title, &prod.Price,
			&prod.MaterialID, &prod.MaterialUsageG, &prod.RequiredPaperGPer1000,
		); err != nil {
			if err == pgx.ErrNoRows {
				return apperr.NotFound("product %d not found", productID)
			}
			return err
		}

		var matTotal, matUsed float64
		if err := tx.QueryRow(ctx, `
			SELECT total_kg, used_kg FROM materials
			WHERE org_id = $1 AND id = $2
			FOR UPDATE
		`, orgID, prod.MaterialID).Scan(&matTotal, &matUsed); err != nil {
			if err == pgx.ErrNoRows {
				return apperr.NotFound("material %d not found", prod.MaterialID)
			}
			return err
		}

		req, checkErr := CheckResources(cust.PaperAvailableKg, matTotal-matUsed, prod, qty)
		if checkErr != nil {
			return checkErr
		}

		if req.MaterialKg > 0 {
			if err := accounting.ConsumeMaterialTx(ctx, tx, orgID, prod.MaterialID, req.MaterialKg); err != nil {
				return err
			}
		}
		if req.PaperKg > 0 {
			if err := accounting.ConsumePaperTx(ctx, tx, orgID, customerID, req.PaperKg); err != nil {
				return err
			}
		}

		var lastNumber string
		if err := tx.QueryRow(ctx, `
			SELECT number FROM orders
			WHERE org_id = $1
			ORDER BY order_date DESC, id DESC
			LIMIT 1
		`, orgID).Scan(&lastNumber); err != nil && err != pgx.ErrNoRows {
			return err
		}

		now := time.Now()
		number := orders.NextNumber(now, lastNumber)
		total := prod.Price.Mul(decimal.NewFromInt(qty))

		row := tx.QueryRow(ctx, `
			INSERT INTO orders (org_id, number, order_date, brand, company_name,
			                    category_id, product_id, category, title, quantity, price, status, total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			RETURNING id, org_id, number, order_date, brand, company_name,
			          category_id, product_id, category, title, quantity, price, status, total, created_at
		`, orgID, number, now, cust.Brand, cust.CompanyName,
			prod.CategoryID, prod.ID, prod.Category, prod.Title, qty, prod.Price, string(orders.StatusInProgress), total)

		var o orders.Order
		if err := row.Scan(
			&o.ID, &o.OrgID, &o.Number, &o.Date, &o.Brand, &o.CompanyName,
			&o.CategoryID, &o.ProductID, &o.Category, &o.Title,
			&o.Quantity, &o.Price, &o.Status, &o.Total, &o.CreatedAt,
		); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order created", "org", orgID, "order", created.ID, "number", created.Number, "qty", qty)
	return created, nil
}
