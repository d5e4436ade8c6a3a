package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/print-stock/internal/apperr"
)

// Repo — чтение и смена статуса. Создание заказа — в ordering.Service,
// потому что оно списывает ресурсы в той же транзакции.
type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const selectCols = `
	id, org_id, number, order_date, brand, company_name,
	category_id, product_id, category, title, quantity, price, status, total, created_at
`

func (r *Repo) GetByID(ctx context.Context, orgID uuid.UUID, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+selectCols+` FROM orders WHERE org_id = $1 AND id = $2`, orgID, id)

	o, err := scanOne(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return o, err
}

func (r *Repo) List(ctx context.Context, orgID uuid.UUID) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+selectCols+` FROM orders WHERE org_id = $1 ORDER BY order_date DESC, id DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := scanInto(rows, &o); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus — единственное разрешённое изменение заказа после создания.
func (r *Repo) UpdateStatus(ctx context.Context, orgID uuid.UUID, id int64, status Status) (*Order, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE orders SET status = $3
		WHERE org_id = $1 AND id = $2
		RETURNING `+selectCols, orgID, id, string(status))

	o, err := scanOne(row)
	if err == pgx.ErrNoRows {
		return nil, apperr.NotFound("order %d not found", id)
	}
	return o, err
}

func scanOne(row pgx.Row) (*Order, error) {
	var o Order
	if err := scanInto(row, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanInto(row pgx.Row, o *Order) error {
	return row.Scan(
		&o.ID, &o.OrgID, &o.Number, &o.Date, &o.Brand, &o.CompanyName,
		&o.CategoryID, &o.ProductID, &o.Category, &o.Title,
		&o.Quantity, &o.Price, &o.Status, &o.Total, &o.CreatedAt,
	)
}
