package products

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

/* Категории */

func (r *Repo) CreateCategory(ctx context.Context, orgID uuid.UUID, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO product_categories (org_id, name)
		VALUES ($1,$2)
		RETURNING id, org_id, name
	`, orgID, name)

	var c Category
	if err := row.Scan(&c.ID, &c.OrgID, &c.Name); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListCategories(ctx context.Context, orgID uuid.UUID) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, org_id, name
		FROM product_categories
		WHERE org_id = $1
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.OrgID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

/* Продукты */

func (r *Repo) Create(ctx context.Context, orgID uuid.UUID, categoryID int64, title string,
	price decimal.Decimal, materialID int64, materialUsageG, requiredPaperGPer1000 float64) (*Product, error) {

	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (org_id, category_id, title, price, material_id, material_usage_g, required_paper_g_per_1000)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, org_id, category_id,
		          COALESCE((SELECT name FROM product_categories WHERE id = $2), ''),
		          title, price, material_id, material_usage_g, required_paper_g_per_1000, created_at
	`, orgID, categoryID, title, price, materialID, materialUsageG, requiredPaperGPer1000)
	return scanOne(row)
}

func (r *Repo) GetByID(ctx context.Context, orgID uuid.UUID, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT p.id, p.org_id, p.category_id, COALESCE(c.name,''), p.title, p.price,
		       p.material_id, p.material_usage_g, p.required_paper_g_per_1000, p.created_at
		FROM products p
		LEFT JOIN product_categories c ON c.id = p.category_id
		WHERE p.org_id = $1 AND p.id = $2
	`, orgID, id)

	p, err := scanOne(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *Repo) List(ctx context.Context, orgID uuid.UUID) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.org_id, p.category_id, COALESCE(c.name,''), p.title, p.price,
		       p.material_id, p.material_usage_g, p.required_paper_g_per_1000, p.created_at
		FROM products p
		LEFT JOIN product_categories c ON c.id = p.category_id
		WHERE p.org_id = $1
		ORDER BY c.name, p.title
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.OrgID, &p.CategoryID, &p.Category, &p.Title, &p.Price,
			&p.MaterialID, &p.MaterialUsageG, &p.RequiredPaperGPer1000, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanOne(row pgx.Row) (*Product, error) {
	var p Product
	if err := row.Scan(
		&p.ID, &p.OrgID, &p.CategoryID, &p.Category, &p.Title, &p.Price,
		&p.MaterialID, &p.MaterialUsageG, &p.RequiredPaperGPer1000, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
