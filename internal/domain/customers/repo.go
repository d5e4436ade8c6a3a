package customers

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, orgID uuid.UUID, brand, companyName, contactName, phone string) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (org_id, brand, company_name, contact_name, phone)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, org_id, brand, company_name, contact_name, phone, paper_available_kg, paper_used_kg, created_at
	`, orgID, brand, companyName, contactName, phone)
	return scanOne(row)
}

func (r *Repo) GetByID(ctx context.Context, orgID uuid.UUID, id int64) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, org_id, brand, company_name, contact_name, phone, paper_available_kg, paper_used_kg, created_at
		FROM customers
		WHERE org_id = $1 AND id = $2
	`, orgID, id)

	c, err := scanOne(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *Repo) List(ctx context.Context, orgID uuid.UUID) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, org_id, brand, company_name, contact_name, phone, paper_available_kg, paper_used_kg, created_at
		FROM customers
		WHERE org_id = $1
		ORDER BY brand, company_name
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(
			&c.ID, &c.OrgID, &c.Brand, &c.CompanyName, &c.ContactName, &c.Phone,
			&c.PaperAvailableKg, &c.PaperUsedKg, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanOne(row pgx.Row) (*Customer, error) {
	var c Customer
	if err := row.Scan(
		&c.ID, &c.OrgID, &c.Brand, &c.CompanyName, &c.ContactName, &c.Phone,
		&c.PaperAvailableKg, &c.PaperUsedKg, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
