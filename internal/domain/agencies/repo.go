package agencies

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, orgID uuid.UUID, name string) (*Agency, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO agencies (org_id, name)
		VALUES ($1,$2)
		RETURNING id, org_id, name, created_at
	`, orgID, name)

	var a Agency
	if err := row.Scan(&a.ID, &a.OrgID, &a.Name, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) GetByID(ctx context.Context, orgID uuid.UUID, id int64) (*Agency, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, org_id, name, created_at
		FROM agencies
		WHERE org_id = $1 AND id = $2
	`, orgID, id)

	var a Agency
	if err := row.Scan(&a.ID, &a.OrgID, &a.Name, &a.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repo) List(ctx context.Context, orgID uuid.UUID) ([]Agency, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, org_id, name, created_at
		FROM agencies
		WHERE org_id = $1
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Agency
	for rows.Next() {
		var a Agency
		if err := rows.Scan(&a.ID, &a.OrgID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
