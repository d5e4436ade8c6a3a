package materials

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, orgID uuid.UUID, name string, totalKg float64) (*Material, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO materials (org_id, name, total_kg, used_kg)
		VALUES ($1,$2,$3,0)
		RETURNING id, org_id, name, total_kg, used_kg, created_at
	`, orgID, name, totalKg)

	var m Material
	if err := row.Scan(&m.ID, &m.OrgID, &m.Name, &m.TotalKg, &m.UsedKg, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) GetByID(ctx context.Context, orgID uuid.UUID, id int64) (*Material, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, org_id, name, total_kg, used_kg, created_at
		FROM materials
		WHERE org_id = $1 AND id = $2
	`, orgID, id)

	var m Material
	if err := row.Scan(&m.ID, &m.OrgID, &m.Name, &m.TotalKg, &m.UsedKg, &m.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repo) List(ctx context.Context, orgID uuid.UUID) ([]Material, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, org_id, name, total_kg, used_kg, created_at
		FROM materials
		WHERE org_id = $1
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.OrgID, &m.Name, &m.TotalKg, &m.UsedKg, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
