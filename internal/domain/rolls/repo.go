package rolls

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo — только чтение. Все мутации рулонов идут через accounting.Engine.
type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByID(ctx context.Context, orgID uuid.UUID, id int64) (*Roll, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, org_id, name, total_kg, remaining_kg, created_at
		FROM paper_rolls
		WHERE org_id = $1 AND id = $2
	`, orgID, id)

	var roll Roll
	if err := row.Scan(&roll.ID, &roll.OrgID, &roll.Name, &roll.TotalKg, &roll.RemainingKg, &roll.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &roll, nil
}

func (r *Repo) List(ctx context.Context, orgID uuid.UUID) ([]Roll, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, org_id, name, total_kg, remaining_kg, created_at
		FROM paper_rolls
		WHERE org_id = $1
		ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Roll
	for rows.Next() {
		var roll Roll
		if err := rows.Scan(&roll.ID, &roll.OrgID, &roll.Name, &roll.TotalKg, &roll.RemainingKg, &roll.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, roll)
	}
	return out, rows.Err()
}

func (r *Repo) ListAssignments(ctx context.Context, orgID uuid.UUID, rollID int64) ([]Assignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.roll_id, a.agency_id, a.sent_kg, a.remaining_kg, a.created_at
		FROM paper_assignments a
		JOIN paper_rolls pr ON pr.id = a.roll_id
		WHERE pr.org_id = $1 AND a.roll_id = $2
		ORDER BY a.created_at
	`, orgID, rollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.RollID, &a.AgencyID, &a.SentKg, &a.RemainingKg, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) ListReceipts(ctx context.Context, orgID uuid.UUID, assignmentID int64) ([]Receipt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rr.id, rr.assignment_id, rr.customer_id, rr.amount_kg, rr.received_at, rr.idempotency_key
		FROM received_records rr
		JOIN paper_assignments a ON a.id = rr.assignment_id
		JOIN paper_rolls pr ON pr.id = a.roll_id
		WHERE pr.org_id = $1 AND rr.assignment_id = $2
		ORDER BY rr.received_at
	`, orgID, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Receipt
	for rows.Next() {
		var rec Receipt
		if err := rows.Scan(&rec.ID, &rec.AssignmentID, &rec.CustomerID, &rec.AmountKg, &rec.ReceivedAt, &rec.IdempotencyKey); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
