package accounting

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/print-stock/internal/apperr"
	"github.com/Spok95/print-stock/internal/domain/materials"
	"github.com/Spok95/print-stock/internal/domain/rolls"
	"github.com/Spok95/print-stock/internal/infra/db"
	"github.com/Spok95/print-stock/internal/infra/metrics"
)

// Engine — единственная точка мутаций складских агрегатов
// (рулоны, карты, бумага клиента, материалы). Каждая операция — одна
// транзакция с блокировкой затронутых строк; частичных записей не бывает.
type Engine struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewEngine(pool *pgxpool.Pool, log *slog.Logger) *Engine {
	return &Engine{pool: pool, log: log.With("component", "accounting")}
}

// RegisterRoll регистрирует рулон: remaining = total, назначений нет.
func (e *Engine) RegisterRoll(ctx context.Context, orgID uuid.UUID, name string, totalKg float64) (roll *rolls.Roll, err error) {
	defer func(start time.Time) { metrics.ObserveOp("register_roll", start, err) }(time.Now())

	if name == "" {
		return nil, apperr.Invalid("roll name must not be empty")
	}
	if totalKg <= 0 {
		return nil, apperr.Invalid("roll weight must be > 0, got %v", totalKg)
	}

	row := e.pool.QueryRow(ctx, `
		INSERT INTO paper_rolls (org_id, name, total_kg, remaining_kg)
		VALUES ($1,$2,$3,$3)
		RETURNING id, org_id, name, total_kg, remaining_kg, created_at
	`, orgID, name, totalKg)

	var out rolls.Roll
	if err = row.Scan(&out.ID, &out.OrgID, &out.Name, &out.TotalKg, &out.RemainingKg, &out.CreatedAt); err != nil {
		return nil, err
	}
	e.log.Info("roll registered", "org", orgID, "roll", out.ID, "total_kg", totalKg)
	return &out, nil
}

// AssignToAgency атомарно уменьшает остаток рулона и заводит карту.
func (e *Engine) AssignToAgency(ctx context.Context, orgID uuid.UUID, rollID, agencyID int64, amountKg float64) (a *rolls.Assignment, err error) {
	defer func(start time.Time) { metrics.ObserveOp("assign_to_agency", start, err) }(time.Now())

	if amountKg <= 0 {
		return nil, apperr.Invalid("assignment amount must be > 0, got %v", amountKg)
	}

	err = db.WithTx(ctx, e.pool, func(ctx context.Context, tx pgx.Tx) error {
		state, lockErr := lockRoll(ctx, tx, orgID, rollID)
		if lockErr != nil {
			return lockErr
		}

		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM agencies WHERE org_id = $1 AND id = $2)`,
			orgID, agencyID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("agency %d not found", agencyID)
		}

		next, ruleErr := AssignFromRoll(state, amountKg)
		if ruleErr != nil {
			return ruleErr
		}

		if _, err := tx.Exec(ctx,
			`UPDATE paper_rolls SET remaining_kg = $3 WHERE org_id = $1 AND id = $2`,
			orgID, rollID, next.RemainingKg); err != nil {
			return err
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO paper_assignments (roll_id, agency_id, sent_kg, remaining_kg)
			VALUES ($1,$2,$3,$3)
			RETURNING id, roll_id, agency_id, sent_kg, remaining_kg, created_at
		`, rollID, agencyID, amountKg)

		var out rolls.Assignment
		if err := row.Scan(&out.ID, &out.RollID, &out.AgencyID, &out.SentKg, &out.RemainingKg, &out.CreatedAt); err != nil {
			return err
		}
		a = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("paper assigned", "org", orgID, "roll", rollID, "agency", agencyID, "amount_kg", amountKg)
	return a, nil
}

// ReceivePrinted атомарно: списывает с карты, пишет приход, пополняет
// бумагу клиента. Кредит клиенту не сверяется с заказанным объёмом —
// так считает исходная система (вопрос семантики открыт).
// idemKey, если передан, защищает от повторной отправки той же формы.
func (e *Engine) ReceivePrinted(ctx context.Context, orgID uuid.UUID, rollID, assignmentID, customerID int64,
	amountKg float64, receivedAt time.Time, idemKey *uuid.UUID) (rec *rolls.Receipt, err error) {
	defer func(start time.Time) { metrics.ObserveOp("receive_printed", start, err) }(time.Now())

	if amountKg <= 0 {
		return nil, apperr.Invalid("receipt amount must be > 0, got %v", amountKg)
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	err = db.WithTx(ctx, e.pool, func(ctx context.Context, tx pgx.Tx) error {
		// Рулон блокируем первым: все мутации одного рулона сериализуются.
		if _, lockErr := lockRoll(ctx, tx, orgID, rollID); lockErr != nil {
			return lockErr
		}

		var asg AssignmentState
		if err := tx.QueryRow(ctx, `
			SELECT sent_kg, remaining_kg
			FROM paper_assignments
			WHERE id = $1 AND roll_id = $2
			FOR UPDATE
		`, assignmentID, rollID).Scan(&asg.SentKg, &asg.RemainingKg); err != nil {
			if err == pgx.ErrNoRows {
				return apperr.NotFound("assignment %d not found in roll %d", assignmentID, rollID)
			}
			return err
		}

		var cust Bucket
		if err := tx.QueryRow(ctx, `
			SELECT paper_available_kg, paper_used_kg
			FROM customers
			WHERE org_id = $1 AND id = $2
			FOR UPDATE
		`, orgID, customerID).Scan(&cust.AvailableKg, &cust.UsedKg); err != nil {
			if err == pgx.ErrNoRows {
				return apperr.NotFound("customer %d not found", customerID)
			}
			return err
		}

		if idemKey != nil {
			var dup bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM received_records WHERE idempotency_key = $1)`,
				*idemKey).Scan(&dup); err != nil {
				return err
			}
			if dup {
				return apperr.Conflict("receipt with idempotency key %s already recorded", idemKey)
			}
		}

		nextAsg, ruleErr := ReceiveFromAssignment(asg, amountKg)
		if ruleErr != nil {
			return ruleErr
		}
		nextCust, ruleErr := Credit(cust, amountKg)
		if ruleErr != nil {
			return ruleErr
		}

		if _, err := tx.Exec(ctx,
			`UPDATE paper_assignments SET remaining_kg = $2 WHERE id = $1`,
			assignmentID, nextAsg.RemainingKg); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE customers SET paper_available_kg = $3 WHERE org_id = $1 AND id = $2`,
			orgID, customerID, nextCust.AvailableKg); err != nil {
			return err
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO received_records (assignment_id, customer_id, amount_kg, received_at, idempotency_key)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id, assignment_id, customer_id, amount_kg, received_at, idempotency_key
		`, assignmentID, customerID, amountKg, receivedAt, idemKey)

		var out rolls.Receipt
		if err := row.Scan(&out.ID, &out.AssignmentID, &out.CustomerID, &out.AmountKg, &out.ReceivedAt, &out.IdempotencyKey); err != nil {
			return err
		}
		rec = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("printed paper received", "org", orgID, "assignment", assignmentID, "customer", customerID, "amount_kg", amountKg)
	return rec, nil
}

// DeleteRoll удаляет рулон вместе с картами и их приходами.
// Уже начисленная клиентам бумага не откатывается: приходы — история.
func (e *Engine) DeleteRoll(ctx context.Context, orgID uuid.UUID, rollID int64) (err error) {
	defer func(start time.Time) { metrics.ObserveOp("delete_roll", start, err) }(time.Now())

	err = db.WithTx(ctx, e.pool, func(ctx context.Context, tx pgx.Tx) error {
		tag, execErr := tx.Exec(ctx,
			`DELETE FROM paper_rolls WHERE org_id = $1 AND id = $2`, orgID, rollID)
		if execErr != nil {
			return execErr
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("roll %d not found", rollID)
		}
		return nil
	})
	if err == nil {
		e.log.Info("roll deleted", "org", orgID, "roll", rollID)
	}
	return err
}

// SupplyMaterial приходует поставку: total (а значит и available)
// растёт на amountKg, used не меняется.
func (e *Engine) SupplyMaterial(ctx context.Context, orgID uuid.UUID, materialID int64, amountKg float64) (m *materials.Material, err error) {
	defer func(start time.Time) { metrics.ObserveOp("supply_material", start, err) }(time.Now())

	if amountKg <= 0 {
		return nil, apperr.Invalid("supply amount must be > 0, got %v", amountKg)
	}

	err = db.WithTx(ctx, e.pool, func(ctx context.Context, tx pgx.Tx) error {
		var total, used float64
		if err := tx.QueryRow(ctx, `
			SELECT total_kg, used_kg FROM materials
			WHERE org_id = $1 AND id = $2
			FOR UPDATE
		`, orgID, materialID).Scan(&total, &used); err != nil {
			if err == pgx.ErrNoRows {
				return apperr.NotFound("material %d not found", materialID)
			}
			return err
		}

		next, ruleErr := Credit(Bucket{AvailableKg: total - used, UsedKg: used}, amountKg)
		if ruleErr != nil {
			return ruleErr
		}

		row := tx.QueryRow(ctx, `
			UPDATE materials SET total_kg = $3
			WHERE org_id = $1 AND id = $2
			RETURNING id, org_id, name, total_kg, used_kg, created_at
		`, orgID, materialID, next.UsedKg+next.AvailableKg)

		var out materials.Material
		if err := row.Scan(&out.ID, &out.OrgID, &out.Name, &out.TotalKg, &out.UsedKg, &out.CreatedAt); err != nil {
			return err
		}
		m = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("material supplied", "org", orgID, "material", materialID, "amount_kg", amountKg)
	return m, nil
}

// ConsumeMaterial переносит amountKg материала из available в used.
func (e *Engine) ConsumeMaterial(ctx context.Context, orgID uuid.UUID, materialID int64, amountKg float64) (err error) {
	defer func(start time.Time) { metrics.ObserveOp("consume_material", start, err) }(time.Now())

	err = db.WithTx(ctx, e.pool, func(ctx context.Context, tx pgx.Tx) error {
		return ConsumeMaterialTx(ctx, tx, orgID, materialID, amountKg)
	})
	return err
}

// ConsumePaper переносит amountKg бумаги клиента из available в used.
func (e *Engine) ConsumePaper(ctx context.Context, orgID uuid.UUID, customerID int64, amountKg float64) (err error) {
	defer func(start time.Time) { metrics.ObserveOp("consume_paper", start, err) }(time.Now())

	err = db.WithTx(ctx, e.pool, func(ctx context.Context, tx pgx.Tx) error {
		return ConsumePaperTx(ctx, tx, orgID, customerID, amountKg)
	})
	return err
}

// ConsumeMaterialTx — вариант для вызова из чужой транзакции
// (создание заказа списывает ресурсы и пишет заказ одним коммитом).
func ConsumeMaterialTx(ctx context.Context, tx pgx.Tx, orgID uuid.UUID, materialID int64, amountKg float64) error {
	var total, used float64
	if err := tx.QueryRow(ctx, `
		SELECT total_kg, used_kg FROM materials
		WHERE org_id = $1 AND id = $2
		FOR UPDATE
	`, orgID, materialID).Scan(&total, &used); err != nil {
		if err == pgx.ErrNoRows {
			return apperr.NotFound("material %d not found", materialID)
		}
		return err
	}

	next, err := Consume(Bucket{AvailableKg: total - used, UsedKg: used}, amountKg)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE materials SET used_kg = $3 WHERE org_id = $1 AND id = $2`,
		orgID, materialID, next.UsedKg)
	return err
}

// ConsumePaperTx — то же для бумаги клиента.
func ConsumePaperTx(ctx context.Context, tx pgx.Tx, orgID uuid.UUID, customerID int64, amountKg float64) error {
	var b Bucket
	if err := tx.QueryRow(ctx, `
		SELECT paper_available_kg, paper_used_kg FROM customers
		WHERE org_id = $1 AND id = $2
		FOR UPDATE
	`, orgID, customerID).Scan(&b.AvailableKg, &b.UsedKg); err != nil {
		if err == pgx.ErrNoRows {
			return apperr.NotFound("customer %d not found", customerID)
		}
		return err
	}

	next, err := Consume(b, amountKg)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE customers SET paper_available_kg = $3, paper_used_kg = $4 WHERE org_id = $1 AND id = $2`,
		orgID, customerID, next.AvailableKg, next.UsedKg)
	return err
}

func lockRoll(ctx context.Context, tx pgx.Tx, orgID uuid.UUID, rollID int64) (RollState, error) {
	var state RollState
	err := tx.QueryRow(ctx, `
		SELECT total_kg, remaining_kg FROM paper_rolls
		WHERE org_id = $1 AND id = $2
		FOR UPDATE
	`, orgID, rollID).Scan(&state.TotalKg, &state.RemainingKg)
	if err == pgx.ErrNoRows {
		return state, apperr.NotFound("roll %d not found", rollID)
	}
	return state, err
}
