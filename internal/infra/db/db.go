package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/print-stock/internal/apperr"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// txMaxAttempts — сколько раз повторяем транзакцию при конфликте сериализации.
const txMaxAttempts = 3

// WithTx выполняет fn в транзакции. Конфликты (40001/40P01) повторяются
// до txMaxAttempts, затем наружу уходит apperr.Conflict. fn обязан заново
// читать состояние на каждой попытке — слепой повтор записи запрещён.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context, tx pgx.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err := runTx(ctx, pool, fn)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return Translate(err)
		}
		lastErr = err
	}
	return apperr.Wrap(apperr.KindConflict, lastErr, "transaction retries exhausted after %d attempts", txMaxAttempts)
}

func runTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	// serialization_failure / deadlock_detected
	case "40001", "40P01":
		return true
	// unique_violation: fn на повторе перечитывает состояние, так что
	// гонка двух вставок либо разрешается (новый номер заказа), либо
	// даёт типизированный дубль из предварительной проверки
	case "23505":
		return true
	}
	return false
}

// Translate приводит инфраструктурные ошибки к типам apperr,
// доменные ошибки проходят как есть. Вызывается из WithTx и на
// границе HTTP для путей без транзакции (чтения, одиночные запросы).
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.KindOf(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindTimeout, err, "store operation timed out")
	}
	if errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.KindTimeout, err, "store operation canceled")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Wrap(apperr.KindConflict, err, "duplicate record")
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return apperr.Wrap(apperr.KindUnavailable, err, "store unavailable")
	}
	return err
}
