package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/print-stock/internal/apperr"
)

func TestTranslateTimeouts(t *testing.T) {
	for _, cause := range []error{context.DeadlineExceeded, context.Canceled} {
		err := Translate(fmt.Errorf("query: %w", cause))
		require.True(t, apperr.Is(err, apperr.KindTimeout), "cause=%v", cause)
	}
}

func TestTranslateUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_received_records_idem"}

	err := Translate(fmt.Errorf("insert receipt: %w", pgErr))
	require.True(t, apperr.IsConflict(err))
	require.ErrorIs(t, err, pgErr)
}

func TestTranslateKeepsDomainErrors(t *testing.T) {
	domain := apperr.Insufficient("no stock")
	require.Same(t, domain, Translate(domain))
}

func TestTranslatePassesUnknownThrough(t *testing.T) {
	plain := errors.New("boom")
	require.Equal(t, plain, Translate(plain))
	require.NoError(t, Translate(nil))
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"40001", true}, // serialization_failure
		{"40P01", true}, // deadlock_detected
		{"23505", true}, // unique_violation: повтор перечитает состояние
		{"23503", false},
		{"42601", false},
	}
	for _, c := range cases {
		err := fmt.Errorf("tx: %w", &pgconn.PgError{Code: c.code})
		require.Equal(t, c.want, retryable(err), "code=%s", c.code)
	}

	require.False(t, retryable(errors.New("not a pg error")))
}
