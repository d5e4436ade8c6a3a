package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorTextWithCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindUnavailable, cause, "store unreachable")

	require.Equal(t, "store unreachable: connection reset", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestKindPredicates(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{Invalid("qty must be > 0"), KindInvalidInput},
		{NotFound("roll %d", 7), KindNotFound},
		{Insufficient("only %.1f kg left", 2.5), KindInsufficientStock},
		{Conflict("retries exhausted"), KindConflict},
		{Timeout("deadline"), KindTimeout},
		{Unavailable("store down"), KindUnavailable},
	}
	for _, c := range cases {
		k, ok := KindOf(c.err)
		require.True(t, ok)
		require.Equal(t, c.want, k)
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create order: %w", InsufficientMax(2000, "paper short"))

	require.True(t, IsInsufficientStock(err))
	maxQty, ok := MaxFeasible(err)
	require.True(t, ok)
	require.Equal(t, int64(2000), maxQty)
}

func TestMaxFeasibleAbsentByDefault(t *testing.T) {
	_, ok := MaxFeasible(Insufficient("no stock"))
	require.False(t, ok)

	_, ok = MaxFeasible(NotFound("nope"))
	require.False(t, ok)
}
