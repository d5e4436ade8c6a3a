package accounting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Spok95/print-stock/internal/apperr"
)

func TestAssignFromRoll(t *testing.T) {
	roll := RollState{TotalKg: 100, RemainingKg: 100}

	next, err := AssignFromRoll(roll, 40)
	require.NoError(t, err)
	require.Equal(t, 60.0, next.RemainingKg)
	require.Equal(t, 100.0, next.TotalKg)

	// остаток + отданное = вес рулона
	next2, err := AssignFromRoll(next, 60)
	require.NoError(t, err)
	require.Equal(t, 0.0, next2.RemainingKg)
}

func TestAssignFromRollInsufficient(t *testing.T) {
	roll := RollState{TotalKg: 100, RemainingKg: 30}

	got, err := AssignFromRoll(roll, 30.001)
	require.True(t, apperr.IsInsufficientStock(err))
	// состояние не тронуто
	require.Equal(t, roll, got)
}

func TestAssignFromRollInvalidAmount(t *testing.T) {
	roll := RollState{TotalKg: 100, RemainingKg: 100}

	for _, amount := range []float64{0, -1} {
		got, err := AssignFromRoll(roll, amount)
		require.True(t, apperr.IsInvalidInput(err), "amount=%v", amount)
		require.Equal(t, roll, got)
	}
}

func TestReceiveFromAssignment(t *testing.T) {
	asg := AssignmentState{SentKg: 40, RemainingKg: 40}

	next, err := ReceiveFromAssignment(asg, 15)
	require.NoError(t, err)
	require.Equal(t, 25.0, next.RemainingKg)

	_, err = ReceiveFromAssignment(next, 25.5)
	require.True(t, apperr.IsInsufficientStock(err))

	_, err = ReceiveFromAssignment(next, 0)
	require.True(t, apperr.IsInvalidInput(err))
}

func TestCredit(t *testing.T) {
	b := Bucket{AvailableKg: 10, UsedKg: 5}

	next, err := Credit(b, 15)
	require.NoError(t, err)
	require.Equal(t, 25.0, next.AvailableKg)
	require.Equal(t, 5.0, next.UsedKg)

	_, err = Credit(b, -3)
	require.True(t, apperr.IsInvalidInput(err))
}

// Поставка материала идёт через Credit: available растёт,
// used не трогается, новый total = used + available.
func TestCreditSuppliesMaterial(t *testing.T) {
	m := Bucket{AvailableKg: 7, UsedKg: 3} // total 10

	next, err := Credit(m, 5)
	require.NoError(t, err)
	require.Equal(t, 12.0, next.AvailableKg)
	require.Equal(t, 3.0, next.UsedKg)
	require.Equal(t, 15.0, next.UsedKg+next.AvailableKg)

	got, err := Credit(m, 0)
	require.True(t, apperr.IsInvalidInput(err))
	require.Equal(t, m, got)
}

func TestConsume(t *testing.T) {
	b := Bucket{AvailableKg: 10, UsedKg: 2}

	next, err := Consume(b, 4)
	require.NoError(t, err)
	require.Equal(t, 6.0, next.AvailableKg)
	require.Equal(t, 6.0, next.UsedKg)

	got, err := Consume(next, 6.1)
	require.True(t, apperr.IsInsufficientStock(err))
	require.Equal(t, next, got)
}

// Повторное применение одного прихода не идемпотентно: это
// аддитивное историческое событие, дедупликация — забота вызывающего.
func TestReceiveIsAdditive(t *testing.T) {
	asg := AssignmentState{SentKg: 40, RemainingKg: 40}
	cust := Bucket{AvailableKg: 0}

	for i := 0; i < 2; i++ {
		var err error
		asg, err = ReceiveFromAssignment(asg, 10)
		require.NoError(t, err)
		cust, err = Credit(cust, 10)
		require.NoError(t, err)
	}

	require.Equal(t, 20.0, asg.RemainingKg)
	require.Equal(t, 20.0, cust.AvailableKg)
}
