package orders

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var numberRe = regexp.MustCompile(`^\d{4}[0-9A-Z]{2}\d{4}$`)

func TestNextNumberFormat(t *testing.T) {
	march := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	n := NextNumber(march, "")
	require.Regexp(t, numberRe, n)
	require.Equal(t, "2503", n[:4])
	require.Equal(t, "0001", n[len(n)-4:])
}

func TestNextSequence(t *testing.T) {
	cases := []struct {
		last string
		want int
	}{
		{"", 1},                // заказов ещё не было
		{"2503AB0007", 8},      // обычный номер
		{"250305AB0007", 8},    // старый формат с днём — суффикс читается так же
		{"2503AB000X", 1},      // нечитаемый суффикс
		{"07", 1},              // слишком короткий
		{"2503AB9999", 10000},  // переполнение не ломает генерацию
	}
	for _, c := range cases {
		require.Equal(t, c.want, NextSequence(c.last), "last=%q", c.last)
	}
}

func TestNextNumberRandomPartVaries(t *testing.T) {
	now := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[NextNumber(now, "")[4:6]] = true
	}
	// два случайных base36-символа: 200 генераций почти наверняка дают разные
	require.Greater(t, len(seen), 1)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"in_progress", "ready", "delivered"} {
		st, err := ParseStatus(s)
		require.NoError(t, err)
		require.Equal(t, Status(s), st)
	}

	_, err := ParseStatus("closed")
	require.Error(t, err)
}
