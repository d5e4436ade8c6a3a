package orders

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NextNumber собирает номер заказа: YYMM + 2 случайных base36-символа +
// 4 цифры последовательности. Последовательность = суффикс последнего
// заказа + 1; если заказов не было или суффикс не читается — 1.
func NextNumber(now time.Time, lastNumber string) string {
	seq := NextSequence(lastNumber)
	return fmt.Sprintf("%s%c%c%04d",
		now.Format("0601"),
		base36[rand.IntN(len(base36))],
		base36[rand.IntN(len(base36))],
		seq,
	)
}

// NextSequence читает 4-значный суффикс номера и возвращает его + 1.
func NextSequence(lastNumber string) int {
	seq, ok := parseSequence(lastNumber)
	if !ok {
		return 1
	}
	return seq + 1
}

func parseSequence(number string) (int, bool) {
	if len(number) < 4 {
		return 0, false
	}
	tail := number[len(number)-4:]
	seq := 0
	for _, c := range tail {
		if c < '0' || c > '9' {
			return 0, false
		}
		seq = seq*10 + int(c-'0')
	}
	return seq, true
}
