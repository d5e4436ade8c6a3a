package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Spok95/print-stock/internal/apperr"
)

var (
	opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "printstock_operations_total",
		Help: "Учётные операции по итогу (ok или вид ошибки).",
	}, []string{"op", "result"})

	opDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "printstock_operation_duration_seconds",
		Help:    "Длительность учётных операций.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	txConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "printstock_tx_conflicts_total",
		Help: "Транзакции, завершившиеся конфликтом после ретраев.",
	})
)

// ObserveOp фиксирует итог и длительность операции движка.
func ObserveOp(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		if k, ok := apperr.KindOf(err); ok {
			result = k.String()
			if k == apperr.KindConflict {
				txConflicts.Inc()
			}
		} else {
			result = "error"
		}
	}
	opsTotal.WithLabelValues(op, result).Inc()
	opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
