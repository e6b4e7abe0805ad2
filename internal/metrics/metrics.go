// Package metrics содержит prometheus-метрики оформления подписки.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout — метрики попыток оплаты.
type Checkout struct {
	submissions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewCheckout создаёт и регистрирует метрики в reg.
func NewCheckout(reg prometheus.Registerer) *Checkout {
	m := &Checkout{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "checkout",
			Name:      "submissions_total",
			Help:      "Payment form submissions by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "marketplace",
			Subsystem: "checkout",
			Name:      "payment_duration_seconds",
			Help:      "Latency of requests to the payment endpoint.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.submissions, m.duration)
	return m
}

// ObserveOutcome увеличивает счётчик для результата kind.
func (m *Checkout) ObserveOutcome(kind string) {
	m.submissions.WithLabelValues(kind).Inc()
}

// ObservePayment записывает длительность запроса к платёжному эндпоинту.
func (m *Checkout) ObservePayment(d time.Duration) {
	m.duration.Observe(d.Seconds())
}
