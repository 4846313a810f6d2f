// metrics описывает prometheus-метрики жизненного цикла токенов.
// Все методы безопасны для nil-получателя: сервис может работать без метрик.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Исходы обновления пары токенов.
const (
	OutcomeRotated  = "rotated"
	OutcomeRejected = "rejected"
	OutcomeReplay   = "replay"
	OutcomeError    = "error"
)

type Metrics struct {
	issued              prometheus.Counter
	refresh             *prometheus.CounterVec
	familyClearFailures prometheus.Counter
	invalidated         prometheus.Counter
}

// New создаёт и регистрирует коллекторы в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auth",
			Name:      "tokens_issued_total",
			Help:      "Issued access/refresh token pairs.",
		}),
		refresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auth",
			Name:      "refresh_total",
			Help:      "Refresh attempts by outcome.",
		}, []string{"outcome"}),
		familyClearFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auth",
			Name:      "family_clear_failures_total",
			Help:      "Failed token family deletions after replay detection.",
		}),
		invalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auth",
			Name:      "sessions_invalidated_total",
			Help:      "Token version rotations.",
		}),
	}

	reg.MustRegister(m.issued, m.refresh, m.familyClearFailures, m.invalidated)

	return m
}

func (m *Metrics) TokensIssued() {
	if m == nil {
		return
	}
	m.issued.Inc()
}

func (m *Metrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.refresh.WithLabelValues(outcome).Inc()
}

func (m *Metrics) FamilyClearFailed() {
	if m == nil {
		return
	}
	m.familyClearFailures.Inc()
}

func (m *Metrics) SessionInvalidated() {
	if m == nil {
		return
	}
	m.invalidated.Inc()
}
