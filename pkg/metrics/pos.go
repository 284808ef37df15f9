package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados de envío de venta.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected" // falló una precondición antes de llamar al Sales API
	ResultFailure  = "failure"
)

// POSMetrics registra operaciones del carrito y envíos de venta. Un *POSMetrics nil no hace nada.
type POSMetrics struct {
	rejections  *prometheus.CounterVec
	submissions *prometheus.CounterVec
	latency     prometheus.Histogram
	sessions    prometheus.Gauge
}

// NewPOSMetrics registra las métricas en reg. Con reg nil devuelve un recolector inerte.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_cart_rejections_total",
		Help: "Mutaciones de carrito rechazadas por motivo.",
	}, []string{"reason"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sale_submissions_total",
		Help: "Envíos de venta por resultado.",
	}, []string{"result"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_sale_submission_duration_seconds",
		Help:    "Duración de la llamada al Sales API.",
		Buckets: prometheus.DefBuckets,
	})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pos_open_sessions",
		Help: "Sesiones de caja abiertas.",
	})
	reg.MustRegister(rejections, submissions, latency, sessions)
	return &POSMetrics{
		rejections:  rejections,
		submissions: submissions,
		latency:     latency,
		sessions:    sessions,
	}
}

// IncRejection cuenta una mutación rechazada (stock_limit, out_of_stock, validation, ...).
func (m *POSMetrics) IncRejection(reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveSubmission registra el resultado de un envío y, si hubo llamada, su duración.
func (m *POSMetrics) ObserveSubmission(result string, d time.Duration) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(result)).Inc()
	if result != ResultRejected {
		m.latency.Observe(d.Seconds())
	}
}

// SetOpenSessions fija el número de sesiones abiertas.
func (m *POSMetrics) SetOpenSessions(n int) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.Set(float64(n))
}

func normalizeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
