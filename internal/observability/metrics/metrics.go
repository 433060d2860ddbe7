package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking journey.
type BookingMetrics struct {
	advanceTotal      *prometheus.CounterVec
	synthesisLatency  *prometheus.HistogramVec
	appointmentsTotal *prometheus.CounterVec
	notifyTotal       *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		advanceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revive",
			Subsystem: "journey",
			Name:      "advance_total",
			Help:      "Journey advance calls by outcome",
		}, []string{"outcome"}),
		synthesisLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "revive",
			Subsystem: "journey",
			Name:      "synthesis_latency_seconds",
			Help:      "Latency of recommendation synthesis calls",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"status"}),
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revive",
			Subsystem: "appointments",
			Name:      "logged_total",
			Help:      "Appointment persistence attempts by status",
		}, []string{"status"}),
		notifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revive",
			Subsystem: "notify",
			Name:      "sends_total",
			Help:      "Best-effort notification sends by channel and result",
		}, []string{"channel", "result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.advanceTotal, m.synthesisLatency, m.appointmentsTotal, m.notifyTotal)
	return m
}

// ObserveAdvance counts one state machine step ("question", "complete", "fallback", "config_error").
func (m *BookingMetrics) ObserveAdvance(outcome string) {
	if m == nil {
		return
	}
	m.advanceTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveSynthesis(status string, seconds float64) {
	if m == nil {
		return
	}
	m.synthesisLatency.WithLabelValues(status).Observe(seconds)
}

func (m *BookingMetrics) ObserveAppointment(status string) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveNotification(channel, result string) {
	if m == nil {
		return
	}
	m.notifyTotal.WithLabelValues(channel, result).Inc()
}
