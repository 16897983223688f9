package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics agrupa os contadores da agenda. Cada instância tem seu próprio
// registry para não colidir em testes.
type Metrics struct {
	Registry *prometheus.Registry

	Bookings           *prometheus.CounterVec
	BookingRejections  *prometheus.CounterVec
	AvailabilityChecks *prometheus.CounterVec
	Reminders          *prometheus.CounterVec
	MessagesFailed     prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		Bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "bookings_total",
			Help:      "Agendamentos criados por origem.",
		}, []string{"origin"}),
		BookingRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "booking_rejections_total",
			Help:      "Pedidos de agendamento recusados por motivo.",
		}, []string{"reason"}),
		AvailabilityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "availability_queries_total",
			Help:      "Consultas de disponibilidade por tipo.",
		}, []string{"kind"}),
		Reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "reminders_total",
			Help:      "Lembretes processados por resultado.",
		}, []string{"result"}),
		MessagesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "messages_failed_total",
			Help:      "Falhas de envio ao provedor de mensagens.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		m.Bookings,
		m.BookingRejections,
		m.AvailabilityChecks,
		m.Reminders,
		m.MessagesFailed,
	)

	return m
}

// Os métodos abaixo aceitam receptor nil para os use cases funcionarem sem métricas.

func (m *Metrics) BookingCreated(origin string) {
	if m == nil {
		return
	}
	m.Bookings.WithLabelValues(origin).Inc()
}

func (m *Metrics) BookingRejected(reason string) {
	if m == nil {
		return
	}
	m.BookingRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) AvailabilityQueried(kind string) {
	if m == nil {
		return
	}
	m.AvailabilityChecks.WithLabelValues(kind).Inc()
}

func (m *Metrics) ReminderResult(result string) {
	if m == nil {
		return
	}
	m.Reminders.WithLabelValues(result).Inc()
}

func (m *Metrics) MessageFailed() {
	if m == nil {
		return
	}
	m.MessagesFailed.Inc()
}
