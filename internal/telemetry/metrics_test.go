package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.BookingCreated("public")
	m.BookingCreated("public")
	m.BookingRejected("slot_unavailable")
	m.ReminderResult("sent")

	if got := testutil.ToFloat64(m.Bookings.WithLabelValues("public")); got != 2 {
		t.Fatalf("bookings = %v", got)
	}
	if got := testutil.ToFloat64(m.BookingRejections.WithLabelValues("slot_unavailable")); got != 1 {
		t.Fatalf("rejections = %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.BookingCreated("internal")
	m.MessageFailed()
	m.AvailabilityQueried("grid")
}

func TestTracingDisabledIsNoop(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), config.TelemetryConfig{})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
