package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewWithRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()

	m := newWithRegisterer(reg)
	if m == nil {
		t.Fatal("expected metrics instance")
	}
	if m.ordersCommitted == nil || m.commitFailures == nil || m.salesCents == nil || m.checkoutDuration == nil {
		t.Fatal("expected all collectors initialized")
	}

	// Registering against the same registry again reuses the existing
	// collectors instead of panicking.
	again := newWithRegisterer(reg)
	if again.ordersCommitted != m.ordersCommitted {
		t.Fatal("expected existing counter to be reused")
	}
}

func TestRecordOrderCommitted(t *testing.T) {
	m := newWithRegisterer(prometheus.NewRegistry())

	m.RecordOrderCommitted(972)
	m.RecordOrderCommitted(378)

	if got := counterValue(t, m.ordersCommitted); got != 2 {
		t.Fatalf("expected 2 committed orders, got %f", got)
	}
	if got := counterValue(t, m.salesCents); got != 1350 {
		t.Fatalf("expected 1350 sales cents, got %f", got)
	}
}

func TestRecordCommitFailure(t *testing.T) {
	m := newWithRegisterer(prometheus.NewRegistry())

	m.RecordCommitFailure()

	if got := counterValue(t, m.commitFailures); got != 1 {
		t.Fatalf("expected 1 failure, got %f", got)
	}
}

func TestNilMetricsNoop(t *testing.T) {
	var m *Metrics

	// Must not panic.
	m.RecordOrderCommitted(100)
	m.RecordCommitFailure()
	m.RecordCheckoutDuration(time.Millisecond)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := c.Write(metric); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return metric.Counter.GetValue()
}
