package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"

	"github.com/solayof/school-inventory-backend/internal/config"
)

func preserveOTelGlobals(t *testing.T) func() {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	return func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	}
}

func TestSetupOTel_Disabled_NoOp(t *testing.T) {
	restore := preserveOTelGlobals(t)
	defer restore()

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{
		Enabled:     false,
		Insecure:    true,
		Endpoint:    "ignored:4317",
		ServiceName: "svc",
		SampleRatio: 1.0,
	}, "v0.0.0")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if shutdown == nil {
		t.Fatalf("expected non-nil shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown returned error: %v", err)
	}
}

func TestDeliveryCounter(t *testing.T) {
	before := testutil.ToFloat64(remindersDelivered.WithLabelValues("sent"))
	ObserveDelivery("sent")
	after := testutil.ToFloat64(remindersDelivered.WithLabelValues("sent"))
	if after != before+1 {
		t.Fatalf("counter moved %v -> %v, want +1", before, after)
	}
}

func TestSchedulerRunCounter(t *testing.T) {
	before := testutil.ToFloat64(schedulerRuns.WithLabelValues("overdue_scan"))
	ObserveSchedulerRun("overdue_scan")
	after := testutil.ToFloat64(schedulerRuns.WithLabelValues("overdue_scan"))
	if after != before+1 {
		t.Fatalf("counter moved %v -> %v, want +1", before, after)
	}
}

func TestOverdueBacklogGauge(t *testing.T) {
	SetOverdueBacklog(7)
	if got := testutil.ToFloat64(overdueAssignments); got != 7 {
		t.Fatalf("gauge = %v, want 7", got)
	}
	SetOverdueBacklog(0)
	if got := testutil.ToFloat64(overdueAssignments); got != 0 {
		t.Fatalf("gauge = %v, want 0", got)
	}
}
