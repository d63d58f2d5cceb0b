package behavior

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s is %T, want Sum[int64]", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestEngineMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := NewMetrics(provider)
	if err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, 1, WithMetrics(m))

	h.set(ParamUpdate{State: ptr(StateIdle)})
	h.Step(ConversationStarted{})
	h.ticks(3)

	if got := collectSum(t, reader, "behavior.ticks"); got != 3 {
		t.Errorf("ticks = %d, want 3", got)
	}
	if got := collectSum(t, reader, "behavior.transitions"); got != 2 {
		t.Errorf("transitions = %d, want 2", got)
	}
	if got := collectSum(t, reader, "behavior.events"); got != 2 {
		t.Errorf("events = %d, want 2", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.tick(0)
	m.event("face")
	m.transition(StateIdle, StateFocused)
	m.animation("gesture", "blink")
	m.outputError("gaze")
}
