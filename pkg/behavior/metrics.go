package behavior

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/teslashibe/go-behavior/pkg/behavior"

// Metrics holds the engine's OpenTelemetry instruments.
type Metrics struct {
	ticks        metric.Int64Counter
	tickDuration metric.Float64Histogram
	events       metric.Int64Counter
	transitions  metric.Int64Counter
	animations   metric.Int64Counter
	outputErrors metric.Int64Counter
}

// NewMetrics registers the engine instruments on mp, or on the global provider when mp is nil.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	m := &Metrics{}
	var err error
	if m.ticks, err = meter.Int64Counter("behavior.ticks",
		metric.WithDescription("Scheduler ticks executed")); err != nil {
		return nil, err
	}
	if m.tickDuration, err = meter.Float64Histogram("behavior.tick.duration",
		metric.WithDescription("Time spent in one tick"),
		metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	if m.events, err = meter.Int64Counter("behavior.events",
		metric.WithDescription("Perception and control events handled")); err != nil {
		return nil, err
	}
	if m.transitions, err = meter.Int64Counter("behavior.transitions",
		metric.WithDescription("Activity state transitions")); err != nil {
		return nil, err
	}
	if m.animations, err = meter.Int64Counter("behavior.animations",
		metric.WithDescription("Gestures and expressions fired")); err != nil {
		return nil, err
	}
	if m.outputErrors, err = meter.Int64Counter("behavior.output.errors",
		metric.WithDescription("Commands the output rejected")); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) tick(d time.Duration) {
	if m == nil {
		return
	}
	ctx := context.Background()
	m.ticks.Add(ctx, 1)
	m.tickDuration.Record(ctx, float64(d.Microseconds())/1000)
}

func (m *Metrics) event(kind string) {
	if m == nil {
		return
	}
	m.events.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *Metrics) transition(from, to ActivityState) {
	if m == nil {
		return
	}
	m.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	))
}

func (m *Metrics) animation(kind, name string) {
	if m == nil {
		return
	}
	m.animations.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("name", name),
	))
}

func (m *Metrics) outputError(command string) {
	if m == nil {
		return
	}
	m.outputErrors.Add(context.Background(), 1, metric.WithAttributes(attribute.String("command", command)))
}
