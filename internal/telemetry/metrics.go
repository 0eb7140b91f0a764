package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lightgame/panel/internal/entity"
)

const (
	EntityKey  = attribute.Key("panel.entity")
	OpKey      = attribute.Key("panel.op")
	StatusKey  = attribute.Key("http.response.status_code")
	OutcomeKey = attribute.Key("panel.outcome")
)

// APIMetrics counts and times the game API calls made by entity managers.
type APIMetrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
	failures metric.Int64Counter
}

func NewAPIMetrics(meter metric.Meter) (*APIMetrics, error) {
	calls, err := meter.Int64Counter("panel.api.calls", metric.WithDescription("Game API calls made by the panel"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("panel.api.duration",
		metric.WithDescription("Game API call latency"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("panel.api.failures", metric.WithDescription("Failed game API calls"))
	if err != nil {
		return nil, err
	}
	return &APIMetrics{calls: calls, duration: duration, failures: failures}, nil
}

func outcome(ev entity.Event) string {
	switch {
	case ev.Err == nil:
		return "ok"
	case ev.Status == 0:
		return "network"
	case ev.Status < 500:
		return "rejected"
	default:
		return "server"
	}
}

// Observe implements entity.Observer.
func (m *APIMetrics) Observe(ctx context.Context, ev entity.Event) {
	attrs := metric.WithAttributes(
		EntityKey.String(ev.Entity),
		OpKey.String(string(ev.Op)),
		StatusKey.Int(ev.Status),
		OutcomeKey.String(outcome(ev)),
	)
	m.calls.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(ev.Elapsed.Microseconds())/1000, attrs)
	if ev.Err != nil {
		m.failures.Add(ctx, 1, attrs)
	}
}
