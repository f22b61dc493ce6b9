package sim

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/bikechallenge/log"
)

type metrics struct {
	frames metric.Int64Counter
	events metric.Int64Counter
	runs   metric.Int64Counter
	attrs  metric.MeasurementOption
}

//nolint:whitespace // false positive
func newMetrics(mode string, l *log.Logger) *metrics {
	meter := otel.GetMeterProvider().Meter("bkc.sim")
	register := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name,
			metric.WithDescription(desc),
			metric.WithUnit("{count}"))
		if err != nil {
			l.Error("failed to register metric",
				log.String("metric", name),
				log.ErrorField(err))
		}
		return c
	}
	return &metrics{
		frames: register("bkc.sim.frames", "Number of simulated frames"),
		events: register("bkc.sim.events", "Number of race events"),
		runs:   register("bkc.sim.runs", "Number of finished simulation runs"),
		attrs:  metric.WithAttributes(attribute.String("mode", mode)),
	}
}

func (m *metrics) frame(ctx context.Context, newEvents int) {
	if m.frames != nil {
		m.frames.Add(ctx, 1, m.attrs)
	}
	if m.events != nil && newEvents > 0 {
		m.events.Add(ctx, int64(newEvents), m.attrs)
	}
}

func (m *metrics) run(ctx context.Context) {
	if m.runs != nil {
		m.runs.Add(ctx, 1, m.attrs)
	}
}
