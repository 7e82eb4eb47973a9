package orchestrator

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type instruments struct {
	generated metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
}

func newInstruments(meter metric.Meter) (instruments, error) {
	var ins instruments
	var err, errs error

	ins.generated, err = meter.Int64Counter("docgen.documents.generated",
		metric.WithDescription("Documents generated and persisted"),
		metric.WithUnit("{document}"),
	)
	errs = errors.Join(errs, err)

	ins.failed, err = meter.Int64Counter("docgen.documents.failed",
		metric.WithDescription("Generations that failed, by stage and class"),
		metric.WithUnit("{document}"),
	)
	errs = errors.Join(errs, err)

	ins.duration, err = meter.Float64Histogram("docgen.generation.duration",
		metric.WithDescription("Time from resolution to persisted record"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	errs = errors.Join(errs, err)

	return ins, errs
}

// record counts one generation outcome.
func (ins instruments) record(ctx context.Context, title string, started time.Time, err error) {
	if ins.generated == nil {
		return
	}
	kind := attribute.String("template", title)
	ins.duration.Record(ctx, time.Since(started).Seconds(), metric.WithAttributes(kind))
	if err == nil {
		ins.generated.Add(ctx, 1, metric.WithAttributes(kind))
		return
	}
	ins.failed.Add(ctx, 1, metric.WithAttributes(
		kind,
		attribute.String("stage", string(StageOf(err))),
		attribute.String("class", string(ClassOf(err))),
	))
}
