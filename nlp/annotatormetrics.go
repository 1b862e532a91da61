package nlp

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AnnotatorWithTelemetry implements Annotator interface with all methods wrapped
// with open telemetry metrics
type AnnotatorWithTelemetry struct {
	base              Annotator
	annotateCalls     metric.Int64Counter
	annotateErrors    metric.Int64Counter
	annotateTimeMills metric.Int64Histogram
	nerTagsCalls      metric.Int64Counter
	nerTagsErrors     metric.Int64Counter
	nerTagsTimeMills  metric.Int64Histogram
	attrs             metric.MeasurementOption
}

// NewAnnotatorWithTelemetry returns an instance of the Annotator decorated with open telemetry timing and count metrics
func NewAnnotatorWithTelemetry(base Annotator, name string, meter metric.Meter) (d *AnnotatorWithTelemetry, err error) {
	d = new(AnnotatorWithTelemetry)
	d.base = base
	d.attrs = metric.WithAttributes(attribute.String("name", name))

	if d.annotateCalls, err = meter.Int64Counter("annotator_Annotate_Calls"); err != nil {
		return nil, err
	}

	if d.annotateErrors, err = meter.Int64Counter("annotator_Annotate_Errors"); err != nil {
		return nil, err
	}

	if d.annotateTimeMills, err = meter.Int64Histogram("annotator_Annotate_ProcessingTimeMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	if d.nerTagsCalls, err = meter.Int64Counter("annotator_NERTags_Calls"); err != nil {
		return nil, err
	}

	if d.nerTagsErrors, err = meter.Int64Counter("annotator_NERTags_Errors"); err != nil {
		return nil, err
	}

	if d.nerTagsTimeMills, err = meter.Int64Histogram("annotator_NERTags_ProcessingTimeMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	return d, nil
}

// Annotate implements Annotator
func (_d *AnnotatorWithTelemetry) Annotate(ctx context.Context, text string) (doc *Document, err error) {
	_since := time.Now()
	defer func() {
		if err != nil {
			_d.annotateErrors.Add(ctx, 1, _d.attrs)
		}

		_d.annotateCalls.Add(ctx, 1, _d.attrs)
		_d.annotateTimeMills.Record(ctx, time.Since(_since).Milliseconds(), _d.attrs)
	}()
	return _d.base.Annotate(ctx, text)
}

// NERTags implements Annotator
func (_d *AnnotatorWithTelemetry) NERTags(ctx context.Context, text string) (tags []string, err error) {
	_since := time.Now()
	defer func() {
		if err != nil {
			_d.nerTagsErrors.Add(ctx, 1, _d.attrs)
		}

		_d.nerTagsCalls.Add(ctx, 1, _d.attrs)
		_d.nerTagsTimeMills.Record(ctx, time.Since(_since).Milliseconds(), _d.attrs)
	}()
	return _d.base.NERTags(ctx, text)
}
