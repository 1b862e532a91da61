package parsley

import (
	"context"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"time"
)

// instrumenter holds data for core instrumentation
type instrumenter struct {
	appName     string
	coreMetrics coreMetrics
}

// coreMetrics holds core parsley metrics
type coreMetrics struct {
	eventsSeen                   metric.Int64Counter
	eventsProcessed              metric.Int64Counter
	eventProcessingLatencyMillis metric.Int64Histogram
	eventDispatchLatencyMillis   metric.Int64Histogram
	slackLatencyMillis           metric.Int64Histogram
	actionErrors                 metric.Int64Counter
}

// newInstrumenter creates a new core instrumenter
func newInstrumenter(appName string, meter metric.Meter) (ins *instrumenter, err error) {
	ins = new(instrumenter)
	ins.appName = appName

	cm := &ins.coreMetrics
	if cm.eventsSeen, err = meter.Int64Counter("eventsSeen"); err != nil {
		return nil, err
	}

	if cm.eventsProcessed, err = meter.Int64Counter("eventsProcessed"); err != nil {
		return nil, err
	}

	if cm.eventProcessingLatencyMillis, err = meter.Int64Histogram("eventProcessingLatencyMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	if cm.eventDispatchLatencyMillis, err = meter.Int64Histogram("eventDispatchLatencyMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	if cm.slackLatencyMillis, err = meter.Int64Histogram("slackLatencyMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	if cm.actionErrors, err = meter.Int64Counter("actionErrors"); err != nil {
		return nil, err
	}

	return ins, nil
}

// nameAttrs returns the measurement option with the default labels
func (ins *instrumenter) nameAttrs() metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("name", ins.appName))
}

// eventTypeAttrs returns the measurement option with the default labels and the event type
func (ins *instrumenter) eventTypeAttrs(et EventType) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("name", ins.appName), attribute.String("eventType", et.String()))
}

// recordEventSeen counts an incoming rtm event
func (ins *instrumenter) recordEventSeen(ctx context.Context) {
	ins.coreMetrics.eventsSeen.Add(ctx, 1, ins.nameAttrs())
}

// recordEventProcessed counts a processed event along with its processing latency
func (ins *instrumenter) recordEventProcessed(ctx context.Context, et EventType, d time.Duration) {
	ins.coreMetrics.eventsProcessed.Add(ctx, 1, ins.eventTypeAttrs(et))
	ins.coreMetrics.eventProcessingLatencyMillis.Record(ctx, d.Milliseconds(), ins.eventTypeAttrs(et))
}

// recordDispatchLatency records the time it took to hand an event off to its partition
func (ins *instrumenter) recordDispatchLatency(ctx context.Context, d time.Duration) {
	ins.coreMetrics.eventDispatchLatencyMillis.Record(ctx, d.Milliseconds(), ins.nameAttrs())
}

// recordSlackLatency records the latency reported by slack
func (ins *instrumenter) recordSlackLatency(ctx context.Context, d time.Duration) {
	ins.coreMetrics.slackLatencyMillis.Record(ctx, d.Milliseconds(), ins.nameAttrs())
}

// recordActionError counts a failed action invocation
func (ins *instrumenter) recordActionError(ctx context.Context, actionID string) {
	ins.coreMetrics.actionErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("name", ins.appName), attribute.String("action", actionID)))
}

type timed func()

// measure returns the execution duration of a timed function
func measure(operation timed) (d time.Duration) {
	before := time.Now()

	operation()

	return time.Since(before)
}
