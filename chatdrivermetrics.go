package parsley

import (
	"context"
	"time"

	"github.com/slack-go/slack"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// chatDriverWithTelemetry implements chatDriver interface with all methods wrapped
// with open telemetry metrics
type chatDriverWithTelemetry struct {
	base                 chatDriver
	sendMessageCalls     metric.Int64Counter
	sendMessageErrors    metric.Int64Counter
	sendMessageTimeMills metric.Int64Histogram
	attrs                metric.MeasurementOption
}

// newChatDriverWithTelemetry returns an instance of the chatDriver decorated with open telemetry timing and count metrics
func newChatDriverWithTelemetry(base chatDriver, name string, meter metric.Meter) (d *chatDriverWithTelemetry, err error) {
	d = new(chatDriverWithTelemetry)
	d.base = base
	d.attrs = metric.WithAttributes(attribute.String("name", name))

	if d.sendMessageCalls, err = meter.Int64Counter("chatDriver_SendMessage_Calls"); err != nil {
		return nil, err
	}

	if d.sendMessageErrors, err = meter.Int64Counter("chatDriver_SendMessage_Errors"); err != nil {
		return nil, err
	}

	if d.sendMessageTimeMills, err = meter.Int64Histogram("chatDriver_SendMessage_ProcessingTimeMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	return d, nil
}

// SendMessage implements chatDriver
func (_d *chatDriverWithTelemetry) SendMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error) {
	_since := time.Now()
	defer func() {
		ctx := context.Background()
		if err != nil {
			_d.sendMessageErrors.Add(ctx, 1, _d.attrs)
		}

		_d.sendMessageCalls.Add(ctx, 1, _d.attrs)
		_d.sendMessageTimeMills.Record(ctx, time.Since(_since).Milliseconds(), _d.attrs)
	}()
	return _d.base.SendMessage(channelID, options...)
}
