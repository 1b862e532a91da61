package parsley

import (
	"context"
	"time"

	"github.com/slack-go/slack"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// UserInfoFinderWithTelemetry implements UserInfoFinder interface with all methods wrapped
// with open telemetry metrics
type UserInfoFinderWithTelemetry struct {
	base                 UserInfoFinder
	getUserInfoCalls     metric.Int64Counter
	getUserInfoErrors    metric.Int64Counter
	getUserInfoTimeMills metric.Int64Histogram
	attrs                metric.MeasurementOption
}

// NewUserInfoFinderWithTelemetry returns an instance of the UserInfoFinder decorated with open telemetry timing and count metrics
func NewUserInfoFinderWithTelemetry(base UserInfoFinder, name string, meter metric.Meter) (d *UserInfoFinderWithTelemetry, err error) {
	d = new(UserInfoFinderWithTelemetry)
	d.base = base
	d.attrs = metric.WithAttributes(attribute.String("name", name))

	if d.getUserInfoCalls, err = meter.Int64Counter("userInfoFinder_GetUserInfo_Calls"); err != nil {
		return nil, err
	}

	if d.getUserInfoErrors, err = meter.Int64Counter("userInfoFinder_GetUserInfo_Errors"); err != nil {
		return nil, err
	}

	if d.getUserInfoTimeMills, err = meter.Int64Histogram("userInfoFinder_GetUserInfo_ProcessingTimeMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	return d, nil
}

// GetUserInfo implements UserInfoFinder
func (_d *UserInfoFinderWithTelemetry) GetUserInfo(userID string) (user *slack.User, err error) {
	_since := time.Now()
	defer func() {
		ctx := context.Background()
		if err != nil {
			_d.getUserInfoErrors.Add(ctx, 1, _d.attrs)
		}

		_d.getUserInfoCalls.Add(ctx, 1, _d.attrs)
		_d.getUserInfoTimeMills.Record(ctx, time.Since(_since).Milliseconds(), _d.attrs)
	}()
	return _d.base.GetUserInfo(userID)
}
