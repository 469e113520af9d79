// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utilmetric

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/rpc/v2"
	"github.com/luxfi/metric"
)

const methodLabel = "method"

type APIInterceptor interface {
	InterceptRequest(i *rpc.RequestInfo) *http.Request
	AfterRequest(i *rpc.RequestInfo)
}

type contextKey int

const requestTimestampKey contextKey = iota

type apiInterceptor struct {
	requestDurationCount metric.CounterVec
	requestDurationSum   metric.GaugeVec
	requestErrors        metric.CounterVec
}

func NewAPIInterceptor(reg metric.Registerer) (APIInterceptor, error) {
	requestDurationCount := metric.NewCounterVec(
		metric.CounterOpts{
			Name: metric.AppendNamespace("api_interceptor", "request_duration_count"),
			Help: "Number of times this type of request was made",
		},
		[]string{methodLabel},
	)
	requestDurationSum := metric.NewGaugeVec(
		metric.GaugeOpts{
			Name: metric.AppendNamespace("api_interceptor", "request_duration_sum"),
			Help: "Amount of time in nanoseconds that has been spent handling this type of request",
		},
		[]string{methodLabel},
	)
	requestErrors := metric.NewCounterVec(
		metric.CounterOpts{
			Name: metric.AppendNamespace("api_interceptor", "request_error_count"),
			Help: "Number of request errors",
		},
		[]string{methodLabel},
	)

	err := errors.Join(
		reg.Register(metric.AsCollector(requestDurationCount)),
		reg.Register(metric.AsCollector(requestDurationSum)),
		reg.Register(metric.AsCollector(requestErrors)),
	)
	return &apiInterceptor{
		requestDurationCount: requestDurationCount,
		requestDurationSum:   requestDurationSum,
		requestErrors:        requestErrors,
	}, err
}

func (*apiInterceptor) InterceptRequest(i *rpc.RequestInfo) *http.Request {
	ctx := i.Request.Context()
	ctx = context.WithValue(ctx, requestTimestampKey, time.Now())
	return i.Request.WithContext(ctx)
}

func (apr *apiInterceptor) AfterRequest(i *rpc.RequestInfo) {
	timestampIntf := i.Request.Context().Value(requestTimestampKey)
	timestamp, ok := timestampIntf.(time.Time)
	if !ok {
		return
	}

	labels := metric.Labels{
		methodLabel: i.Method,
	}
	apr.requestDurationCount.With(labels).Inc()

	duration := time.Since(timestamp)
	apr.requestDurationSum.With(labels).Add(float64(duration))

	if i.Error != nil {
		apr.requestErrors.With(labels).Inc()
	}
}
