// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utilmetric

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/rpc/v2"
	"github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestAverager(t *testing.T) {
	require := require.New(t)

	registry := metric.NewRegistry()
	a, err := NewAverager("payout", "payouts", registry)
	require.NoError(err)

	a.Observe(3)
	a.Observe(5)

	impl := a.(*averager)
	require.InDelta(2, testutil.ToFloat64(impl.count), 0)
	require.InDelta(8, testutil.ToFloat64(impl.sum), 0)

	_, err = NewAverager("payout", "payouts", registry)
	require.ErrorIs(err, ErrFailedRegistering)
}

func TestAPIInterceptor(t *testing.T) {
	require := require.New(t)

	i, err := NewAPIInterceptor(metric.NewRegistry())
	require.NoError(err)

	info := &rpc.RequestInfo{
		Method:  "vault.mint",
		Request: httptest.NewRequest("POST", "/", nil),
	}
	info.Request = i.InterceptRequest(info)
	i.AfterRequest(info)

	info.Error = errors.New("boom")
	i.AfterRequest(info)

	impl := i.(*apiInterceptor)
	require.InDelta(2, testutil.ToFloat64(impl.requestDurationCount.WithLabelValues("vault.mint")), 0)
	require.InDelta(1, testutil.ToFloat64(impl.requestErrors.WithLabelValues("vault.mint")), 0)
}

func TestAPIInterceptorWithoutTimestamp(t *testing.T) {
	i, err := NewAPIInterceptor(metric.NewRegistry())
	require.NoError(t, err)

	info := &rpc.RequestInfo{
		Method:  "vault.mint",
		Request: httptest.NewRequest("POST", "/", nil),
	}
	i.AfterRequest(info)

	impl := i.(*apiInterceptor)
	require.Zero(t, testutil.ToFloat64(impl.requestDurationCount.WithLabelValues("vault.mint")))
}
