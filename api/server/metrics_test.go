// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistrationFailure(t *testing.T) {
	reg := metric.NewRegistry()

	metrics1, err := newMetrics(reg)
	require.NoError(t, err)
	require.NotNil(t, metrics1)

	metrics2, err := newMetrics(reg)
	require.Error(t, err, "second registration should fail due to duplicate metrics")
	require.Nil(t, metrics2)
}

func TestMetricsWrapHandler(t *testing.T) {
	require := require.New(t)

	m, err := newMetrics(metric.NewRegistry())
	require.NoError(err)

	handler := m.wrapHandler("vault", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.InDelta(1, testutil.ToFloat64(m.inflight), 0)
		w.WriteHeader(http.StatusTeapot)
	}))

	for range 3 {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(http.StatusTeapot, w.Code)
	}

	require.InDelta(3, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodPost, "vault")), 0)
	require.Zero(testutil.ToFloat64(m.inflight))
	require.Equal(1, testutil.CollectAndCount(m.duration))
}
