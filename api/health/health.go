// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package health serves the results of a node's health checks over HTTP.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"
)

const (
	// AllTag is automatically added to every registered check.
	AllTag = "all"
	// ApplicationTag checks will act as if they specified every tag that has
	// been registered.
	ApplicationTag = "application"
)

// Checker can have its health checked
type Checker interface {
	// HealthCheck returns health check results and, if not healthy, a non-nil
	// error
	HealthCheck(context.Context) (interface{}, error)
}

type CheckerFunc func(context.Context) (interface{}, error)

func (f CheckerFunc) HealthCheck(ctx context.Context) (interface{}, error) {
	return f(ctx)
}

// Result is the outcome of a single check.
type Result struct {
	Details   interface{}   `json:"message,omitempty"`
	Error     *string       `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// Report is what the health endpoint returns.
type Report struct {
	Checks  map[string]Result `json:"checks"`
	Healthy bool              `json:"healthy"`
}

// Health runs named checks on demand.
type Health struct {
	log     log.Logger
	metrics *healthMetrics

	lock   sync.RWMutex
	checks map[string]registered
}

type registered struct {
	checker Checker
	tags    []string
}

func New(log log.Logger, registry metric.Registry) *Health {
	return &Health{
		log:     log,
		metrics: newMetrics(registry),
		checks:  make(map[string]registered),
	}
}

// RegisterCheck adds a check reported under name.
func (h *Health) RegisterCheck(name string, checker Checker, tags ...string) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	if _, ok := h.checks[name]; ok {
		return fmt.Errorf("duplicate check %q", name)
	}
	h.checks[name] = registered{
		checker: checker,
		tags:    append([]string{AllTag}, tags...),
	}
	return nil
}

// Report runs every check whose tags include tag. An empty tag runs them all.
func (h *Health) Report(ctx context.Context, tag string) Report {
	h.lock.RLock()
	defer h.lock.RUnlock()

	if tag == "" {
		tag = AllTag
	}
	report := Report{
		Checks:  make(map[string]Result, len(h.checks)),
		Healthy: true,
	}
	failing := 0
	for name, check := range h.checks {
		if !slices.Contains(check.tags, tag) && !slices.Contains(check.tags, ApplicationTag) {
			continue
		}
		start := time.Now()
		details, err := check.checker.HealthCheck(ctx)
		result := Result{
			Details:   details,
			Timestamp: start,
			Duration:  time.Since(start),
		}
		if err != nil {
			errString := err.Error()
			result.Error = &errString
			report.Healthy = false
			failing++
			h.log.Warn("health check failing",
				log.String("check", name),
				log.Err(err),
			)
		}
		report.Checks[name] = result
	}
	h.metrics.failingChecks.WithLabelValues(tag).Set(float64(failing))
	return report
}

// ServeHTTP writes the report for the "tag" query parameter. Unhealthy
// reports are served with status 503.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := h.Report(r.Context(), r.URL.Query().Get("tag"))

	w.Header().Set("Content-Type", "application/json")
	if !report.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.log.Debug("failed to write health report", log.Err(err))
	}
}
