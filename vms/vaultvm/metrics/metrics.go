// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics exposes counters for vault operations.
package metrics

import (
	"errors"

	"github.com/luxfi/metric"

	utilmetric "github.com/luxfi/vaultvm/utils/metric"
)

const (
	opLabel     = "op"
	resultLabel = "result"

	resultSuccess = "success"
	resultFailure = "failure"
)

var _ Metrics = (*metrics)(nil)

// Metrics records the outcome of vault operations.
type Metrics interface {
	// MarkOperation counts one execution of op. A nil err is a success.
	MarkOperation(op string, err error)

	// MarkInvariantViolation counts an aborted operation whose ledger
	// postconditions did not hold.
	MarkInvariantViolation(op string)

	// IncVaults counts a newly initialized vault.
	IncVaults()

	// ObservePayout records the underlying amount released by a merge or a
	// redemption.
	ObservePayout(amount uint64)
}

type metrics struct {
	operations          metric.CounterVec
	invariantViolations metric.CounterVec
	vaults              metric.Counter
	payouts             utilmetric.Averager
}

func New(registerer metric.Registerer) (Metrics, error) {
	m := &metrics{
		operations: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "operations",
				Help: "Number of vault operations executed",
			},
			[]string{opLabel, resultLabel},
		),
		invariantViolations: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "invariant_violations",
				Help: "Number of operations aborted because a ledger postcondition failed",
			},
			[]string{opLabel},
		),
		vaults: metric.NewCounter(metric.CounterOpts{
			Name: "vaults_created",
			Help: "Number of vaults initialized",
		}),
	}

	payouts, err := utilmetric.NewAverager("payout", "underlying released to depositors", registerer)
	m.payouts = payouts

	err = errors.Join(
		err,
		registerer.Register(metric.AsCollector(m.operations)),
		registerer.Register(metric.AsCollector(m.invariantViolations)),
		registerer.Register(metric.AsCollector(m.vaults)),
	)
	return m, err
}

func (m *metrics) MarkOperation(op string, err error) {
	result := resultSuccess
	if err != nil {
		result = resultFailure
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *metrics) MarkInvariantViolation(op string) {
	m.invariantViolations.WithLabelValues(op).Inc()
}

func (m *metrics) IncVaults() {
	m.vaults.Inc()
}

func (m *metrics) ObservePayout(amount uint64) {
	m.payouts.Observe(float64(amount))
}
