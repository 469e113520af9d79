// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/luxfi/metric"
)

// MultiGatherer extends the Gatherer interface by allowing additional gatherers
// to be registered.
type MultiGatherer interface {
	metric.Gatherer

	// Register adds the outputs of [gatherer] to the results of future calls to
	// Gather with the provided [name] added to the metrics.
	Register(name string, gatherer metric.Gatherer) error

	// Deregister removes the outputs of a gatherer with [name] from the results
	// of future calls to Gather. Returns true if a gatherer with [name] was
	// found.
	Deregister(name string) bool
}

type multiGatherer struct {
	lock      sync.RWMutex
	names     []string
	gatherers []metric.Gatherer
}

func (g *multiGatherer) Gather() ([]*metric.MetricFamily, error) {
	g.lock.RLock()
	defer g.lock.RUnlock()

	var allFamilies []*metric.MetricFamily
	for _, gatherer := range g.gatherers {
		families, err := gatherer.Gather()
		if err != nil {
			return allFamilies, err
		}
		allFamilies = append(allFamilies, families...)
	}

	sort.Slice(allFamilies, func(i, j int) bool {
		return allFamilies[i].GetName() < allFamilies[j].GetName()
	})
	return allFamilies, nil
}

func (g *multiGatherer) register(name string, gatherer metric.Gatherer) {
	g.names = append(g.names, name)
	g.gatherers = append(g.gatherers, gatherer)
}

func (g *multiGatherer) Deregister(name string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()

	index := slices.Index(g.names, name)
	if index == -1 {
		return false
	}

	g.names = slices.Delete(g.names, index, index+1)
	g.gatherers = slices.Delete(g.gatherers, index, index+1)
	return true
}

// MakeAndRegister creates a registry whose metrics are exposed through
// gatherer under name.
func MakeAndRegister(gatherer MultiGatherer, name string) (metric.Registry, error) {
	reg := metric.NewRegistry()
	if err := gatherer.Register(name, reg); err != nil {
		return nil, fmt.Errorf("couldn't register %q metrics: %w", name, err)
	}
	return reg, nil
}
