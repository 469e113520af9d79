// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vm defines the lifecycle contract between a node and the virtual
// machines it hosts.
package vm

import (
	"context"
	"net/http"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
)

// VM defines the interface for a virtual machine
type VM interface {
	// Initialize prepares the VM to serve requests. It must be called
	// exactly once, before any other method.
	Initialize(context.Context, *Config) error

	// SetState transitions the VM to the specified state
	SetState(context.Context, State) error

	// Shutdown cleanly stops the VM
	Shutdown(context.Context) error

	// Version returns the VM version
	Version(context.Context) (string, error)

	// CreateHandlers returns the HTTP handlers the VM serves, keyed by the
	// path extension below the chain's endpoint.
	CreateHandlers(context.Context) (map[string]http.Handler, error)

	// HealthCheck returns details about the VM's health, or an error if the
	// VM is unhealthy.
	HealthCheck(context.Context) (interface{}, error)
}

// Config is everything a node hands to a VM at initialization.
type Config struct {
	ChainID   ids.ID
	NetworkID uint32
	NodeID    ids.NodeID

	Log        log.Logger
	DB         database.Database
	Registerer metric.Registerer

	GenesisBytes []byte
	ConfigBytes  []byte
}
