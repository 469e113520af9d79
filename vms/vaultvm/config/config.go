// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines configuration types for the vault VM.
package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/luxfi/constants"
)

var errInvalidConfig = errors.New("invalid config")

// Config contains the user-configurable parameters of the vault VM.
type Config struct {
	// VaultCacheSize is the number of committed vault records kept in memory.
	VaultCacheSize int `json:"vaultCacheSize"`

	// MaxClaimLen bounds the byte length of a vault's claim.
	MaxClaimLen int `json:"maxClaimLen"`
	// MaxDocRefLen bounds the byte length of a vault's document reference.
	MaxDocRefLen int `json:"maxDocRefLen"`
	// MaxMetadataURILen bounds each URI attached to a derivative asset.
	MaxMetadataURILen int `json:"maxMetadataURILen"`

	// MaxListLimit caps the page size of vault listings served over the API.
	MaxListLimit int `json:"maxListLimit"`
}

// DefaultConfig returns the default configuration for the vault VM.
func DefaultConfig() Config {
	return Config{
		VaultCacheSize:    2048,
		MaxClaimLen:       constants.KiB,
		MaxDocRefLen:      256,
		MaxMetadataURILen: 200,
		MaxListLimit:      1024,
	}
}

// Verify returns an error if any limit is not positive.
func (c Config) Verify() error {
	switch {
	case c.VaultCacheSize <= 0:
		return fmt.Errorf("%w: vaultCacheSize must be positive", errInvalidConfig)
	case c.MaxClaimLen <= 0:
		return fmt.Errorf("%w: maxClaimLen must be positive", errInvalidConfig)
	case c.MaxDocRefLen <= 0:
		return fmt.Errorf("%w: maxDocRefLen must be positive", errInvalidConfig)
	case c.MaxMetadataURILen <= 0:
		return fmt.Errorf("%w: maxMetadataURILen must be positive", errInvalidConfig)
	case c.MaxListLimit <= 0:
		return fmt.Errorf("%w: maxListLimit must be positive", errInvalidConfig)
	}
	return nil
}

// Parse returns a Config from the provided json encoded bytes. Fields missing
// from the bytes keep their default value. Empty bytes yield the default
// config.
func Parse(b []byte) (Config, error) {
	c := DefaultConfig()
	if len(b) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errInvalidConfig, err)
	}
	return c, c.Verify()
}
