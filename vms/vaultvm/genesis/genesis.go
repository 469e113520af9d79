// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package genesis defines the underlying assets a vault chain starts with.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/luxfi/crypto/hash"
	"github.com/luxfi/ids"

	avajson "github.com/luxfi/vaultvm/utils/json"
	"github.com/luxfi/vaultvm/vms/vaultvm/ledger"
)

const assetIDPrefix = "underlying:"

var (
	errNoSymbol        = errors.New("asset symbol is empty")
	errDuplicateSymbol = errors.New("duplicate asset symbol")
	errZeroAllocation  = errors.New("allocation amount must be positive")
)

type Genesis struct {
	Assets []Asset `json:"assets"`
}

// Asset is an underlying asset minted at genesis.
type Asset struct {
	Name          string       `json:"name"`
	Symbol        string       `json:"symbol"`
	URI           string       `json:"uri"`
	Decimals      uint8        `json:"decimals"`
	MintAuthority ids.ShortID  `json:"mintAuthority"`
	Allocations   []Allocation `json:"allocations"`
}

type Allocation struct {
	Owner  ids.ShortID    `json:"owner"`
	Amount avajson.Uint64 `json:"amount"`
}

// AssetID returns the identity of the genesis asset with the given symbol.
func AssetID(symbol string) ids.ID {
	return hash.ComputeHash256Array([]byte(assetIDPrefix + symbol))
}

// Parse decodes and verifies genesis bytes.
func Parse(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("couldn't parse genesis: %w", err)
	}
	return g, g.Verify()
}

func (g *Genesis) Verify() error {
	symbols := make(map[string]struct{}, len(g.Assets))
	for _, asset := range g.Assets {
		if asset.Symbol == "" {
			return errNoSymbol
		}
		if _, ok := symbols[asset.Symbol]; ok {
			return fmt.Errorf("%w: %s", errDuplicateSymbol, asset.Symbol)
		}
		symbols[asset.Symbol] = struct{}{}

		for _, allocation := range asset.Allocations {
			if allocation.Amount == 0 {
				return fmt.Errorf("%w: %s to %s", errZeroAllocation, asset.Symbol, allocation.Owner)
			}
		}
	}
	return nil
}

// Apply creates every asset in l and mints its allocations.
func (g *Genesis) Apply(l ledger.Ledger) error {
	for _, asset := range g.Assets {
		assetID := AssetID(asset.Symbol)
		if err := l.CreateAsset(assetID, asset.Decimals, asset.MintAuthority, asset.MintAuthority); err != nil {
			return fmt.Errorf("couldn't create %s: %w", asset.Symbol, err)
		}
		err := l.SetMetadata(assetID, ledger.Metadata{
			Name:   asset.Name,
			Symbol: asset.Symbol,
			URI:    asset.URI,
		}, asset.MintAuthority)
		if err != nil {
			return err
		}
		for _, allocation := range asset.Allocations {
			if err := l.Mint(assetID, allocation.Owner, uint64(allocation.Amount), asset.MintAuthority); err != nil {
				return fmt.Errorf("couldn't allocate %s to %s: %w", asset.Symbol, allocation.Owner, err)
			}
		}
	}
	return nil
}
