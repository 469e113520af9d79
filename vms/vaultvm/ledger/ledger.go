// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger tracks asset classes, supplies and balances. Vaults consume
// it only through the Ledger interface.
package ledger

import (
	"errors"

	"github.com/luxfi/crypto/hash"
	"github.com/luxfi/ids"
)

var (
	ErrAssetNotFound       = errors.New("asset not found")
	ErrAssetExists         = errors.New("asset already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrMetadataExists      = errors.New("asset metadata already set")
)

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/ledger.go -mock_names=Ledger=Ledger . Ledger

// Ledger moves assets between accounts. Every call is synchronous and either
// applies fully or returns an error without side effects.
type Ledger interface {
	// CreateAsset registers a new asset class with zero supply.
	CreateAsset(assetID ids.ID, decimals uint8, mintAuthority, freezeAuthority ids.ShortID) error

	// GetAsset returns the current definition and supply of an asset.
	GetAsset(assetID ids.ID) (*Asset, error)

	// Balance returns the amount of assetID held by owner.
	Balance(assetID ids.ID, owner ids.ShortID) (uint64, error)

	// Transfer moves amount from one owner to another. authority must be
	// the sender.
	Transfer(assetID ids.ID, from, to ids.ShortID, amount uint64, authority ids.ShortID) error

	// Mint creates amount of new units for to. authority must be the asset's
	// mint authority.
	Mint(assetID ids.ID, to ids.ShortID, amount uint64, authority ids.ShortID) error

	// Burn destroys amount of from's units. authority must be from.
	Burn(assetID ids.ID, from ids.ShortID, amount uint64, authority ids.ShortID) error

	// SetMetadata attaches descriptive metadata to an asset. authority must be
	// the asset's mint authority.
	SetMetadata(assetID ids.ID, metadata Metadata, authority ids.ShortID) error
}

// Asset is an asset class tracked by the ledger.
type Asset struct {
	ID              ids.ID      `serialize:"true" json:"id"`
	Decimals        uint8       `serialize:"true" json:"decimals"`
	Supply          uint64      `serialize:"true" json:"supply"`
	MintAuthority   ids.ShortID `serialize:"true" json:"mintAuthority"`
	FreezeAuthority ids.ShortID `serialize:"true" json:"freezeAuthority"`
	HasMetadata     bool        `serialize:"true" json:"hasMetadata"`
	Metadata        Metadata    `serialize:"true" json:"metadata"`
}

// Metadata describes an asset to wallets and explorers.
type Metadata struct {
	Name   string `serialize:"true" json:"name"`
	Symbol string `serialize:"true" json:"symbol"`
	URI    string `serialize:"true" json:"uri"`
}

// AccountID returns the deterministic account that holds owner's units of
// assetID.
func AccountID(owner ids.ShortID, assetID ids.ID) ids.ID {
	preimage := make([]byte, 0, len(owner)+len(assetID))
	preimage = append(preimage, owner[:]...)
	preimage = append(preimage, assetID[:]...)
	return hash.ComputeHash256Array(preimage)
}
