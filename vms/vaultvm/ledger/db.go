// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"errors"
	"fmt"

	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/ids"

	safemath "github.com/luxfi/math"
)

const (
	CodecVersion = 0

	maxAssetSize = 1 << 14
)

var (
	_ Ledger = (*DB)(nil)

	Codec codec.Manager

	assetPrefix   = []byte("asset")
	balancePrefix = []byte("balance")
)

func init() {
	Codec = codec.NewManager(maxAssetSize)
	lc := linearcodec.NewDefault()
	if err := Codec.RegisterCodec(CodecVersion, lc); err != nil {
		panic(err)
	}
}

// DB is a Ledger persisted in a key-value database. Wrapping the database in
// a versiondb lets callers stage ledger writes and commit or abort them
// together with their own.
type DB struct {
	assets   database.Database
	balances database.Database
}

func New(db database.Database) *DB {
	return &DB{
		assets:   prefixdb.New(assetPrefix, db),
		balances: prefixdb.New(balancePrefix, db),
	}
}

func (l *DB) CreateAsset(assetID ids.ID, decimals uint8, mintAuthority, freezeAuthority ids.ShortID) error {
	has, err := l.assets.Has(assetID[:])
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("%w: %s", ErrAssetExists, assetID)
	}
	return l.putAsset(&Asset{
		ID:              assetID,
		Decimals:        decimals,
		MintAuthority:   mintAuthority,
		FreezeAuthority: freezeAuthority,
	})
}

func (l *DB) GetAsset(assetID ids.ID) (*Asset, error) {
	b, err := l.assets.Get(assetID[:])
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
	}
	if err != nil {
		return nil, err
	}

	asset := &Asset{}
	if _, err := Codec.Unmarshal(b, asset); err != nil {
		return nil, fmt.Errorf("couldn't parse asset %s: %w", assetID, err)
	}
	return asset, nil
}

func (l *DB) Balance(assetID ids.ID, owner ids.ShortID) (uint64, error) {
	if _, err := l.GetAsset(assetID); err != nil {
		return 0, err
	}
	return l.balance(AccountID(owner, assetID))
}

func (l *DB) Transfer(assetID ids.ID, from, to ids.ShortID, amount uint64, authority ids.ShortID) error {
	if authority != from {
		return fmt.Errorf("%w: %s cannot move funds of %s", ErrUnauthorized, authority, from)
	}
	if _, err := l.GetAsset(assetID); err != nil {
		return err
	}

	fromAccount := AccountID(from, assetID)
	fromBalance, err := l.balance(fromAccount)
	if err != nil {
		return err
	}
	newFromBalance, err := safemath.Sub(fromBalance, amount)
	if err != nil {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, fromBalance, amount)
	}
	if from == to {
		return nil
	}

	toAccount := AccountID(to, assetID)
	toBalance, err := l.balance(toAccount)
	if err != nil {
		return err
	}
	newToBalance, err := safemath.Add(toBalance, amount)
	if err != nil {
		return err
	}

	if err := database.PutUInt64(l.balances, fromAccount[:], newFromBalance); err != nil {
		return err
	}
	return database.PutUInt64(l.balances, toAccount[:], newToBalance)
}

func (l *DB) Mint(assetID ids.ID, to ids.ShortID, amount uint64, authority ids.ShortID) error {
	asset, err := l.GetAsset(assetID)
	if err != nil {
		return err
	}
	if authority != asset.MintAuthority {
		return fmt.Errorf("%w: %s is not the mint authority of %s", ErrUnauthorized, authority, assetID)
	}

	newSupply, err := safemath.Add(asset.Supply, amount)
	if err != nil {
		return err
	}
	account := AccountID(to, assetID)
	balance, err := l.balance(account)
	if err != nil {
		return err
	}
	newBalance, err := safemath.Add(balance, amount)
	if err != nil {
		return err
	}

	asset.Supply = newSupply
	if err := l.putAsset(asset); err != nil {
		return err
	}
	return database.PutUInt64(l.balances, account[:], newBalance)
}

func (l *DB) Burn(assetID ids.ID, from ids.ShortID, amount uint64, authority ids.ShortID) error {
	if authority != from {
		return fmt.Errorf("%w: %s cannot burn funds of %s", ErrUnauthorized, authority, from)
	}
	asset, err := l.GetAsset(assetID)
	if err != nil {
		return err
	}

	account := AccountID(from, assetID)
	balance, err := l.balance(account)
	if err != nil {
		return err
	}
	newBalance, err := safemath.Sub(balance, amount)
	if err != nil {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, balance, amount)
	}
	newSupply, err := safemath.Sub(asset.Supply, amount)
	if err != nil {
		return err
	}

	asset.Supply = newSupply
	if err := l.putAsset(asset); err != nil {
		return err
	}
	return database.PutUInt64(l.balances, account[:], newBalance)
}

func (l *DB) SetMetadata(assetID ids.ID, metadata Metadata, authority ids.ShortID) error {
	asset, err := l.GetAsset(assetID)
	if err != nil {
		return err
	}
	if authority != asset.MintAuthority {
		return fmt.Errorf("%w: %s is not the mint authority of %s", ErrUnauthorized, authority, assetID)
	}
	if asset.HasMetadata {
		return fmt.Errorf("%w: %s", ErrMetadataExists, assetID)
	}

	asset.HasMetadata = true
	asset.Metadata = metadata
	return l.putAsset(asset)
}

func (l *DB) balance(account ids.ID) (uint64, error) {
	balance, err := database.GetUInt64(l.balances, account[:])
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	return balance, err
}

func (l *DB) putAsset(asset *Asset) error {
	b, err := Codec.Marshal(CodecVersion, asset)
	if err != nil {
		return err
	}
	return l.assets.Put(asset.ID[:], b)
}
