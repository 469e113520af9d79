// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state persists vault records and the asset ledger behind a single
// versioned database so that an operation's writes commit or abort as one.
package state

import (
	"errors"
	"fmt"

	"github.com/luxfi/cache"
	"github.com/luxfi/cache/lru"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/ids"

	"github.com/luxfi/vaultvm/vms/vaultvm/ledger"
	"github.com/luxfi/vaultvm/vms/vaultvm/vault"
)

var (
	_ State = (*state)(nil)

	vaultPrefix     = []byte("vault")
	ledgerPrefix    = []byte("ledger")
	singletonPrefix = []byte("singleton")

	initializedKey = []byte("initialized")
)

// Chain is the vault view operations read from and write to.
type Chain interface {
	GetVault(vaultID ids.ID) (*vault.Vault, error)
	PutVault(v *vault.Vault) error
}

// State is the full persistent state of the VM.
type State interface {
	Chain

	// Ledger shares the versioned database with the vault records.
	Ledger() ledger.Ledger

	// VaultIDs returns up to limit committed vault IDs, starting at start.
	VaultIDs(start ids.ID, limit int) ([]ids.ID, error)

	IsInitialized() (bool, error)
	SetInitialized() error

	// Commit writes all staged vault records and ledger changes to the
	// underlying database.
	Commit() error

	// Abort discards everything staged since the last commit.
	Abort()

	Close() error
}

type state struct {
	baseDB      *versiondb.Database
	vaultDB     database.Database
	singletonDB database.Database
	ledger      *ledger.DB

	vaultCache     cache.Cacher[ids.ID, *vault.Vault]
	modifiedVaults map[ids.ID]*vault.Vault
}

// New returns a State backed by db. Vault records are cached in an LRU of
// cacheSize entries; only committed records enter the cache.
func New(db database.Database, cacheSize int) State {
	baseDB := versiondb.New(db)
	return &state{
		baseDB:         baseDB,
		vaultDB:        prefixdb.New(vaultPrefix, baseDB),
		singletonDB:    prefixdb.New(singletonPrefix, baseDB),
		ledger:         ledger.New(prefixdb.New(ledgerPrefix, baseDB)),
		vaultCache:     lru.NewCache[ids.ID, *vault.Vault](cacheSize),
		modifiedVaults: make(map[ids.ID]*vault.Vault),
	}
}

// GetVault returns a copy of the vault; callers may mutate it freely and
// stage the result with PutVault.
func (s *state) GetVault(vaultID ids.ID) (*vault.Vault, error) {
	if v, ok := s.modifiedVaults[vaultID]; ok {
		return v.Clone(), nil
	}
	if v, ok := s.vaultCache.Get(vaultID); ok {
		return v.Clone(), nil
	}

	b, err := s.vaultDB.Get(vaultID[:])
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", vault.ErrVaultNotFound, vaultID)
	}
	if err != nil {
		return nil, err
	}

	v, err := vault.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse vault %s: %w", vaultID, err)
	}
	s.vaultCache.Put(vaultID, v)
	return v.Clone(), nil
}

func (s *state) PutVault(v *vault.Vault) error {
	if err := v.Verify(); err != nil {
		return err
	}
	s.modifiedVaults[v.ID] = v.Clone()
	return nil
}

func (s *state) Ledger() ledger.Ledger {
	return s.ledger
}

func (s *state) VaultIDs(start ids.ID, limit int) ([]ids.ID, error) {
	it := s.vaultDB.NewIteratorWithStart(start[:])
	defer it.Release()

	var vaultIDs []ids.ID
	for len(vaultIDs) < limit && it.Next() {
		vaultID, err := ids.ToID(it.Key())
		if err != nil {
			return nil, err
		}
		vaultIDs = append(vaultIDs, vaultID)
	}
	return vaultIDs, it.Error()
}

func (s *state) IsInitialized() (bool, error) {
	return s.singletonDB.Has(initializedKey)
}

func (s *state) SetInitialized() error {
	return s.singletonDB.Put(initializedKey, nil)
}

func (s *state) Commit() error {
	for vaultID, v := range s.modifiedVaults {
		b, err := vault.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to serialize vault %s: %w", vaultID, err)
		}
		if err := s.vaultDB.Put(vaultID[:], b); err != nil {
			return fmt.Errorf("failed to write vault %s: %w", vaultID, err)
		}
	}
	if err := s.baseDB.Commit(); err != nil {
		return err
	}
	for vaultID, v := range s.modifiedVaults {
		s.vaultCache.Put(vaultID, v)
	}
	clear(s.modifiedVaults)
	return nil
}

func (s *state) Abort() {
	clear(s.modifiedVaults)
	s.baseDB.Abort()
}

// Only the base database is closed; the prefixed views share its handle.
func (s *state) Close() error {
	return s.baseDB.Close()
}
