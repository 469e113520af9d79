// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"

	"github.com/luxfi/vaultvm/vms/vaultvm/vault"
)

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()

	authority := ids.GenerateTestShortID()
	underlying := ids.GenerateTestID()
	id, bump, err := vault.DeriveID(authority, underlying, "doc")
	require.NoError(t, err)
	onFinalize, onRevert, err := vault.DeriveAssets(id)
	require.NoError(t, err)

	return &vault.Vault{
		ID:                  id,
		Status:              vault.Active,
		Claim:               "claim",
		DocRef:              "doc",
		SettlementAuthority: authority,
		UnderlyingAsset:     underlying,
		OnFinalizeAsset:     onFinalize,
		OnRevertAsset:       onRevert,
		Decimals:            9,
		CreatedAt:           42,
		Bump:                bump,
	}
}

func TestGetVaultNotFound(t *testing.T) {
	s := New(memdb.New(), 16)
	_, err := s.GetVault(ids.GenerateTestID())
	require.ErrorIs(t, err, vault.ErrVaultNotFound)
}

func TestPutVaultCommit(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	s := New(db, 16)
	v := newTestVault(t)

	require.NoError(s.PutVault(v))

	staged, err := s.GetVault(v.ID)
	require.NoError(err)
	require.Equal(v, staged)

	require.NoError(s.Commit())

	reloaded, err := New(db, 16).GetVault(v.ID)
	require.NoError(err)
	require.Equal(v, reloaded)
}

func TestPutVaultRejectsInvalid(t *testing.T) {
	require := require.New(t)

	s := New(memdb.New(), 16)
	v := newTestVault(t)
	v.Status = vault.Resolved

	err := s.PutVault(v)
	require.ErrorIs(err, vault.ErrInvalidRecord)
}

func TestAbort(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	s := New(db, 16)
	v := newTestVault(t)
	require.NoError(s.PutVault(v))
	require.NoError(s.Commit())

	updated := v.Clone()
	updated.TotalPositiveMinted = 100
	require.NoError(s.PutVault(updated))

	l := s.Ledger()
	minter := ids.GenerateTestShortID()
	require.NoError(l.CreateAsset(v.UnderlyingAsset, 9, minter, minter))

	s.Abort()

	got, err := s.GetVault(v.ID)
	require.NoError(err)
	require.Zero(got.TotalPositiveMinted)

	_, err = l.GetAsset(v.UnderlyingAsset)
	require.Error(err)

	reloaded, err := New(db, 16).GetVault(v.ID)
	require.NoError(err)
	require.Zero(reloaded.TotalPositiveMinted)
}

func TestGetVaultReturnsCopy(t *testing.T) {
	require := require.New(t)

	s := New(memdb.New(), 16)
	v := newTestVault(t)
	require.NoError(s.PutVault(v))
	require.NoError(s.Commit())

	got, err := s.GetVault(v.ID)
	require.NoError(err)
	got.TotalNegativeMinted = 7

	again, err := s.GetVault(v.ID)
	require.NoError(err)
	require.Zero(again.TotalNegativeMinted)
}

func TestVaultIDs(t *testing.T) {
	require := require.New(t)

	s := New(memdb.New(), 16)
	expected := make(map[ids.ID]struct{})
	for range 3 {
		v := newTestVault(t)
		require.NoError(s.PutVault(v))
		expected[v.ID] = struct{}{}
	}
	require.NoError(s.Commit())

	vaultIDs, err := s.VaultIDs(ids.Empty, 10)
	require.NoError(err)
	require.Len(vaultIDs, 3)
	for _, vaultID := range vaultIDs {
		require.Contains(expected, vaultID)
	}

	limited, err := s.VaultIDs(ids.Empty, 2)
	require.NoError(err)
	require.Len(limited, 2)
}

func TestInitialized(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	s := New(db, 16)

	initialized, err := s.IsInitialized()
	require.NoError(err)
	require.False(initialized)

	require.NoError(s.SetInitialized())
	require.NoError(s.Commit())

	initialized, err = New(db, 16).IsInitialized()
	require.NoError(err)
	require.True(initialized)
}

func TestClose(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	s := New(db, 16)
	require.NoError(s.PutVault(newTestVault(t)))
	require.NoError(s.Commit())
	require.NoError(s.Close())

	// The caller's database stays open.
	require.NoError(db.Put([]byte("k"), []byte("v")))
}
