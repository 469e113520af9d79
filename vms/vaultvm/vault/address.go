// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/luxfi/crypto/hash"
	"github.com/luxfi/ids"
)

const (
	VaultSeed      = "conditional_vault"
	OnFinalizeSeed = "conditional_on_finalize_mint"
	OnRevertSeed   = "conditional_on_revert_mint"

	derivationMarker = "ProgramDerivedAddress"
)

var (
	ErrOnCurve      = errors.New("derived address is a valid curve point")
	ErrNoViableBump = errors.New("no bump produced an off-curve address")
)

// CreateAddress hashes seeds and bump into an address. Addresses that decode
// as a secp256k1 public key are rejected so that no private key can ever sign
// for a derived account.
func CreateAddress(bump byte, seeds ...[]byte) (ids.ID, error) {
	size := len(derivationMarker) + 1
	for _, seed := range seeds {
		size += len(seed)
	}
	preimage := make([]byte, 0, size)
	for _, seed := range seeds {
		preimage = append(preimage, seed...)
	}
	preimage = append(preimage, bump)
	preimage = append(preimage, derivationMarker...)

	addr := ids.ID(hash.ComputeHash256Array(preimage))
	if onCurve(addr) {
		return ids.Empty, ErrOnCurve
	}
	return addr, nil
}

// FindAddress searches bumps from 255 down to 0 and returns the first
// off-curve address along with the bump that produced it.
func FindAddress(seeds ...[]byte) (ids.ID, byte, error) {
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateAddress(byte(bump), seeds...)
		if err == nil {
			return addr, byte(bump), nil
		}
	}
	return ids.Empty, 0, ErrNoViableBump
}

func onCurve(addr ids.ID) bool {
	compressed := make([]byte, 0, 1+len(addr))
	compressed = append(compressed, secp256k1.PubKeyFormatCompressedEven)
	compressed = append(compressed, addr[:]...)
	_, err := secp256k1.ParsePubKey(compressed)
	return err == nil
}

// Seeds returns the derivation seeds of a vault.
func Seeds(settlementAuthority ids.ShortID, underlyingAsset ids.ID, docRef string) [][]byte {
	return [][]byte{
		[]byte(VaultSeed),
		settlementAuthority[:],
		underlyingAsset[:],
		hash.ComputeHash256([]byte(docRef)),
	}
}

// DeriveID returns the identity a vault with these inputs is stored under.
func DeriveID(settlementAuthority ids.ShortID, underlyingAsset ids.ID, docRef string) (ids.ID, byte, error) {
	return FindAddress(Seeds(settlementAuthority, underlyingAsset, docRef)...)
}

// DeriveAssets returns the on-finalize and on-revert asset IDs of a vault.
func DeriveAssets(vaultID ids.ID) (ids.ID, ids.ID, error) {
	onFinalize, _, err := FindAddress([]byte(OnFinalizeSeed), vaultID[:])
	if err != nil {
		return ids.Empty, ids.Empty, err
	}
	onRevert, _, err := FindAddress([]byte(OnRevertSeed), vaultID[:])
	if err != nil {
		return ids.Empty, ids.Empty, err
	}
	return onFinalize, onRevert, nil
}

// Owner returns the ledger account controlled by a derived address.
func Owner(addr ids.ID) ids.ShortID {
	var owner ids.ShortID
	copy(owner[:], addr[:])
	return owner
}
