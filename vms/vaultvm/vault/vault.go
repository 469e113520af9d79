// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vault defines the conditional-claim vault record, its status
// machine and the deterministic derivation of vault and asset identities.
package vault

import (
	"fmt"

	"github.com/luxfi/ids"
)

// Vault escrows an underlying asset against two mutually exclusive derivative
// assets. Exactly one of them becomes redeemable once the vault resolves; both
// become redeemable if it is cancelled instead.
type Vault struct {
	ID     ids.ID
	Status Status

	Claim  string
	DocRef string

	// Outcome is set exactly once, on resolution.
	Outcome *bool

	SettlementAuthority ids.ShortID
	UnderlyingAsset     ids.ID
	UnderlyingHolding   ids.ID
	OnFinalizeAsset     ids.ID
	OnRevertAsset       ids.ID
	Decimals            uint8

	TotalPositiveMinted uint64
	TotalNegativeMinted uint64
	TotalMerged         uint64

	CreatedAt   uint64
	DisputedAt  *uint64
	ResolvedAt  *uint64
	CancelledAt *uint64

	Bump             byte
	MetadataAttached bool
}

// Owner is the ledger account the vault holds custody under.
func (v *Vault) Owner() ids.ShortID {
	return Owner(v.ID)
}

// Signer recomputes the vault's authority from its stored seeds. It is never
// persisted.
func (v *Vault) Signer() (ids.ShortID, error) {
	addr, err := CreateAddress(v.Bump, Seeds(v.SettlementAuthority, v.UnderlyingAsset, v.DocRef)...)
	if err != nil {
		return ids.ShortEmpty, fmt.Errorf("%w: %w", ErrSignerMismatch, err)
	}
	if addr != v.ID {
		return ids.ShortEmpty, fmt.Errorf("%w: derived %s, stored %s", ErrSignerMismatch, addr, v.ID)
	}
	return Owner(addr), nil
}

// AssetFor returns the derivative asset a side mints.
func (v *Vault) AssetFor(side Side) (ids.ID, error) {
	switch side {
	case Positive:
		return v.OnFinalizeAsset, nil
	case Negative:
		return v.OnRevertAsset, nil
	default:
		return ids.Empty, fmt.Errorf("%w: %d", ErrInvalidSide, side)
	}
}

// Clone returns a deep copy of v.
func (v *Vault) Clone() *Vault {
	c := *v
	c.Outcome = cloneBool(v.Outcome)
	c.DisputedAt = cloneUint64(v.DisputedAt)
	c.ResolvedAt = cloneUint64(v.ResolvedAt)
	c.CancelledAt = cloneUint64(v.CancelledAt)
	return &c
}

// Verify checks the structural invariants of the record. It does not consult
// ledger balances.
func (v *Vault) Verify() error {
	switch {
	case v.ID == ids.Empty:
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	case !v.Status.Valid():
		return fmt.Errorf("%w: status %d", ErrInvalidRecord, v.Status)
	case v.Outcome != nil && v.CancelledAt != nil:
		return fmt.Errorf("%w: both resolved and cancelled", ErrInvalidRecord)
	case (v.Status == Resolved) != (v.Outcome != nil):
		return fmt.Errorf("%w: outcome does not match status %s", ErrInvalidRecord, v.Status)
	case (v.Status == Resolved) != (v.ResolvedAt != nil):
		return fmt.Errorf("%w: resolution time does not match status %s", ErrInvalidRecord, v.Status)
	case (v.Status == Cancelled) != (v.CancelledAt != nil):
		return fmt.Errorf("%w: cancellation time does not match status %s", ErrInvalidRecord, v.Status)
	case v.Status == Disputed && v.DisputedAt == nil:
		return fmt.Errorf("%w: disputed without dispute time", ErrInvalidRecord)
	case v.TotalMerged > v.TotalPositiveMinted || v.TotalMerged > v.TotalNegativeMinted:
		return fmt.Errorf("%w: merged %d exceeds minted", ErrInvalidRecord, v.TotalMerged)
	case v.OnFinalizeAsset == v.OnRevertAsset:
		return fmt.Errorf("%w: derivative assets are not distinct", ErrInvalidRecord)
	}
	return nil
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

func cloneUint64(u *uint64) *uint64 {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
