// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package executor applies vault operations against a state view and a token
// ledger. It performs no locking and no commits: callers wrap each operation
// in an atomic unit and abort it on any returned error or invariant panic.
package executor

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/vaultvm/utils/timer/mockable"
	"github.com/luxfi/vaultvm/vms/vaultvm/config"
	"github.com/luxfi/vaultvm/vms/vaultvm/ledger"
	"github.com/luxfi/vaultvm/vms/vaultvm/state"
	"github.com/luxfi/vaultvm/vms/vaultvm/vault"
)

// Operation names, shared with metrics and logs.
const (
	OpInitialize              = "initialize"
	OpResolve                 = "resolve"
	OpDispute                 = "dispute"
	OpCancel                  = "cancel"
	OpMint                    = "mint"
	OpMerge                   = "merge"
	OpRedeemAfterResolution   = "redeemAfterResolution"
	OpRedeemAfterCancellation = "redeemAfterCancellation"
	OpAttachMetadata          = "attachMetadata"
)

type Backend struct {
	Config config.Config
	Clock  *mockable.Clock
	Log    log.Logger
}

// Executor runs vault operations. State and Ledger are expected to share one
// atomic unit.
type Executor struct {
	*Backend

	State  state.Chain
	Ledger ledger.Ledger
}

// Refs names the accounts a caller expects an operation to touch. Empty
// fields are not checked.
type Refs struct {
	UnderlyingHolding ids.ID
	OnFinalizeAsset   ids.ID
	OnRevertAsset     ids.ID
}

func (r Refs) verify(v *vault.Vault) error {
	switch {
	case r.UnderlyingHolding != ids.Empty && r.UnderlyingHolding != v.UnderlyingHolding:
		return fmt.Errorf("%w: got %s, expected %s", vault.ErrInvalidVaultUnderlyingTokenAccount, r.UnderlyingHolding, v.UnderlyingHolding)
	case r.OnFinalizeAsset != ids.Empty && r.OnFinalizeAsset != v.OnFinalizeAsset:
		return fmt.Errorf("%w: got %s, expected %s", vault.ErrInvalidConditionalTokenMint, r.OnFinalizeAsset, v.OnFinalizeAsset)
	case r.OnRevertAsset != ids.Empty && r.OnRevertAsset != v.OnRevertAsset:
		return fmt.Errorf("%w: got %s, expected %s", vault.ErrInvalidConditionalTokenMint, r.OnRevertAsset, v.OnRevertAsset)
	}
	return nil
}

// custodian returns the vault's signing account. The depositor may not be the
// vault's own account.
func custodian(v *vault.Vault, depositor ids.ShortID) (ids.ShortID, error) {
	signer, err := v.Signer()
	if err != nil {
		return ids.ShortEmpty, err
	}
	if depositor == signer {
		return ids.ShortEmpty, fmt.Errorf("%w: depositor %s is the vault account", vault.ErrInvalidVaultUnderlyingTokenAccount, depositor)
	}
	return signer, nil
}

// ErrInvariantViolation is wrapped by every InvariantViolation.
var ErrInvariantViolation = errors.New("vault invariant violated")

// InvariantViolation is the panic value raised when a ledger postcondition
// does not hold after an operation's effects were applied. Nothing the caller
// supplied can cause it; the enclosing unit must be aborted.
type InvariantViolation struct {
	Op       string
	VaultID  ids.ID
	What     string
	Expected uint64
	Actual   uint64
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: %s on vault %s: %s expected %d, got %d",
		ErrInvariantViolation, e.Op, e.VaultID, e.What, e.Expected, e.Actual)
}

func (e *InvariantViolation) Unwrap() error {
	return ErrInvariantViolation
}

// invariantCheck compares ledger state against the values an operation must
// have produced.
type invariantCheck struct {
	ledger  ledger.Ledger
	op      string
	vaultID ids.ID
}

func (c invariantCheck) balance(what string, assetID ids.ID, owner ids.ShortID, expected uint64) error {
	actual, err := c.ledger.Balance(assetID, owner)
	if err != nil {
		return err
	}
	c.equal(what, expected, actual)
	return nil
}

func (c invariantCheck) supply(what string, assetID ids.ID, expected uint64) error {
	asset, err := c.ledger.GetAsset(assetID)
	if err != nil {
		return err
	}
	c.equal(what, expected, asset.Supply)
	return nil
}

func (c invariantCheck) equal(what string, expected, actual uint64) {
	if expected != actual {
		panic(&InvariantViolation{
			Op:       c.op,
			VaultID:  c.vaultID,
			What:     what,
			Expected: expected,
			Actual:   actual,
		})
	}
}

func (e *Executor) check(op string, vaultID ids.ID) invariantCheck {
	return invariantCheck{
		ledger:  e.Ledger,
		op:      op,
		vaultID: vaultID,
	}
}

func (e *Executor) supply(assetID ids.ID) (uint64, error) {
	asset, err := e.Ledger.GetAsset(assetID)
	if err != nil {
		return 0, err
	}
	return asset.Supply, nil
}
