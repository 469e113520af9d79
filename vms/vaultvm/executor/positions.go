// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	safemath "github.com/luxfi/math"

	"github.com/luxfi/vaultvm/vms/vaultvm/vault"
)

// Mint deposits amount of the underlying asset into the vault's holding and
// mints the same amount of the chosen derivative to the depositor. Mint is
// accepted in every status.
func (e *Executor) Mint(depositor ids.ShortID, vaultID ids.ID, amount uint64, side vault.Side, refs Refs) error {
	if amount == 0 {
		return vault.ErrZeroAmount
	}
	v, err := e.State.GetVault(vaultID)
	if err != nil {
		return err
	}
	if err := refs.verify(v); err != nil {
		return err
	}
	assetID, err := v.AssetFor(side)
	if err != nil {
		return err
	}
	signer, err := custodian(v, depositor)
	if err != nil {
		return err
	}

	underlyingBalance, err := e.Ledger.Balance(v.UnderlyingAsset, depositor)
	if err != nil {
		return err
	}
	if underlyingBalance < amount {
		return fmt.Errorf("%w: have %d, need %d", vault.ErrInsufficientUnderlyingTokens, underlyingBalance, amount)
	}

	preHolding, err := e.Ledger.Balance(v.UnderlyingAsset, signer)
	if err != nil {
		return err
	}
	preUser, err := e.Ledger.Balance(assetID, depositor)
	if err != nil {
		return err
	}
	preSupply, err := e.supply(assetID)
	if err != nil {
		return err
	}

	if err := e.Ledger.Transfer(v.UnderlyingAsset, depositor, signer, amount, depositor); err != nil {
		return err
	}
	if err := e.Ledger.Mint(assetID, depositor, amount, signer); err != nil {
		return err
	}

	switch side {
	case vault.Positive:
		v.TotalPositiveMinted, err = safemath.Add(v.TotalPositiveMinted, amount)
	case vault.Negative:
		v.TotalNegativeMinted, err = safemath.Add(v.TotalNegativeMinted, amount)
	}
	if err != nil {
		return err
	}

	check := e.check(OpMint, vaultID)
	if err := check.balance("vault holding", v.UnderlyingAsset, signer, preHolding+amount); err != nil {
		return err
	}
	if err := check.balance("depositor "+side.String()+" balance", assetID, depositor, preUser+amount); err != nil {
		return err
	}
	if err := check.supply(side.String()+" supply", assetID, preSupply+amount); err != nil {
		return err
	}

	if err := e.State.PutVault(v); err != nil {
		return err
	}

	e.Log.Debug("minted conditional tokens",
		log.Stringer("vaultID", vaultID),
		log.Stringer("depositor", depositor),
		log.Stringer("side", side),
		log.Uint64("amount", amount),
	)
	return nil
}

// Merge burns amount of both derivatives held by the depositor and returns the
// underlying backing them, one unit per burned token. It returns the amount
// paid out and is rejected once the vault is settled.
func (e *Executor) Merge(depositor ids.ShortID, vaultID ids.ID, amount uint64, refs Refs) (uint64, error) {
	if amount == 0 {
		return 0, vault.ErrZeroAmount
	}
	v, err := e.State.GetVault(vaultID)
	if err != nil {
		return 0, err
	}
	if err := refs.verify(v); err != nil {
		return 0, err
	}
	if err := vault.ValidateMerge(v.Status); err != nil {
		return 0, err
	}
	signer, err := custodian(v, depositor)
	if err != nil {
		return 0, err
	}

	preFinalize, err := e.Ledger.Balance(v.OnFinalizeAsset, depositor)
	if err != nil {
		return 0, err
	}
	preRevert, err := e.Ledger.Balance(v.OnRevertAsset, depositor)
	if err != nil {
		return 0, err
	}
	if preFinalize < amount || preRevert < amount {
		return 0, fmt.Errorf("%w: have %d on finalize and %d on revert, need %d of each",
			vault.ErrInsufficientConditionalTokens, preFinalize, preRevert, amount)
	}
	payout, err := safemath.Add(amount, amount)
	if err != nil {
		return 0, err
	}

	preHolding, err := e.Ledger.Balance(v.UnderlyingAsset, signer)
	if err != nil {
		return 0, err
	}
	preFinalizeSupply, err := e.supply(v.OnFinalizeAsset)
	if err != nil {
		return 0, err
	}
	preRevertSupply, err := e.supply(v.OnRevertAsset)
	if err != nil {
		return 0, err
	}

	if err := e.Ledger.Burn(v.OnFinalizeAsset, depositor, amount, depositor); err != nil {
		return 0, err
	}
	if err := e.Ledger.Burn(v.OnRevertAsset, depositor, amount, depositor); err != nil {
		return 0, err
	}
	if err := e.Ledger.Transfer(v.UnderlyingAsset, signer, depositor, payout, signer); err != nil {
		return 0, err
	}

	v.TotalMerged, err = safemath.Add(v.TotalMerged, amount)
	if err != nil {
		return 0, err
	}

	check := e.check(OpMerge, vaultID)
	if err := check.balance("depositor on-finalize balance", v.OnFinalizeAsset, depositor, preFinalize-amount); err != nil {
		return 0, err
	}
	if err := check.balance("depositor on-revert balance", v.OnRevertAsset, depositor, preRevert-amount); err != nil {
		return 0, err
	}
	if err := check.supply("on-finalize supply", v.OnFinalizeAsset, preFinalizeSupply-amount); err != nil {
		return 0, err
	}
	if err := check.supply("on-revert supply", v.OnRevertAsset, preRevertSupply-amount); err != nil {
		return 0, err
	}
	if err := check.balance("vault holding", v.UnderlyingAsset, signer, preHolding-payout); err != nil {
		return 0, err
	}

	if err := e.State.PutVault(v); err != nil {
		return 0, err
	}

	e.Log.Debug("merged conditional tokens",
		log.Stringer("vaultID", vaultID),
		log.Stringer("depositor", depositor),
		log.Uint64("amount", amount),
		log.Uint64("returned", payout),
	)
	return payout, nil
}
