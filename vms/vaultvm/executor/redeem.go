// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	safemath "github.com/luxfi/math"

	"github.com/luxfi/vaultvm/vms/vaultvm/vault"
)

// position is a depositor's derivative holdings together with the supplies
// and vault custody they are measured against.
type position struct {
	onFinalize       uint64
	onRevert         uint64
	onFinalizeSupply uint64
	onRevertSupply   uint64
	holding          uint64
}

func (e *Executor) position(v *vault.Vault, depositor, signer ids.ShortID) (position, error) {
	var (
		p   position
		err error
	)
	if p.onFinalize, err = e.Ledger.Balance(v.OnFinalizeAsset, depositor); err != nil {
		return p, err
	}
	if p.onRevert, err = e.Ledger.Balance(v.OnRevertAsset, depositor); err != nil {
		return p, err
	}
	if p.onFinalizeSupply, err = e.supply(v.OnFinalizeAsset); err != nil {
		return p, err
	}
	if p.onRevertSupply, err = e.supply(v.OnRevertAsset); err != nil {
		return p, err
	}
	p.holding, err = e.Ledger.Balance(v.UnderlyingAsset, signer)
	return p, err
}

// RedeemAfterResolution burns the depositor's entire balance of both
// derivatives and pays out the winning side's balance in the underlying
// asset. The losing side is burned for nothing.
func (e *Executor) RedeemAfterResolution(depositor ids.ShortID, vaultID ids.ID, refs Refs) (uint64, error) {
	v, err := e.State.GetVault(vaultID)
	if err != nil {
		return 0, err
	}
	if err := refs.verify(v); err != nil {
		return 0, err
	}
	if v.Status == vault.Cancelled {
		return 0, vault.ErrCantRedeemConditionalTokens
	}
	if v.Outcome == nil {
		return 0, vault.ErrMarketNotResolved
	}
	signer, err := custodian(v, depositor)
	if err != nil {
		return 0, err
	}

	pre, err := e.position(v, depositor, signer)
	if err != nil {
		return 0, err
	}
	redeemable := pre.onRevert
	if *v.Outcome {
		redeemable = pre.onFinalize
	}

	if err := e.burnAndPay(v, depositor, signer, pre, redeemable); err != nil {
		return 0, err
	}

	check := e.check(OpRedeemAfterResolution, vaultID)
	if err := e.checkRedeemed(check, v, depositor, signer, pre, redeemable); err != nil {
		return 0, err
	}

	e.Log.Debug("redeemed conditional tokens",
		log.Stringer("vaultID", vaultID),
		log.Stringer("depositor", depositor),
		log.Bool("outcome", *v.Outcome),
		log.Uint64("redeemed", redeemable),
	)
	return redeemable, nil
}

// RedeemAfterCancellation burns both derivatives and refunds their sum in the
// underlying asset.
func (e *Executor) RedeemAfterCancellation(depositor ids.ShortID, vaultID ids.ID, refs Refs) (uint64, error) {
	v, err := e.State.GetVault(vaultID)
	if err != nil {
		return 0, err
	}
	if err := refs.verify(v); err != nil {
		return 0, err
	}
	if v.Status != vault.Cancelled {
		return 0, vault.ErrMarketNotCancelled
	}
	signer, err := custodian(v, depositor)
	if err != nil {
		return 0, err
	}

	pre, err := e.position(v, depositor, signer)
	if err != nil {
		return 0, err
	}
	redeemable, err := safemath.Add(pre.onFinalize, pre.onRevert)
	if err != nil {
		return 0, err
	}

	if err := e.burnAndPay(v, depositor, signer, pre, redeemable); err != nil {
		return 0, err
	}

	check := e.check(OpRedeemAfterCancellation, vaultID)
	if err := e.checkRedeemed(check, v, depositor, signer, pre, redeemable); err != nil {
		return 0, err
	}

	e.Log.Debug("refunded conditional tokens",
		log.Stringer("vaultID", vaultID),
		log.Stringer("depositor", depositor),
		log.Uint64("refunded", redeemable),
	)
	return redeemable, nil
}

func (e *Executor) burnAndPay(v *vault.Vault, depositor, signer ids.ShortID, pre position, payout uint64) error {
	if err := e.Ledger.Burn(v.OnFinalizeAsset, depositor, pre.onFinalize, depositor); err != nil {
		return err
	}
	if err := e.Ledger.Burn(v.OnRevertAsset, depositor, pre.onRevert, depositor); err != nil {
		return err
	}
	return e.Ledger.Transfer(v.UnderlyingAsset, signer, depositor, payout, signer)
}

func (*Executor) checkRedeemed(check invariantCheck, v *vault.Vault, depositor, signer ids.ShortID, pre position, payout uint64) error {
	if err := check.balance("depositor on-finalize balance", v.OnFinalizeAsset, depositor, 0); err != nil {
		return err
	}
	if err := check.balance("depositor on-revert balance", v.OnRevertAsset, depositor, 0); err != nil {
		return err
	}
	if err := check.supply("on-finalize supply", v.OnFinalizeAsset, pre.onFinalizeSupply-pre.onFinalize); err != nil {
		return err
	}
	if err := check.supply("on-revert supply", v.OnRevertAsset, pre.onRevertSupply-pre.onRevert); err != nil {
		return err
	}
	return check.balance("vault holding", v.UnderlyingAsset, signer, pre.holding-payout)
}
