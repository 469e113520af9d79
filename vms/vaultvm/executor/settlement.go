// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/vaultvm/vms/vaultvm/ledger"
	"github.com/luxfi/vaultvm/vms/vaultvm/vault"
)

type InitializeArgs struct {
	Claim               string
	DocRef              string
	SettlementAuthority ids.ShortID
	UnderlyingAsset     ids.ID
}

// InitializeVault creates an Active vault for the claim together with its two
// derivative asset classes. The vault's derived account is the mint and freeze
// authority of both classes.
func (e *Executor) InitializeVault(args InitializeArgs) (*vault.Vault, error) {
	if len(args.Claim) > e.Config.MaxClaimLen {
		return nil, fmt.Errorf("%w: %d > %d", vault.ErrClaimTooLong, len(args.Claim), e.Config.MaxClaimLen)
	}
	if len(args.DocRef) > e.Config.MaxDocRefLen {
		return nil, fmt.Errorf("%w: %d > %d", vault.ErrDocRefTooLong, len(args.DocRef), e.Config.MaxDocRefLen)
	}

	vaultID, bump, err := vault.DeriveID(args.SettlementAuthority, args.UnderlyingAsset, args.DocRef)
	if err != nil {
		return nil, err
	}
	switch _, err := e.State.GetVault(vaultID); {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", vault.ErrVaultAlreadyExists, vaultID)
	case !errors.Is(err, vault.ErrVaultNotFound):
		return nil, err
	}

	underlying, err := e.Ledger.GetAsset(args.UnderlyingAsset)
	if err != nil {
		return nil, err
	}

	onFinalize, onRevert, err := vault.DeriveAssets(vaultID)
	if err != nil {
		return nil, err
	}
	owner := vault.Owner(vaultID)
	if err := e.Ledger.CreateAsset(onFinalize, underlying.Decimals, owner, owner); err != nil {
		return nil, fmt.Errorf("couldn't create on-finalize asset: %w", err)
	}
	if err := e.Ledger.CreateAsset(onRevert, underlying.Decimals, owner, owner); err != nil {
		return nil, fmt.Errorf("couldn't create on-revert asset: %w", err)
	}

	v := &vault.Vault{
		ID:                  vaultID,
		Status:              vault.Active,
		Claim:               args.Claim,
		DocRef:              args.DocRef,
		SettlementAuthority: args.SettlementAuthority,
		UnderlyingAsset:     args.UnderlyingAsset,
		UnderlyingHolding:   ledger.AccountID(owner, args.UnderlyingAsset),
		OnFinalizeAsset:     onFinalize,
		OnRevertAsset:       onRevert,
		Decimals:            underlying.Decimals,
		CreatedAt:           e.Clock.Unix(),
		Bump:                bump,
	}
	if err := e.State.PutVault(v); err != nil {
		return nil, err
	}

	e.Log.Info("initialized vault",
		log.Stringer("vaultID", vaultID),
		log.Stringer("settlementAuthority", args.SettlementAuthority),
		log.Stringer("underlyingAsset", args.UnderlyingAsset),
		log.Stringer("onFinalizeAsset", onFinalize),
		log.Stringer("onRevertAsset", onRevert),
	)
	return v, nil
}

// Resolve records the outcome and makes the winning derivative redeemable.
func (e *Executor) Resolve(caller ids.ShortID, vaultID ids.ID, outcome bool) error {
	v, err := e.settleable(caller, vaultID)
	if err != nil {
		return err
	}
	if err := vault.ValidateResolve(v.Status); err != nil {
		return err
	}

	now := e.Clock.Unix()
	v.Status = vault.Resolved
	v.Outcome = &outcome
	v.ResolvedAt = &now
	if err := e.State.PutVault(v); err != nil {
		return err
	}

	e.Log.Info("resolved vault",
		log.Stringer("vaultID", vaultID),
		log.Bool("outcome", outcome),
	)
	return nil
}

// Dispute flags the vault as contested. It stays settleable.
func (e *Executor) Dispute(caller ids.ShortID, vaultID ids.ID) error {
	v, err := e.settleable(caller, vaultID)
	if err != nil {
		return err
	}
	if err := vault.ValidateDispute(v.Status); err != nil {
		return err
	}

	now := e.Clock.Unix()
	v.Status = vault.Disputed
	if v.DisputedAt == nil {
		v.DisputedAt = &now
	}
	if err := e.State.PutVault(v); err != nil {
		return err
	}

	e.Log.Info("disputed vault",
		log.Stringer("vaultID", vaultID),
	)
	return nil
}

// Cancel makes both derivatives redeemable 1:1 for a full refund.
func (e *Executor) Cancel(caller ids.ShortID, vaultID ids.ID) error {
	v, err := e.settleable(caller, vaultID)
	if err != nil {
		return err
	}
	if err := vault.ValidateCancel(v.Status); err != nil {
		return err
	}

	now := e.Clock.Unix()
	v.Status = vault.Cancelled
	v.CancelledAt = &now
	if err := e.State.PutVault(v); err != nil {
		return err
	}

	e.Log.Info("cancelled vault",
		log.Stringer("vaultID", vaultID),
	)
	return nil
}

type MetadataArgs struct {
	OnFinalizeURI string
	OnRevertURI   string
}

// AttachMetadata names both derivative assets after the underlying asset and
// points them at the supplied URIs. It may happen once, while the vault is
// Active.
func (e *Executor) AttachMetadata(caller ids.ShortID, vaultID ids.ID, args MetadataArgs) error {
	v, err := e.settleable(caller, vaultID)
	if err != nil {
		return err
	}
	if v.Status != vault.Active {
		return fmt.Errorf("%w: status is %s", vault.ErrMarketNotActive, v.Status)
	}
	if v.MetadataAttached {
		return vault.ErrMetadataAlreadyAttached
	}
	for _, uri := range []string{args.OnFinalizeURI, args.OnRevertURI} {
		if len(uri) > e.Config.MaxMetadataURILen {
			return fmt.Errorf("%w: %d > %d", vault.ErrURITooLong, len(uri), e.Config.MaxMetadataURILen)
		}
	}

	underlying, err := e.Ledger.GetAsset(v.UnderlyingAsset)
	if err != nil {
		return err
	}
	symbol := underlying.Metadata.Symbol
	signer, err := v.Signer()
	if err != nil {
		return err
	}

	err = e.Ledger.SetMetadata(v.OnFinalizeAsset, ledger.Metadata{
		Name:   "Conditional " + symbol + " on finalize",
		Symbol: "f" + symbol,
		URI:    args.OnFinalizeURI,
	}, signer)
	if err != nil {
		return err
	}
	err = e.Ledger.SetMetadata(v.OnRevertAsset, ledger.Metadata{
		Name:   "Conditional " + symbol + " on revert",
		Symbol: "r" + symbol,
		URI:    args.OnRevertURI,
	}, signer)
	if err != nil {
		return err
	}

	v.MetadataAttached = true
	return e.State.PutVault(v)
}

// settleable loads a vault and checks that caller is its settlement
// authority.
func (e *Executor) settleable(caller ids.ShortID, vaultID ids.ID) (*vault.Vault, error) {
	v, err := e.State.GetVault(vaultID)
	if err != nil {
		return nil, err
	}
	if caller != v.SettlementAuthority {
		return nil, fmt.Errorf("%w: %s", vault.ErrNotSettlementAuthority, caller)
	}
	return v, nil
}
