// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vaultvm

import (
	"net/http"

	"github.com/luxfi/ids"

	"github.com/luxfi/vaultvm/utils/json"
	"github.com/luxfi/vaultvm/vms/vaultvm/executor"
	"github.com/luxfi/vaultvm/vms/vaultvm/ledger"
	"github.com/luxfi/vaultvm/vms/vaultvm/vault"
)

// Service is the JSON-RPC API of the vault VM. Callers identify themselves in
// the request; authenticating them is left to the transport.
type Service struct {
	vm *VM
}

type EmptyReply struct{}

// APIVault is the JSON form of a vault record.
type APIVault struct {
	ID     ids.ID       `json:"id"`
	Status vault.Status `json:"status"`

	Claim  string `json:"claim"`
	DocRef string `json:"docRef"`

	Outcome *bool `json:"outcome,omitempty"`

	SettlementAuthority ids.ShortID `json:"settlementAuthority"`
	UnderlyingAsset     ids.ID      `json:"underlyingAsset"`
	UnderlyingHolding   ids.ID      `json:"underlyingHolding"`
	OnFinalizeAsset     ids.ID      `json:"onFinalizeAsset"`
	OnRevertAsset       ids.ID      `json:"onRevertAsset"`
	Decimals            uint8       `json:"decimals"`

	TotalPositiveMinted json.Uint64 `json:"totalPositiveMinted"`
	TotalNegativeMinted json.Uint64 `json:"totalNegativeMinted"`
	TotalMerged         json.Uint64 `json:"totalMerged"`

	CreatedAt   json.Uint64  `json:"createdAt"`
	DisputedAt  *json.Uint64 `json:"disputedAt,omitempty"`
	ResolvedAt  *json.Uint64 `json:"resolvedAt,omitempty"`
	CancelledAt *json.Uint64 `json:"cancelledAt,omitempty"`

	Bump             uint8 `json:"bump"`
	MetadataAttached bool  `json:"metadataAttached"`
}

func newAPIVault(v *vault.Vault) APIVault {
	return APIVault{
		ID:                  v.ID,
		Status:              v.Status,
		Claim:               v.Claim,
		DocRef:              v.DocRef,
		Outcome:             v.Outcome,
		SettlementAuthority: v.SettlementAuthority,
		UnderlyingAsset:     v.UnderlyingAsset,
		UnderlyingHolding:   v.UnderlyingHolding,
		OnFinalizeAsset:     v.OnFinalizeAsset,
		OnRevertAsset:       v.OnRevertAsset,
		Decimals:            v.Decimals,
		TotalPositiveMinted: json.Uint64(v.TotalPositiveMinted),
		TotalNegativeMinted: json.Uint64(v.TotalNegativeMinted),
		TotalMerged:         json.Uint64(v.TotalMerged),
		CreatedAt:           json.Uint64(v.CreatedAt),
		DisputedAt:          apiTime(v.DisputedAt),
		ResolvedAt:          apiTime(v.ResolvedAt),
		CancelledAt:         apiTime(v.CancelledAt),
		Bump:                v.Bump,
		MetadataAttached:    v.MetadataAttached,
	}
}

func apiTime(t *uint64) *json.Uint64 {
	if t == nil {
		return nil
	}
	u := json.Uint64(*t)
	return &u
}

// APIRefs names the accounts the caller expects an operation to touch.
// Omitted fields are not checked.
type APIRefs struct {
	UnderlyingHolding ids.ID `json:"underlyingHolding"`
	OnFinalizeAsset   ids.ID `json:"onFinalizeAsset"`
	OnRevertAsset     ids.ID `json:"onRevertAsset"`
}

func (r APIRefs) refs() executor.Refs {
	return executor.Refs{
		UnderlyingHolding: r.UnderlyingHolding,
		OnFinalizeAsset:   r.OnFinalizeAsset,
		OnRevertAsset:     r.OnRevertAsset,
	}
}

type VaultReply struct {
	Vault APIVault `json:"vault"`
}

type InitializeVaultArgs struct {
	Claim               string      `json:"claim"`
	DocRef              string      `json:"docRef"`
	SettlementAuthority ids.ShortID `json:"settlementAuthority"`
	UnderlyingAsset     ids.ID      `json:"underlyingAsset"`
}

// InitializeVault creates a vault and its two derivative assets.
func (s *Service) InitializeVault(_ *http.Request, args *InitializeVaultArgs, reply *VaultReply) error {
	v, err := s.vm.InitializeVault(executor.InitializeArgs{
		Claim:               args.Claim,
		DocRef:              args.DocRef,
		SettlementAuthority: args.SettlementAuthority,
		UnderlyingAsset:     args.UnderlyingAsset,
	})
	if err != nil {
		return err
	}
	reply.Vault = newAPIVault(v)
	return nil
}

type SettlementArgs struct {
	Caller  ids.ShortID `json:"caller"`
	VaultID ids.ID      `json:"vaultID"`
}

type ResolveArgs struct {
	SettlementArgs
	Outcome bool `json:"outcome"`
}

func (s *Service) Resolve(_ *http.Request, args *ResolveArgs, _ *EmptyReply) error {
	return s.vm.Resolve(args.Caller, args.VaultID, args.Outcome)
}

func (s *Service) Dispute(_ *http.Request, args *SettlementArgs, _ *EmptyReply) error {
	return s.vm.Dispute(args.Caller, args.VaultID)
}

func (s *Service) Cancel(_ *http.Request, args *SettlementArgs, _ *EmptyReply) error {
	return s.vm.Cancel(args.Caller, args.VaultID)
}

type MintArgs struct {
	Depositor ids.ShortID `json:"depositor"`
	VaultID   ids.ID      `json:"vaultID"`
	Amount    json.Uint64 `json:"amount"`
	// Side is "positive" for on-finalize tokens or "negative" for on-revert
	// tokens.
	Side string  `json:"side"`
	Refs APIRefs `json:"refs"`
}

func (s *Service) Mint(_ *http.Request, args *MintArgs, _ *EmptyReply) error {
	side, err := vault.ParseSide(args.Side)
	if err != nil {
		return err
	}
	return s.vm.Mint(args.Depositor, args.VaultID, uint64(args.Amount), side, args.Refs.refs())
}

type MergeArgs struct {
	Depositor ids.ShortID `json:"depositor"`
	VaultID   ids.ID      `json:"vaultID"`
	Amount    json.Uint64 `json:"amount"`
	Refs      APIRefs     `json:"refs"`
}

// PayoutReply reports the underlying released to the depositor.
type PayoutReply struct {
	Payout json.Uint64 `json:"payout"`
}

func (s *Service) Merge(_ *http.Request, args *MergeArgs, reply *PayoutReply) error {
	payout, err := s.vm.Merge(args.Depositor, args.VaultID, uint64(args.Amount), args.Refs.refs())
	reply.Payout = json.Uint64(payout)
	return err
}

type RedeemArgs struct {
	Depositor ids.ShortID `json:"depositor"`
	VaultID   ids.ID      `json:"vaultID"`
	Refs      APIRefs     `json:"refs"`
}

func (s *Service) RedeemAfterResolution(_ *http.Request, args *RedeemArgs, reply *PayoutReply) error {
	payout, err := s.vm.RedeemAfterResolution(args.Depositor, args.VaultID, args.Refs.refs())
	reply.Payout = json.Uint64(payout)
	return err
}

func (s *Service) RedeemAfterCancellation(_ *http.Request, args *RedeemArgs, reply *PayoutReply) error {
	payout, err := s.vm.RedeemAfterCancellation(args.Depositor, args.VaultID, args.Refs.refs())
	reply.Payout = json.Uint64(payout)
	return err
}

type AttachMetadataArgs struct {
	SettlementArgs
	OnFinalizeURI string `json:"onFinalizeURI"`
	OnRevertURI   string `json:"onRevertURI"`
}

func (s *Service) AttachMetadata(_ *http.Request, args *AttachMetadataArgs, _ *EmptyReply) error {
	return s.vm.AttachMetadata(args.Caller, args.VaultID, executor.MetadataArgs{
		OnFinalizeURI: args.OnFinalizeURI,
		OnRevertURI:   args.OnRevertURI,
	})
}

type GetVaultArgs struct {
	VaultID ids.ID `json:"vaultID"`
}

func (s *Service) GetVault(_ *http.Request, args *GetVaultArgs, reply *VaultReply) error {
	v, err := s.vm.GetVault(args.VaultID)
	if err != nil {
		return err
	}
	reply.Vault = newAPIVault(v)
	return nil
}

type ListVaultsArgs struct {
	StartVaultID ids.ID `json:"startVaultID"`
	Limit        int    `json:"limit"`
}

type ListVaultsReply struct {
	Vaults []APIVault `json:"vaults"`
}

// ListVaults pages through vaults in ID order, starting at StartVaultID.
func (s *Service) ListVaults(_ *http.Request, args *ListVaultsArgs, reply *ListVaultsReply) error {
	vaults, err := s.vm.ListVaults(args.StartVaultID, args.Limit)
	if err != nil {
		return err
	}
	reply.Vaults = make([]APIVault, len(vaults))
	for i, v := range vaults {
		reply.Vaults[i] = newAPIVault(v)
	}
	return nil
}

type GetBalanceArgs struct {
	AssetID ids.ID      `json:"assetID"`
	Owner   ids.ShortID `json:"owner"`
}

type GetBalanceReply struct {
	Balance json.Uint64 `json:"balance"`
}

func (s *Service) GetBalance(_ *http.Request, args *GetBalanceArgs, reply *GetBalanceReply) error {
	balance, err := s.vm.Balance(args.AssetID, args.Owner)
	reply.Balance = json.Uint64(balance)
	return err
}

type GetAssetArgs struct {
	AssetID ids.ID `json:"assetID"`
}

type GetAssetReply struct {
	Asset *ledger.Asset `json:"asset"`
}

func (s *Service) GetAsset(_ *http.Request, args *GetAssetArgs, reply *GetAssetReply) error {
	asset, err := s.vm.GetAsset(args.AssetID)
	reply.Asset = asset
	return err
}

type DeriveVaultIDArgs struct {
	SettlementAuthority ids.ShortID `json:"settlementAuthority"`
	UnderlyingAsset     ids.ID      `json:"underlyingAsset"`
	DocRef              string      `json:"docRef"`
}

type DeriveVaultIDReply struct {
	VaultID           ids.ID `json:"vaultID"`
	Bump              uint8  `json:"bump"`
	UnderlyingHolding ids.ID `json:"underlyingHolding"`
	OnFinalizeAsset   ids.ID `json:"onFinalizeAsset"`
	OnRevertAsset     ids.ID `json:"onRevertAsset"`
}

// DeriveVaultID computes the identities a vault would have without touching
// state.
func (*Service) DeriveVaultID(_ *http.Request, args *DeriveVaultIDArgs, reply *DeriveVaultIDReply) error {
	vaultID, bump, err := vault.DeriveID(args.SettlementAuthority, args.UnderlyingAsset, args.DocRef)
	if err != nil {
		return err
	}
	onFinalize, onRevert, err := vault.DeriveAssets(vaultID)
	if err != nil {
		return err
	}
	reply.VaultID = vaultID
	reply.Bump = bump
	reply.UnderlyingHolding = ledger.AccountID(vault.Owner(vaultID), args.UnderlyingAsset)
	reply.OnFinalizeAsset = onFinalize
	reply.OnRevertAsset = onRevert
	return nil
}

type HealthReply struct {
	Healthy bool        `json:"healthy"`
	Details interface{} `json:"details"`
}

func (s *Service) Health(r *http.Request, _ *struct{}, reply *HealthReply) error {
	details, err := s.vm.HealthCheck(r.Context())
	reply.Healthy = err == nil
	reply.Details = details
	return nil
}
