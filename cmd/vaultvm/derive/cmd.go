// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package derive

import (
	"encoding/json"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/luxfi/ids"

	"github.com/luxfi/vaultvm/vms/vaultvm/ledger"
	"github.com/luxfi/vaultvm/vms/vaultvm/vault"
)

const (
	SettlementAuthorityKey = "settlement-authority"
	UnderlyingAssetKey     = "underlying-asset"
	DocRefKey              = "doc-ref"
	OutputKey              = "output"
)

// Addresses are the identities a vault receives on initialization.
type Addresses struct {
	VaultID           ids.ID      `json:"vaultID"`
	Bump              uint8       `json:"bump"`
	Owner             ids.ShortID `json:"owner"`
	UnderlyingHolding ids.ID      `json:"underlyingHolding"`
	OnFinalizeAsset   ids.ID      `json:"onFinalizeAsset"`
	OnRevertAsset     ids.ID      `json:"onRevertAsset"`
}

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "derive",
		Short: "Prints the addresses a vault would be created with",
		RunE:  deriveFunc,
	}
	flags := c.Flags()
	flags.String(SettlementAuthorityKey, "", "Settlement authority of the vault (required)")
	flags.String(UnderlyingAssetKey, "", "Underlying asset ID of the vault (required)")
	flags.String(DocRefKey, "", "Document reference of the claim")
	flags.String(OutputKey, "", "File to write the addresses to instead of stdout")
	_ = c.MarkFlagRequired(SettlementAuthorityKey)
	_ = c.MarkFlagRequired(UnderlyingAssetKey)
	return c
}

func deriveFunc(c *cobra.Command, _ []string) error {
	flags := c.Flags()

	authorityStr, err := flags.GetString(SettlementAuthorityKey)
	if err != nil {
		return err
	}
	authority, err := ids.ShortFromString(authorityStr)
	if err != nil {
		return err
	}

	underlyingStr, err := flags.GetString(UnderlyingAssetKey)
	if err != nil {
		return err
	}
	underlying, err := ids.FromString(underlyingStr)
	if err != nil {
		return err
	}

	docRef, err := flags.GetString(DocRefKey)
	if err != nil {
		return err
	}

	addrs, err := Derive(authority, underlying, docRef)
	if err != nil {
		return err
	}

	output, err := flags.GetString(OutputKey)
	if err != nil {
		return err
	}

	addrsJSON, err := json.MarshalIndent(addrs, "", "  ")
	if err != nil {
		return err
	}
	addrsJSON = append(addrsJSON, '\n')
	if output == "" {
		_, err = c.OutOrStdout().Write(addrsJSON)
		return err
	}
	// Written atomically.
	return renameio.WriteFile(output, addrsJSON, 0o644)
}

func Derive(authority ids.ShortID, underlying ids.ID, docRef string) (*Addresses, error) {
	vaultID, bump, err := vault.DeriveID(authority, underlying, docRef)
	if err != nil {
		return nil, err
	}
	onFinalize, onRevert, err := vault.DeriveAssets(vaultID)
	if err != nil {
		return nil, err
	}
	owner := vault.Owner(vaultID)
	return &Addresses{
		VaultID:           vaultID,
		Bump:              bump,
		Owner:             owner,
		UnderlyingHolding: ledger.AccountID(owner, underlying),
		OnFinalizeAsset:   onFinalize,
		OnRevertAsset:     onRevert,
	}, nil
}
