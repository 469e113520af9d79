// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vaultvm implements a VM that escrows an underlying asset against a
// pair of conditional derivative assets, one redeemable if a claim is
// finalized and the other if it is reverted.
//
// Vault operations:
//   - initialize a vault for a claim and create its derivative assets
//   - mint either derivative one-for-one against deposited underlying
//   - merge matching amounts of both derivatives back into underlying
//   - resolve, dispute or cancel a vault as its settlement authority
//   - redeem winning derivatives after resolution, or both after cancellation
package vaultvm

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	vmcore "github.com/luxfi/vaultvm"
)

var (
	// ID is the unique identifier for the vault VM
	ID = ids.ID{'v', 'a', 'u', 'l', 't', 'v', 'm'}

	_ vmcore.Factory = (*Factory)(nil)
)

type Factory struct{}

func (*Factory) New(logger log.Logger) (vmcore.VM, error) {
	return &VM{log: logger}, nil
}
