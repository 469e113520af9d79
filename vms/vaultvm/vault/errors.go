// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import "errors"

var (
	ErrInsufficientUnderlyingTokens       = errors.New("insufficient underlying token balance to mint this amount of conditional tokens")
	ErrInvalidVaultUnderlyingTokenAccount = errors.New("underlying token account is not this vault's underlying token account")
	ErrInvalidConditionalTokenMint        = errors.New("conditional token asset is not this vault's conditional token asset")
	ErrCantRedeemConditionalTokens        = errors.New("vault needs to be resolved before conditional tokens can be redeemed for underlying tokens")
	ErrVaultAlreadySettled                = errors.New("once a vault has been settled, its status as either finalized or reverted cannot be changed")
	ErrMarketNotResolved                  = errors.New("the market is not resolved yet")
	ErrMarketAlreadyResolved              = errors.New("the market is already resolved")
	ErrMarketAlreadyDisputed              = errors.New("the market is already disputed")
	ErrMarketAlreadyCancelled             = errors.New("the market is already cancelled")
	ErrMarketNotCancelled                 = errors.New("the market is not cancelled")
	ErrMarketAlreadyLocked                = errors.New("the market is already locked")
	ErrMarketAlreadyPaused                = errors.New("the market is already paused")
	ErrMarketNotActive                    = errors.New("the market is not open for betting")

	ErrNotSettlementAuthority        = errors.New("caller is not the vault's settlement authority")
	ErrVaultNotFound                 = errors.New("vault not found")
	ErrVaultAlreadyExists            = errors.New("vault already exists")
	ErrInsufficientConditionalTokens = errors.New("insufficient conditional token balance")
	ErrZeroAmount                    = errors.New("amount must be greater than zero")
	ErrInvalidSide                   = errors.New("invalid side")
	ErrInvalidStatus                 = errors.New("invalid status")
	ErrClaimTooLong                  = errors.New("claim is too long")
	ErrDocRefTooLong                 = errors.New("document reference is too long")
	ErrMetadataAlreadyAttached       = errors.New("metadata already attached")
	ErrURITooLong                    = errors.New("metadata URI is too long")
	ErrInvalidRecord                 = errors.New("invalid vault record")
	ErrSignerMismatch                = errors.New("derived signer does not match vault")
)
