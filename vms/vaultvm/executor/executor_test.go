// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/vaultvm/utils/timer/mockable"
	"github.com/luxfi/vaultvm/vms/vaultvm/config"
	"github.com/luxfi/vaultvm/vms/vaultvm/ledger"
	"github.com/luxfi/vaultvm/vms/vaultvm/state"
	"github.com/luxfi/vaultvm/vms/vaultvm/vault"
)

var testStartTime = time.Unix(1_700_000_000, 0)

type testEnv struct {
	executor   *Executor
	state      state.State
	ledger     ledger.Ledger
	clock      *mockable.Clock
	underlying ids.ID
	minter     ids.ShortID
	authority  ids.ShortID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	require := require.New(t)

	s := state.New(memdb.New(), 16)
	l := s.Ledger()

	underlying := ids.GenerateTestID()
	minter := ids.GenerateTestShortID()
	require.NoError(l.CreateAsset(underlying, 6, minter, minter))
	require.NoError(l.SetMetadata(underlying, ledger.Metadata{
		Name:   "USD Coin",
		Symbol: "USDC",
	}, minter))

	clk := &mockable.Clock{}
	clk.Set(testStartTime)

	return &testEnv{
		executor: &Executor{
			Backend: &Backend{
				Config: config.DefaultConfig(),
				Clock:  clk,
				Log:    log.NewNoOpLogger(),
			},
			State:  s,
			Ledger: l,
		},
		state:      s,
		ledger:     l,
		clock:      clk,
		underlying: underlying,
		minter:     minter,
		authority:  ids.GenerateTestShortID(),
	}
}

func (env *testEnv) fund(t *testing.T, owner ids.ShortID, amount uint64) {
	t.Helper()
	require.NoError(t, env.ledger.Mint(env.underlying, owner, amount, env.minter))
}

func (env *testEnv) initialize(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := env.executor.InitializeVault(InitializeArgs{
		Claim:               "the proposal passes",
		DocRef:              "ar://" + ids.GenerateTestID().String(),
		SettlementAuthority: env.authority,
		UnderlyingAsset:     env.underlying,
	})
	require.NoError(t, err)
	return v
}

func (env *testEnv) balance(t *testing.T, assetID ids.ID, owner ids.ShortID) uint64 {
	t.Helper()
	balance, err := env.ledger.Balance(assetID, owner)
	require.NoError(t, err)
	return balance
}

func (env *testEnv) supply(t *testing.T, assetID ids.ID) uint64 {
	t.Helper()
	asset, err := env.ledger.GetAsset(assetID)
	require.NoError(t, err)
	return asset.Supply
}

func (env *testEnv) vault(t *testing.T, vaultID ids.ID) *vault.Vault {
	t.Helper()
	v, err := env.state.GetVault(vaultID)
	require.NoError(t, err)
	return v
}

func TestInitializeVault(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)

	require.Equal(vault.Active, v.Status)
	require.Nil(v.Outcome)
	require.Equal(env.authority, v.SettlementAuthority)
	require.Equal(env.underlying, v.UnderlyingAsset)
	require.Equal(ledger.AccountID(v.Owner(), env.underlying), v.UnderlyingHolding)
	require.Equal(uint8(6), v.Decimals)
	require.Zero(v.TotalPositiveMinted)
	require.Zero(v.TotalNegativeMinted)
	require.Equal(uint64(testStartTime.Unix()), v.CreatedAt)
	require.Nil(v.DisputedAt)
	require.Nil(v.ResolvedAt)
	require.Nil(v.CancelledAt)

	for _, assetID := range []ids.ID{v.OnFinalizeAsset, v.OnRevertAsset} {
		asset, err := env.ledger.GetAsset(assetID)
		require.NoError(err)
		require.Equal(uint8(6), asset.Decimals)
		require.Zero(asset.Supply)
		require.Equal(v.Owner(), asset.MintAuthority)
		require.Equal(v.Owner(), asset.FreezeAuthority)
	}

	stored := env.vault(t, v.ID)
	require.Equal(v, stored)
}

func TestInitializeVaultErrors(t *testing.T) {
	env := newTestEnv(t)
	existing := env.initialize(t)

	tests := []struct {
		name        string
		args        InitializeArgs
		expectedErr error
	}{
		{
			name: "duplicate",
			args: InitializeArgs{
				Claim:               "another claim",
				DocRef:              existing.DocRef,
				SettlementAuthority: env.authority,
				UnderlyingAsset:     env.underlying,
			},
			expectedErr: vault.ErrVaultAlreadyExists,
		},
		{
			name: "unknown underlying",
			args: InitializeArgs{
				DocRef:              "doc",
				SettlementAuthority: env.authority,
				UnderlyingAsset:     ids.GenerateTestID(),
			},
			expectedErr: ledger.ErrAssetNotFound,
		},
		{
			name: "claim too long",
			args: InitializeArgs{
				Claim:               strings.Repeat("x", config.DefaultConfig().MaxClaimLen+1),
				DocRef:              "doc",
				SettlementAuthority: env.authority,
				UnderlyingAsset:     env.underlying,
			},
			expectedErr: vault.ErrClaimTooLong,
		},
		{
			name: "doc ref too long",
			args: InitializeArgs{
				DocRef:              strings.Repeat("x", config.DefaultConfig().MaxDocRefLen+1),
				SettlementAuthority: env.authority,
				UnderlyingAsset:     env.underlying,
			},
			expectedErr: vault.ErrDocRefTooLong,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := env.executor.InitializeVault(test.args)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestResolveAndRedeem(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)
	depositor := ids.GenerateTestShortID()
	env.fund(t, depositor, 1_000_000)

	require.NoError(env.executor.Mint(depositor, v.ID, 1_000_000, vault.Positive, Refs{}))
	require.Equal(uint64(1_000_000), env.balance(t, env.underlying, v.Owner()))
	require.Equal(uint64(1_000_000), env.supply(t, v.OnFinalizeAsset))
	require.Equal(uint64(1_000_000), env.vault(t, v.ID).TotalPositiveMinted)

	resolvedAt := testStartTime.Add(time.Hour)
	env.clock.Set(resolvedAt)
	require.NoError(env.executor.Resolve(env.authority, v.ID, true))

	resolved := env.vault(t, v.ID)
	require.Equal(vault.Resolved, resolved.Status)
	require.NotNil(resolved.Outcome)
	require.True(*resolved.Outcome)
	require.Equal(uint64(resolvedAt.Unix()), *resolved.ResolvedAt)

	redeemed, err := env.executor.RedeemAfterResolution(depositor, v.ID, Refs{})
	require.NoError(err)
	require.Equal(uint64(1_000_000), redeemed)
	require.Equal(uint64(1_000_000), env.balance(t, env.underlying, depositor))
	require.Zero(env.balance(t, v.OnFinalizeAsset, depositor))
	require.Zero(env.balance(t, v.OnRevertAsset, depositor))
	require.Zero(env.supply(t, v.OnFinalizeAsset))
	require.Zero(env.balance(t, env.underlying, v.Owner()))

	// Minted counters never decrease.
	require.Equal(uint64(1_000_000), env.vault(t, v.ID).TotalPositiveMinted)
}

func TestCancelAndRefund(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)
	depositor := ids.GenerateTestShortID()
	env.fund(t, depositor, 1_000)

	require.NoError(env.executor.Mint(depositor, v.ID, 500, vault.Positive, Refs{}))
	require.NoError(env.executor.Mint(depositor, v.ID, 500, vault.Negative, Refs{}))
	require.Zero(env.balance(t, env.underlying, depositor))

	require.NoError(env.executor.Cancel(env.authority, v.ID))
	cancelled := env.vault(t, v.ID)
	require.Equal(vault.Cancelled, cancelled.Status)
	require.NotNil(cancelled.CancelledAt)
	require.Nil(cancelled.Outcome)

	refunded, err := env.executor.RedeemAfterCancellation(depositor, v.ID, Refs{})
	require.NoError(err)
	require.Equal(uint64(1_000), refunded)
	require.Equal(uint64(1_000), env.balance(t, env.underlying, depositor))
	require.Zero(env.balance(t, v.OnFinalizeAsset, depositor))
	require.Zero(env.balance(t, v.OnRevertAsset, depositor))
	require.Zero(env.supply(t, v.OnFinalizeAsset))
	require.Zero(env.supply(t, v.OnRevertAsset))
}

func TestRedeemLosingSide(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)
	winner := ids.GenerateTestShortID()
	loser := ids.GenerateTestShortID()
	env.fund(t, winner, 300)
	env.fund(t, loser, 200)

	require.NoError(env.executor.Mint(winner, v.ID, 300, vault.Negative, Refs{}))
	require.NoError(env.executor.Mint(loser, v.ID, 200, vault.Positive, Refs{}))
	require.NoError(env.executor.Resolve(env.authority, v.ID, false))

	redeemed, err := env.executor.RedeemAfterResolution(loser, v.ID, Refs{})
	require.NoError(err)
	require.Zero(redeemed)
	require.Zero(env.balance(t, v.OnFinalizeAsset, loser))
	require.Zero(env.supply(t, v.OnFinalizeAsset))

	redeemed, err = env.executor.RedeemAfterResolution(winner, v.ID, Refs{})
	require.NoError(err)
	require.Equal(uint64(300), redeemed)

	// The losing deposit stays in custody.
	require.Equal(uint64(200), env.balance(t, env.underlying, v.Owner()))

	// Redeeming again pays nothing.
	redeemed, err = env.executor.RedeemAfterResolution(winner, v.ID, Refs{})
	require.NoError(err)
	require.Zero(redeemed)
}

func TestSettlementTransitions(t *testing.T) {
	type step func(e *Executor, authority ids.ShortID, vaultID ids.ID) error
	var (
		resolve = func(e *Executor, authority ids.ShortID, vaultID ids.ID) error {
			return e.Resolve(authority, vaultID, true)
		}
		dispute = func(e *Executor, authority ids.ShortID, vaultID ids.ID) error {
			return e.Dispute(authority, vaultID)
		}
		cancel = func(e *Executor, authority ids.ShortID, vaultID ids.ID) error {
			return e.Cancel(authority, vaultID)
		}
	)

	tests := []struct {
		name           string
		setup          []step
		attempt        step
		expectedErr    error
		expectedStatus vault.Status
	}{
		{"resolve active", nil, resolve, nil, vault.Resolved},
		{"dispute active", nil, dispute, nil, vault.Disputed},
		{"cancel active", nil, cancel, nil, vault.Cancelled},
		{"resolve disputed", []step{dispute}, resolve, nil, vault.Resolved},
		{"cancel disputed", []step{dispute}, cancel, nil, vault.Cancelled},
		{"resolve twice", []step{resolve}, resolve, vault.ErrMarketAlreadyResolved, vault.Resolved},
		{"resolve cancelled", []step{cancel}, resolve, vault.ErrMarketAlreadyCancelled, vault.Cancelled},
		{"dispute twice", []step{dispute}, dispute, vault.ErrMarketAlreadyDisputed, vault.Disputed},
		{"dispute resolved", []step{resolve}, dispute, vault.ErrMarketAlreadyResolved, vault.Resolved},
		{"dispute cancelled", []step{cancel}, dispute, vault.ErrMarketAlreadyCancelled, vault.Cancelled},
		{"cancel twice", []step{cancel}, cancel, vault.ErrMarketAlreadyCancelled, vault.Cancelled},
		{"cancel resolved", []step{resolve}, cancel, vault.ErrMarketAlreadyResolved, vault.Resolved},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			env := newTestEnv(t)
			v := env.initialize(t)
			for _, s := range test.setup {
				require.NoError(s(env.executor, env.authority, v.ID))
			}
			before := env.vault(t, v.ID)

			err := test.attempt(env.executor, env.authority, v.ID)
			require.ErrorIs(err, test.expectedErr)

			after := env.vault(t, v.ID)
			require.Equal(test.expectedStatus, after.Status)
			if test.expectedErr != nil {
				require.Equal(before, after)
			}
		})
	}
}

func TestSettlementRequiresAuthority(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)
	stranger := ids.GenerateTestShortID()

	require.ErrorIs(env.executor.Resolve(stranger, v.ID, true), vault.ErrNotSettlementAuthority)
	require.ErrorIs(env.executor.Dispute(stranger, v.ID), vault.ErrNotSettlementAuthority)
	require.ErrorIs(env.executor.Cancel(stranger, v.ID), vault.ErrNotSettlementAuthority)
	require.ErrorIs(env.executor.AttachMetadata(stranger, v.ID, MetadataArgs{}), vault.ErrNotSettlementAuthority)
	require.Equal(vault.Active, env.vault(t, v.ID).Status)
}

func TestDisputeTimestamp(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)

	disputedAt := testStartTime.Add(time.Minute)
	env.clock.Set(disputedAt)
	require.NoError(env.executor.Dispute(env.authority, v.ID))

	env.clock.Set(disputedAt.Add(time.Hour))
	require.NoError(env.executor.Resolve(env.authority, v.ID, false))

	resolved := env.vault(t, v.ID)
	require.Equal(uint64(disputedAt.Unix()), *resolved.DisputedAt)
	require.Equal(uint64(disputedAt.Add(time.Hour).Unix()), *resolved.ResolvedAt)
	require.False(*resolved.Outcome)
}

func TestMintErrors(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)
	depositor := ids.GenerateTestShortID()
	env.fund(t, depositor, 10)

	err := env.executor.Mint(depositor, v.ID, 11, vault.Positive, Refs{})
	require.ErrorIs(err, vault.ErrInsufficientUnderlyingTokens)

	err = env.executor.Mint(depositor, v.ID, 0, vault.Positive, Refs{})
	require.ErrorIs(err, vault.ErrZeroAmount)

	err = env.executor.Mint(depositor, v.ID, 1, vault.Side(3), Refs{})
	require.ErrorIs(err, vault.ErrInvalidSide)

	err = env.executor.Mint(depositor, ids.GenerateTestID(), 1, vault.Positive, Refs{})
	require.ErrorIs(err, vault.ErrVaultNotFound)

	err = env.executor.Mint(depositor, v.ID, 1, vault.Positive, Refs{UnderlyingHolding: ids.GenerateTestID()})
	require.ErrorIs(err, vault.ErrInvalidVaultUnderlyingTokenAccount)

	err = env.executor.Mint(depositor, v.ID, 1, vault.Negative, Refs{OnRevertAsset: v.OnFinalizeAsset})
	require.ErrorIs(err, vault.ErrInvalidConditionalTokenMint)

	require.Equal(uint64(10), env.balance(t, env.underlying, depositor))
	require.Zero(env.vault(t, v.ID).TotalPositiveMinted)
}

func TestMintMatchingRefs(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)
	depositor := ids.GenerateTestShortID()
	env.fund(t, depositor, 10)

	refs := Refs{
		UnderlyingHolding: v.UnderlyingHolding,
		OnFinalizeAsset:   v.OnFinalizeAsset,
		OnRevertAsset:     v.OnRevertAsset,
	}
	require.NoError(env.executor.Mint(depositor, v.ID, 10, vault.Negative, refs))
	require.Equal(uint64(10), env.balance(t, v.OnRevertAsset, depositor))
}

func TestMintAfterSettlement(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)
	depositor := ids.GenerateTestShortID()
	env.fund(t, depositor, 20)

	require.NoError(env.executor.Resolve(env.authority, v.ID, true))
	require.NoError(env.executor.Mint(depositor, v.ID, 20, vault.Positive, Refs{}))

	redeemed, err := env.executor.RedeemAfterResolution(depositor, v.ID, Refs{})
	require.NoError(err)
	require.Equal(uint64(20), redeemed)
}

func TestMerge(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)
	depositor := ids.GenerateTestShortID()
	env.fund(t, depositor, 100)

	require.NoError(env.executor.Mint(depositor, v.ID, 60, vault.Positive, Refs{}))
	require.NoError(env.executor.Mint(depositor, v.ID, 40, vault.Negative, Refs{}))

	_, err := env.executor.Merge(depositor, v.ID, 41, Refs{})
	require.ErrorIs(err, vault.ErrInsufficientConditionalTokens)

	_, err = env.executor.Merge(depositor, v.ID, 0, Refs{})
	require.ErrorIs(err, vault.ErrZeroAmount)

	payout, err := env.executor.Merge(depositor, v.ID, 40, Refs{})
	require.NoError(err)
	require.Equal(uint64(80), payout)
	require.Equal(uint64(80), env.balance(t, env.underlying, depositor))
	require.Equal(uint64(20), env.balance(t, v.OnFinalizeAsset, depositor))
	require.Zero(env.balance(t, v.OnRevertAsset, depositor))
	require.Equal(uint64(20), env.balance(t, env.underlying, v.Owner()))

	merged := env.vault(t, v.ID)
	require.Equal(uint64(40), merged.TotalMerged)
	require.Equal(uint64(60), merged.TotalPositiveMinted)
	require.Equal(uint64(40), merged.TotalNegativeMinted)
}

func TestMergeAfterSettlement(t *testing.T) {
	for _, settle := range []string{"resolve", "cancel"} {
		t.Run(settle, func(t *testing.T) {
			require := require.New(t)

			env := newTestEnv(t)
			v := env.initialize(t)
			depositor := ids.GenerateTestShortID()
			env.fund(t, depositor, 2)
			require.NoError(env.executor.Mint(depositor, v.ID, 1, vault.Positive, Refs{}))
			require.NoError(env.executor.Mint(depositor, v.ID, 1, vault.Negative, Refs{}))

			if settle == "resolve" {
				require.NoError(env.executor.Resolve(env.authority, v.ID, true))
			} else {
				require.NoError(env.executor.Cancel(env.authority, v.ID))
			}

			_, err := env.executor.Merge(depositor, v.ID, 1, Refs{})
			require.ErrorIs(err, vault.ErrVaultAlreadySettled)
		})
	}
}

func TestMergeWhileDisputed(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)
	depositor := ids.GenerateTestShortID()
	env.fund(t, depositor, 2)
	require.NoError(env.executor.Mint(depositor, v.ID, 1, vault.Positive, Refs{}))
	require.NoError(env.executor.Mint(depositor, v.ID, 1, vault.Negative, Refs{}))
	require.NoError(env.executor.Dispute(env.authority, v.ID))

	payout, err := env.executor.Merge(depositor, v.ID, 1, Refs{})
	require.NoError(err)
	require.Equal(uint64(2), payout)
	require.Equal(uint64(2), env.balance(t, env.underlying, depositor))
}

func TestRedeemBeforeSettlement(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)
	depositor := ids.GenerateTestShortID()
	env.fund(t, depositor, 5)
	require.NoError(env.executor.Mint(depositor, v.ID, 5, vault.Positive, Refs{}))

	_, err := env.executor.RedeemAfterResolution(depositor, v.ID, Refs{})
	require.ErrorIs(err, vault.ErrMarketNotResolved)
	_, err = env.executor.RedeemAfterCancellation(depositor, v.ID, Refs{})
	require.ErrorIs(err, vault.ErrMarketNotCancelled)

	require.NoError(env.executor.Dispute(env.authority, v.ID))
	_, err = env.executor.RedeemAfterResolution(depositor, v.ID, Refs{})
	require.ErrorIs(err, vault.ErrMarketNotResolved)
	_, err = env.executor.RedeemAfterCancellation(depositor, v.ID, Refs{})
	require.ErrorIs(err, vault.ErrMarketNotCancelled)

	require.Equal(uint64(5), env.balance(t, v.OnFinalizeAsset, depositor))
}

func TestRedeemWrongPath(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	resolved := env.initialize(t)
	cancelled := env.initialize(t)
	depositor := ids.GenerateTestShortID()

	require.NoError(env.executor.Resolve(env.authority, resolved.ID, true))
	require.NoError(env.executor.Cancel(env.authority, cancelled.ID))

	_, err := env.executor.RedeemAfterCancellation(depositor, resolved.ID, Refs{})
	require.ErrorIs(err, vault.ErrMarketNotCancelled)

	_, err = env.executor.RedeemAfterResolution(depositor, cancelled.ID, Refs{})
	require.ErrorIs(err, vault.ErrCantRedeemConditionalTokens)
}

func TestAttachMetadata(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)

	args := MetadataArgs{
		OnFinalizeURI: "ar://finalize",
		OnRevertURI:   "ar://revert",
	}
	require.NoError(env.executor.AttachMetadata(env.authority, v.ID, args))
	require.True(env.vault(t, v.ID).MetadataAttached)

	onFinalize, err := env.ledger.GetAsset(v.OnFinalizeAsset)
	require.NoError(err)
	require.Equal(ledger.Metadata{
		Name:   "Conditional USDC on finalize",
		Symbol: "fUSDC",
		URI:    "ar://finalize",
	}, onFinalize.Metadata)

	onRevert, err := env.ledger.GetAsset(v.OnRevertAsset)
	require.NoError(err)
	require.Equal("rUSDC", onRevert.Metadata.Symbol)
	require.Equal("ar://revert", onRevert.Metadata.URI)

	err = env.executor.AttachMetadata(env.authority, v.ID, args)
	require.ErrorIs(err, vault.ErrMetadataAlreadyAttached)
}

func TestAttachMetadataErrors(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t)
	v := env.initialize(t)

	err := env.executor.AttachMetadata(env.authority, v.ID, MetadataArgs{
		OnFinalizeURI: strings.Repeat("u", config.DefaultConfig().MaxMetadataURILen+1),
	})
	require.ErrorIs(err, vault.ErrURITooLong)

	require.NoError(env.executor.Dispute(env.authority, v.ID))
	err = env.executor.AttachMetadata(env.authority, v.ID, MetadataArgs{})
	require.ErrorIs(err, vault.ErrMarketNotActive)
}

func TestDepositorIsVaultAccount(t *testing.T) {
	tests := []struct {
		name   string
		settle func(*testEnv, *vault.Vault) error
		op     func(*Executor, ids.ShortID, ids.ID) error
	}{
		{
			name: "mint",
			op: func(e *Executor, depositor ids.ShortID, vaultID ids.ID) error {
				return e.Mint(depositor, vaultID, 1, vault.Positive, Refs{})
			},
		},
		{
			name: "merge",
			op: func(e *Executor, depositor ids.ShortID, vaultID ids.ID) error {
				_, err := e.Merge(depositor, vaultID, 1, Refs{})
				return err
			},
		},
		{
			name: "redeem after resolution",
			settle: func(env *testEnv, v *vault.Vault) error {
				return env.executor.Resolve(env.authority, v.ID, true)
			},
			op: func(e *Executor, depositor ids.ShortID, vaultID ids.ID) error {
				_, err := e.RedeemAfterResolution(depositor, vaultID, Refs{})
				return err
			},
		},
		{
			name: "redeem after cancellation",
			settle: func(env *testEnv, v *vault.Vault) error {
				return env.executor.Cancel(env.authority, v.ID)
			},
			op: func(e *Executor, depositor ids.ShortID, vaultID ids.ID) error {
				_, err := e.RedeemAfterCancellation(depositor, vaultID, Refs{})
				return err
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			env := newTestEnv(t)
			v := env.initialize(t)
			depositor := ids.GenerateTestShortID()
			env.fund(t, depositor, 2)
			require.NoError(env.executor.Mint(depositor, v.ID, 1, vault.Positive, Refs{}))
			require.NoError(env.executor.Mint(depositor, v.ID, 1, vault.Negative, Refs{}))
			if test.settle != nil {
				require.NoError(test.settle(env, v))
			}
			before := env.vault(t, v.ID)

			err := test.op(env.executor, v.Owner(), v.ID)
			require.ErrorIs(err, vault.ErrInvalidVaultUnderlyingTokenAccount)

			require.Equal(uint64(2), env.balance(t, env.underlying, v.Owner()))
			require.Equal(before, env.vault(t, v.ID))
		})
	}
}
