// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vaultvm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/rpc/v2"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/luxfi/version"
	"go.uber.org/zap"

	vmcore "github.com/luxfi/vaultvm"
	"github.com/luxfi/vaultvm/utils/json"
	"github.com/luxfi/vaultvm/utils/metric"
	"github.com/luxfi/vaultvm/utils/timer/mockable"
	"github.com/luxfi/vaultvm/vms/vaultvm/config"
	"github.com/luxfi/vaultvm/vms/vaultvm/executor"
	"github.com/luxfi/vaultvm/vms/vaultvm/genesis"
	"github.com/luxfi/vaultvm/vms/vaultvm/ledger"
	"github.com/luxfi/vaultvm/vms/vaultvm/metrics"
	"github.com/luxfi/vaultvm/vms/vaultvm/state"
	"github.com/luxfi/vaultvm/vms/vaultvm/vault"
)

var (
	_ vmcore.VM = (*VM)(nil)

	Version = &version.Semantic{
		Major: 1,
		Minor: 0,
		Patch: 0,
	}

	errUnknownState       = errors.New("unknown state")
	errNotBootstrapped    = errors.New("VM not bootstrapped")
	errShutdown           = errors.New("VM is shutting down")
	errNotInitialized     = errors.New("VM not initialized")
	errAlreadyInitialized = errors.New("VM already initialized")
)

// VM hosts conditional-claim vaults. Every operation runs under the VM's lock
// as one atomic unit: its vault and ledger writes are committed together, or
// discarded together when it fails.
type VM struct {
	config.Config

	log  log.Logger
	lock sync.RWMutex

	chainID ids.ID

	state       state.State
	backend     *executor.Backend
	metrics     metrics.Metrics
	interceptor utilmetric.APIInterceptor

	// Used to timestamp vault transitions
	clock mockable.Clock

	isInitialized bool
	bootstrapped  bool
	shutdown      bool

	// violation is the first invariant violation observed. Once set, the VM
	// reports itself unhealthy.
	violation error
}

// Initialize opens the vault state on the provided database and, on first
// start, seeds the ledger from genesis.
func (vm *VM) Initialize(_ context.Context, cfg *vmcore.Config) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.isInitialized {
		return errAlreadyInitialized
	}
	if cfg.Log != nil {
		vm.log = cfg.Log
	}
	if vm.log == nil {
		vm.log = log.NewNoOpLogger()
	}
	vm.chainID = cfg.ChainID

	vmConfig, err := config.Parse(cfg.ConfigBytes)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	vm.Config = vmConfig

	registerer := cfg.Registerer
	if registerer == nil {
		registerer = metric.NewRegistry()
	}
	vm.metrics, err = metrics.New(registerer)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	vm.interceptor, err = utilmetric.NewAPIInterceptor(registerer)
	if err != nil {
		return fmt.Errorf("failed to register api metrics: %w", err)
	}

	db := cfg.DB
	if db == nil {
		return fmt.Errorf("%w: missing database", errNotInitialized)
	}
	vm.state = state.New(db, vm.VaultCacheSize)
	vm.backend = &executor.Backend{
		Config: vm.Config,
		Clock:  &vm.clock,
		Log:    vm.log,
	}

	if err := vm.initGenesis(cfg.GenesisBytes); err != nil {
		vm.state.Abort()
		return fmt.Errorf("failed to apply genesis: %w", err)
	}

	vm.isInitialized = true
	vm.log.Info("vault VM initialized",
		log.Stringer("chainID", vm.chainID),
		log.Stringer("version", Version),
		log.Int("vaultCacheSize", vm.VaultCacheSize),
	)
	return nil
}

func (vm *VM) initGenesis(genesisBytes []byte) error {
	initialized, err := vm.state.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		return nil
	}

	g := &genesis.Genesis{}
	if len(genesisBytes) > 0 {
		g, err = genesis.Parse(genesisBytes)
		if err != nil {
			return err
		}
	}
	if err := g.Apply(vm.state.Ledger()); err != nil {
		return err
	}
	if err := vm.state.SetInitialized(); err != nil {
		return err
	}
	vm.log.Info("applied genesis",
		log.Int("assets", len(g.Assets)),
	)
	return vm.state.Commit()
}

// SetState transitions the VM between bootstrapping and normal operation.
func (vm *VM) SetState(_ context.Context, s vmcore.State) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	switch s {
	case vmcore.Bootstrapping:
		vm.log.Info("vault VM entering bootstrap state")
		vm.bootstrapped = false
		return nil
	case vmcore.NormalOp:
		vm.log.Info("vault VM entering normal operation")
		vm.bootstrapped = true
		return nil
	default:
		return fmt.Errorf("%w: %d", errUnknownState, s)
	}
}

func (vm *VM) Shutdown(context.Context) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.shutdown || vm.state == nil {
		vm.shutdown = true
		return nil
	}
	vm.shutdown = true
	vm.log.Info("shutting down vault VM")

	if err := vm.state.Close(); err != nil {
		return fmt.Errorf("failed to close state: %w", err)
	}
	return nil
}

func (*VM) Version(context.Context) (string, error) {
	return Version.String(), nil
}

// CreateHandlers serves the vault JSON-RPC service at the chain's root
// endpoint.
func (vm *VM) CreateHandlers(context.Context) (map[string]http.Handler, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if !vm.isInitialized {
		return nil, errNotInitialized
	}

	server := rpc.NewServer()
	server.RegisterCodec(json.NewCodec(), "application/json")
	server.RegisterCodec(json.NewCodec(), "application/json;charset=UTF-8")
	server.RegisterInterceptFunc(vm.interceptor.InterceptRequest)
	server.RegisterAfterFunc(vm.interceptor.AfterRequest)
	if err := server.RegisterService(&Service{vm: vm}, "vault"); err != nil {
		return nil, fmt.Errorf("failed to register vault service: %w", err)
	}
	return map[string]http.Handler{
		"": server,
	}, nil
}

// HealthCheck reports an error once an operation has been aborted for
// breaking a ledger invariant.
func (vm *VM) HealthCheck(context.Context) (interface{}, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	details := map[string]interface{}{
		"initialized":  vm.isInitialized,
		"bootstrapped": vm.bootstrapped,
		"version":      Version.String(),
	}
	switch {
	case !vm.isInitialized:
		return details, errNotInitialized
	case vm.violation != nil:
		details["invariantViolation"] = vm.violation.Error()
		return details, vm.violation
	}
	return details, nil
}

// ready must be called with the lock held.
func (vm *VM) ready() error {
	switch {
	case !vm.isInitialized:
		return errNotInitialized
	case vm.shutdown:
		return errShutdown
	case !vm.bootstrapped:
		return errNotBootstrapped
	}
	return nil
}

// execute runs f as one atomic unit. The unit is committed only if f returns
// nil; any error or invariant violation discards every write f staged.
func (vm *VM) execute(op string, f func(*executor.Executor) error) (err error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.ready(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			vm.state.Abort()
			violation, ok := r.(*executor.InvariantViolation)
			if !ok {
				panic(r)
			}
			if vm.violation == nil {
				vm.violation = violation
			}
			vm.metrics.MarkInvariantViolation(op)
			vm.log.Error("aborted operation",
				log.String("op", op),
				log.Stringer("vaultID", violation.VaultID),
				log.String("check", violation.What),
				zap.Uint64("expected", violation.Expected),
				zap.Uint64("actual", violation.Actual),
			)
			err = violation
		}
		vm.metrics.MarkOperation(op, err)
	}()

	exec := &executor.Executor{
		Backend: vm.backend,
		State:   vm.state,
		Ledger:  vm.state.Ledger(),
	}
	if err := f(exec); err != nil {
		vm.state.Abort()
		vm.log.Debug("operation failed",
			log.String("op", op),
			zap.Error(err),
		)
		return err
	}
	if err := vm.state.Commit(); err != nil {
		vm.state.Abort()
		return fmt.Errorf("failed to commit %s: %w", op, err)
	}
	return nil
}

func (vm *VM) InitializeVault(args executor.InitializeArgs) (*vault.Vault, error) {
	var v *vault.Vault
	err := vm.execute(executor.OpInitialize, func(e *executor.Executor) error {
		var err error
		v, err = e.InitializeVault(args)
		return err
	})
	if err != nil {
		return nil, err
	}
	vm.metrics.IncVaults()
	return v, nil
}

func (vm *VM) Resolve(caller ids.ShortID, vaultID ids.ID, outcome bool) error {
	return vm.execute(executor.OpResolve, func(e *executor.Executor) error {
		return e.Resolve(caller, vaultID, outcome)
	})
}

func (vm *VM) Dispute(caller ids.ShortID, vaultID ids.ID) error {
	return vm.execute(executor.OpDispute, func(e *executor.Executor) error {
		return e.Dispute(caller, vaultID)
	})
}

func (vm *VM) Cancel(caller ids.ShortID, vaultID ids.ID) error {
	return vm.execute(executor.OpCancel, func(e *executor.Executor) error {
		return e.Cancel(caller, vaultID)
	})
}

func (vm *VM) Mint(depositor ids.ShortID, vaultID ids.ID, amount uint64, side vault.Side, refs executor.Refs) error {
	return vm.execute(executor.OpMint, func(e *executor.Executor) error {
		return e.Mint(depositor, vaultID, amount, side, refs)
	})
}

// Merge returns the underlying released to the depositor.
func (vm *VM) Merge(depositor ids.ShortID, vaultID ids.ID, amount uint64, refs executor.Refs) (uint64, error) {
	return vm.redeem(executor.OpMerge, func(e *executor.Executor) (uint64, error) {
		return e.Merge(depositor, vaultID, amount, refs)
	})
}

func (vm *VM) RedeemAfterResolution(depositor ids.ShortID, vaultID ids.ID, refs executor.Refs) (uint64, error) {
	return vm.redeem(executor.OpRedeemAfterResolution, func(e *executor.Executor) (uint64, error) {
		return e.RedeemAfterResolution(depositor, vaultID, refs)
	})
}

func (vm *VM) RedeemAfterCancellation(depositor ids.ShortID, vaultID ids.ID, refs executor.Refs) (uint64, error) {
	return vm.redeem(executor.OpRedeemAfterCancellation, func(e *executor.Executor) (uint64, error) {
		return e.RedeemAfterCancellation(depositor, vaultID, refs)
	})
}

func (vm *VM) redeem(op string, f func(*executor.Executor) (uint64, error)) (uint64, error) {
	var payout uint64
	err := vm.execute(op, func(e *executor.Executor) error {
		var err error
		payout, err = f(e)
		return err
	})
	if err != nil {
		return 0, err
	}
	vm.metrics.ObservePayout(payout)
	return payout, nil
}

func (vm *VM) AttachMetadata(caller ids.ShortID, vaultID ids.ID, args executor.MetadataArgs) error {
	return vm.execute(executor.OpAttachMetadata, func(e *executor.Executor) error {
		return e.AttachMetadata(caller, vaultID, args)
	})
}

// GetVault returns the committed vault record.
func (vm *VM) GetVault(vaultID ids.ID) (*vault.Vault, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if !vm.isInitialized {
		return nil, errNotInitialized
	}
	return vm.state.GetVault(vaultID)
}

// ListVaults returns up to limit vaults whose IDs are at or after start.
// Non-positive or oversized limits are clamped to the configured maximum.
func (vm *VM) ListVaults(start ids.ID, limit int) ([]*vault.Vault, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if !vm.isInitialized {
		return nil, errNotInitialized
	}
	if limit <= 0 || limit > vm.MaxListLimit {
		limit = vm.MaxListLimit
	}
	vaultIDs, err := vm.state.VaultIDs(start, limit)
	if err != nil {
		return nil, err
	}
	vaults := make([]*vault.Vault, 0, len(vaultIDs))
	for _, vaultID := range vaultIDs {
		v, err := vm.state.GetVault(vaultID)
		if err != nil {
			return nil, err
		}
		vaults = append(vaults, v)
	}
	return vaults, nil
}

func (vm *VM) GetAsset(assetID ids.ID) (*ledger.Asset, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if !vm.isInitialized {
		return nil, errNotInitialized
	}
	return vm.state.Ledger().GetAsset(assetID)
}

func (vm *VM) Balance(assetID ids.ID, owner ids.ShortID) (uint64, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	if !vm.isInitialized {
		return 0, errNotInitialized
	}
	return vm.state.Ledger().Balance(assetID, owner)
}

// IsBootstrapped returns true if the VM accepts operations.
func (vm *VM) IsBootstrapped() bool {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.bootstrapped
}
