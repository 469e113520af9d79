// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/database"
	"github.com/luxfi/database/badgerdb"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	vmcore "github.com/luxfi/vaultvm"
	"github.com/luxfi/vaultvm/api/health"
	"github.com/luxfi/vaultvm/api/metrics"
	"github.com/luxfi/vaultvm/api/server"
	"github.com/luxfi/vaultvm/vms/vaultvm"
)

const readHeaderTimeout = 10 * time.Second

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Runs a standalone vault node",
		RunE:  runFunc,
	}
	AddFlags(c.Flags())
	return c
}

func runFunc(c *cobra.Command, args []string) error {
	config, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewLogger(config.LogName)
	return Run(ctx, logger, config)
}

// Run serves the vault VM until ctx is cancelled or the HTTP server fails.
func Run(ctx context.Context, logger log.Logger, config *Config) error {
	genesisBytes, err := readOptionalFile(config.GenesisFile)
	if err != nil {
		return fmt.Errorf("couldn't read genesis: %w", err)
	}
	configBytes, err := readOptionalFile(config.ConfigFile)
	if err != nil {
		return fmt.Errorf("couldn't read config: %w", err)
	}

	db, err := openDB(config.DBDir)
	if err != nil {
		return fmt.Errorf("couldn't open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", log.Err(err))
		}
	}()

	gatherer := metrics.NewPrefixGatherer()
	vmRegistry, err := metrics.MakeAndRegister(gatherer, "vaultvm")
	if err != nil {
		return err
	}
	apiRegistry, err := metrics.MakeAndRegister(gatherer, "http")
	if err != nil {
		return err
	}
	healthRegistry, err := metrics.MakeAndRegister(gatherer, "health")
	if err != nil {
		return err
	}

	factory := &vaultvm.Factory{}
	vm, err := factory.New(logger)
	if err != nil {
		return err
	}
	err = vm.Initialize(ctx, &vmcore.Config{
		ChainID:      vaultvm.ID,
		Log:          logger,
		DB:           db,
		Registerer:   vmRegistry,
		GenesisBytes: genesisBytes,
		ConfigBytes:  configBytes,
	})
	if err != nil {
		return fmt.Errorf("couldn't initialize vault VM: %w", err)
	}
	defer func() {
		if err := vm.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to shut down vault VM", log.Err(err))
		}
	}()
	if err := vm.SetState(ctx, vmcore.NormalOp); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(config.HTTPHost, strconv.Itoa(int(config.HTTPPort))))
	if err != nil {
		return fmt.Errorf("couldn't listen: %w", err)
	}
	srv, err := server.New(
		logger,
		listener,
		config.AllowedOrigins,
		config.ShutdownTimeout,
		ids.EmptyNodeID,
		apiRegistry,
		server.HTTPConfig{
			ReadHeaderTimeout: readHeaderTimeout,
		},
	)
	if err != nil {
		_ = listener.Close()
		return err
	}

	handlers, err := vm.CreateHandlers(ctx)
	if err != nil {
		return err
	}
	for endpoint, handler := range handlers {
		if err := srv.AddRoute(handler, "vault", endpoint); err != nil {
			return err
		}
	}

	checks := health.New(logger, healthRegistry)
	if err := checks.RegisterCheck("vault", vm, health.ApplicationTag); err != nil {
		return err
	}
	if err := srv.AddRoute(checks, "health", ""); err != nil {
		return err
	}
	if err := srv.AddRoute(metric.HTTPHandler(gatherer, metric.HTTPHandlerOpts{}), "metrics", ""); err != nil {
		return err
	}

	logger.Info("serving vault API",
		log.String("address", listener.Addr().String()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.Dispatch()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down vault node")
		if err := srv.Shutdown(); err != nil {
			logger.Warn("failed to shut down http server", log.Err(err))
		}
		return nil
	})
	return g.Wait()
}

func openDB(dir string) (database.Database, error) {
	if dir == "" {
		return memdb.New(), nil
	}
	return badgerdb.New(dir, nil, "", nil)
}

func readOptionalFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}
