// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/vaultvm/cmd/vaultvm/derive"
	"github.com/luxfi/vaultvm/cmd/vaultvm/run"
	"github.com/luxfi/vaultvm/vms/vaultvm"
)

func init() {
	cobra.EnablePrefixMatching = true
}

func main() {
	cmd := &cobra.Command{
		Use:     "vaultvm",
		Short:   "Runs and inspects conditional-claim vaults",
		Version: vaultvm.Version.String(),
	}
	cmd.AddCommand(
		run.Command(),
		derive.Command(),
	)
	ctx := context.Background()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "command failed %v\n", err)
		os.Exit(1)
	}
}
