// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectedErr error
	}{
		{
			name: "defaults",
			expected: &Config{
				HTTPHost:        "127.0.0.1",
				HTTPPort:        9650,
				AllowedOrigins:  []string{"*"},
				ShutdownTimeout: 10 * time.Second,
				LogName:         "vaultvm",
			},
		},
		{
			name: "overrides",
			args: []string{
				"--" + HTTPHostKey, "0.0.0.0",
				"--" + HTTPPortKey, "9700",
				"--" + DBDirKey, "/tmp/vaults",
				"--" + GenesisFileKey, "genesis.json",
				"--" + AllowedOriginsKey, "https://a.example,https://b.example",
				"--" + ShutdownTimeoutKey, "3s",
			},
			expected: &Config{
				HTTPHost:        "0.0.0.0",
				HTTPPort:        9700,
				DBDir:           "/tmp/vaults",
				GenesisFile:     "genesis.json",
				AllowedOrigins:  []string{"https://a.example", "https://b.example"},
				ShutdownTimeout: 3 * time.Second,
				LogName:         "vaultvm",
			},
		},
		{
			name:        "zero port",
			args:        []string{"--" + HTTPPortKey, "0"},
			expectedErr: errInvalidPort,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
			AddFlags(flags)
			config, err := ParseFlags(flags, test.args)
			require.ErrorIs(err, test.expectedErr)
			require.Equal(test.expected, config)
		})
	}
}
