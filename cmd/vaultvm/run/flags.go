// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

const (
	HTTPHostKey        = "http-host"
	HTTPPortKey        = "http-port"
	DBDirKey           = "db-dir"
	GenesisFileKey     = "genesis-file"
	ConfigFileKey      = "config-file"
	AllowedOriginsKey  = "allowed-origins"
	ShutdownTimeoutKey = "shutdown-timeout"
	LogNameKey         = "log-name"
)

var errInvalidPort = errors.New("invalid port")

func AddFlags(flags *pflag.FlagSet) {
	flags.String(HTTPHostKey, "127.0.0.1", "Address of the HTTP server")
	flags.Uint16(HTTPPortKey, 9650, "Port of the HTTP server")
	flags.String(DBDirKey, "", "Directory of the badger database. State is kept in memory when empty")
	flags.String(GenesisFileKey, "", "JSON genesis file describing the underlying assets")
	flags.String(ConfigFileKey, "", "JSON file overriding the default VM configuration")
	flags.StringSlice(AllowedOriginsKey, []string{"*"}, "Origins allowed to make cross-origin requests")
	flags.Duration(ShutdownTimeoutKey, 10*time.Second, "Maximum time to wait for in-flight requests on shutdown")
	flags.String(LogNameKey, "vaultvm", "Name attached to log lines")
}

type Config struct {
	HTTPHost        string
	HTTPPort        uint16
	DBDir           string
	GenesisFile     string
	ConfigFile      string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	LogName         string
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	httpHost, err := flags.GetString(HTTPHostKey)
	if err != nil {
		return nil, err
	}

	httpPort, err := flags.GetUint16(HTTPPortKey)
	if err != nil {
		return nil, err
	}
	if httpPort == 0 {
		return nil, fmt.Errorf("%w: %d", errInvalidPort, httpPort)
	}

	dbDir, err := flags.GetString(DBDirKey)
	if err != nil {
		return nil, err
	}

	genesisFile, err := flags.GetString(GenesisFileKey)
	if err != nil {
		return nil, err
	}

	configFile, err := flags.GetString(ConfigFileKey)
	if err != nil {
		return nil, err
	}

	allowedOrigins, err := flags.GetStringSlice(AllowedOriginsKey)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := flags.GetDuration(ShutdownTimeoutKey)
	if err != nil {
		return nil, err
	}

	logName, err := flags.GetString(LogNameKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPHost:        httpHost,
		HTTPPort:        httpPort,
		DBDir:           dbDir,
		GenesisFile:     genesisFile,
		ConfigFile:      configFile,
		AllowedOrigins:  allowedOrigins,
		ShutdownTimeout: shutdownTimeout,
		LogName:         logName,
	}, nil
}
