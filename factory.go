// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/luxfi/log"
)

// Factory creates new VM instances.
type Factory interface {
	// New returns an uninitialized VM that logs to the given logger.
	New(log.Logger) (VM, error)
}
