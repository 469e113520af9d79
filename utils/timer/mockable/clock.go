// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mockable provides a wall clock that tests can pin.
package mockable

import (
	"sync"
	"time"
)

// Clock reports wall-clock time unless it has been pinned with Set.
// The zero value follows real time and is safe for concurrent use.
type Clock struct {
	mu     sync.RWMutex
	pinned bool
	time   time.Time
}

// Set pins the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned = true
	c.time = t
}

// Sync releases a pinned clock back to real time.
func (c *Clock) Sync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned = false
}

// Time returns the current time of the clock.
func (c *Clock) Time() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.pinned {
		return c.time
	}
	return time.Now()
}

// Unix returns the clock's time in whole seconds since the epoch, clamped at
// zero.
func (c *Clock) Unix() uint64 {
	return uint64(max(c.Time().Unix(), 0))
}
