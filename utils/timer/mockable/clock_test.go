// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockSetAndSync(t *testing.T) {
	require := require.New(t)

	var clk Clock
	pinned := time.Unix(1_700_000_000, 999)
	clk.Set(pinned)
	require.Equal(pinned, clk.Time())
	require.Equal(uint64(1_700_000_000), clk.Unix())

	clk.Sync()
	require.WithinDuration(time.Now(), clk.Time(), time.Minute)
}

func TestClockUnixClampsNegative(t *testing.T) {
	var clk Clock
	clk.Set(time.Unix(-10, 0))
	require.Zero(t, clk.Unix())
}
