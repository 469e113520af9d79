// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package json provides JSON helpers shared by the API layer.
package json

import "strconv"

const Null = "null"

// Uint64 is a uint64 that is JSON encoded as a decimal string so that
// clients without 64-bit integers do not lose precision. Bare numbers are
// accepted on input.
type Uint64 uint64

func (u Uint64) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, strconv.FormatUint(uint64(u), 10)), nil
}

func (u *Uint64) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == Null {
		return nil
	}
	if unquoted, err := strconv.Unquote(str); err == nil {
		str = unquoted
	}
	val, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return err
	}
	*u = Uint64(val)
	return nil
}
