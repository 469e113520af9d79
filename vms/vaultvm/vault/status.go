// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle state of a vault.
//
// Locked and Paused are reserved: they decode and print, but no operation
// moves a vault into either of them.
type Status uint8

const (
	Active Status = iota
	Locked
	Paused
	Disputed
	Cancelled
	Resolved
)

func (s Status) String() string {
	switch s {
	case Active:
		return "Active"
	case Locked:
		return "Locked"
	case Paused:
		return "Paused"
	case Disputed:
		return "Disputed"
	case Cancelled:
		return "Cancelled"
	case Resolved:
		return "Resolved"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s <= Resolved
}

// Terminal reports whether no further settlement is possible from s.
func (s Status) Terminal() bool {
	return s == Cancelled || s == Resolved
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	for candidate := Active; candidate.Valid(); candidate++ {
		if candidate.String() == str {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, str)
}

// ValidateResolve returns the error a resolution attempt from s fails with,
// or nil if the vault may be resolved.
func ValidateResolve(s Status) error {
	switch s {
	case Resolved:
		return ErrMarketAlreadyResolved
	case Cancelled:
		return ErrMarketAlreadyCancelled
	default:
		return nil
	}
}

// ValidateDispute returns the error a dispute attempt from s fails with, or
// nil if the vault may be disputed.
func ValidateDispute(s Status) error {
	switch s {
	case Disputed:
		return ErrMarketAlreadyDisputed
	case Resolved:
		return ErrMarketAlreadyResolved
	case Cancelled:
		return ErrMarketAlreadyCancelled
	default:
		return nil
	}
}

// ValidateCancel returns the error a cancellation attempt from s fails with,
// or nil if the vault may be cancelled.
func ValidateCancel(s Status) error {
	switch s {
	case Cancelled:
		return ErrMarketAlreadyCancelled
	case Resolved:
		return ErrMarketAlreadyResolved
	default:
		return nil
	}
}

// ValidateMerge returns ErrVaultAlreadySettled once s is terminal.
func ValidateMerge(s Status) error {
	if s.Terminal() {
		return ErrVaultAlreadySettled
	}
	return nil
}

// Side selects which derivative asset a mint produces.
type Side uint8

const (
	// Positive mints on-finalize tokens.
	Positive Side = iota
	// Negative mints on-revert tokens.
	Negative
)

func (s Side) String() string {
	switch s {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "unknown"
	}
}

// ParseSide parses the string form of a side.
func ParseSide(str string) (Side, error) {
	switch str {
	case "positive", "Positive", "finalize":
		return Positive, nil
	case "negative", "Negative", "revert":
		return Negative, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSide, str)
	}
}
