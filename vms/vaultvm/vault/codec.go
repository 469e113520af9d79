// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import (
	"fmt"

	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"
	"github.com/luxfi/ids"
)

const (
	CodecVersion = 0

	maxRecordSize = 1 << 16
)

var Codec codec.Manager

func init() {
	Codec = codec.NewManager(maxRecordSize)
	lc := linearcodec.NewDefault()
	if err := Codec.RegisterCodec(CodecVersion, lc); err != nil {
		panic(err)
	}
}

// record is the persisted layout of a Vault. Optional fields are flattened
// into a presence flag followed by the value.
type record struct {
	ID     ids.ID `serialize:"true"`
	Status uint8  `serialize:"true"`

	SettlementAuthority ids.ShortID `serialize:"true"`
	UnderlyingAsset     ids.ID      `serialize:"true"`
	UnderlyingHolding   ids.ID      `serialize:"true"`
	OnFinalizeAsset     ids.ID      `serialize:"true"`
	OnRevertAsset       ids.ID      `serialize:"true"`
	Decimals            uint8       `serialize:"true"`
	Bump                uint8       `serialize:"true"`
	MetadataAttached    bool        `serialize:"true"`

	HasOutcome bool `serialize:"true"`
	Outcome    bool `serialize:"true"`

	TotalPositiveMinted uint64 `serialize:"true"`
	TotalNegativeMinted uint64 `serialize:"true"`
	TotalMerged         uint64 `serialize:"true"`

	CreatedAt      uint64 `serialize:"true"`
	HasDisputedAt  bool   `serialize:"true"`
	DisputedAt     uint64 `serialize:"true"`
	HasResolvedAt  bool   `serialize:"true"`
	ResolvedAt     uint64 `serialize:"true"`
	HasCancelledAt bool   `serialize:"true"`
	CancelledAt    uint64 `serialize:"true"`

	Claim  string `serialize:"true"`
	DocRef string `serialize:"true"`
}

// Marshal encodes v into its persisted form.
func Marshal(v *Vault) ([]byte, error) {
	r := record{
		ID:                  v.ID,
		Status:              uint8(v.Status),
		SettlementAuthority: v.SettlementAuthority,
		UnderlyingAsset:     v.UnderlyingAsset,
		UnderlyingHolding:   v.UnderlyingHolding,
		OnFinalizeAsset:     v.OnFinalizeAsset,
		OnRevertAsset:       v.OnRevertAsset,
		Decimals:            v.Decimals,
		Bump:                v.Bump,
		MetadataAttached:    v.MetadataAttached,
		TotalPositiveMinted: v.TotalPositiveMinted,
		TotalNegativeMinted: v.TotalNegativeMinted,
		TotalMerged:         v.TotalMerged,
		CreatedAt:           v.CreatedAt,
		Claim:               v.Claim,
		DocRef:              v.DocRef,
	}
	if v.Outcome != nil {
		r.HasOutcome, r.Outcome = true, *v.Outcome
	}
	if v.DisputedAt != nil {
		r.HasDisputedAt, r.DisputedAt = true, *v.DisputedAt
	}
	if v.ResolvedAt != nil {
		r.HasResolvedAt, r.ResolvedAt = true, *v.ResolvedAt
	}
	if v.CancelledAt != nil {
		r.HasCancelledAt, r.CancelledAt = true, *v.CancelledAt
	}
	return Codec.Marshal(CodecVersion, &r)
}

// Parse decodes a persisted vault and verifies it.
func Parse(b []byte) (*Vault, error) {
	var r record
	if _, err := Codec.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	v := &Vault{
		ID:                  r.ID,
		Status:              Status(r.Status),
		Claim:               r.Claim,
		DocRef:              r.DocRef,
		SettlementAuthority: r.SettlementAuthority,
		UnderlyingAsset:     r.UnderlyingAsset,
		UnderlyingHolding:   r.UnderlyingHolding,
		OnFinalizeAsset:     r.OnFinalizeAsset,
		OnRevertAsset:       r.OnRevertAsset,
		Decimals:            r.Decimals,
		TotalPositiveMinted: r.TotalPositiveMinted,
		TotalNegativeMinted: r.TotalNegativeMinted,
		TotalMerged:         r.TotalMerged,
		CreatedAt:           r.CreatedAt,
		Bump:                r.Bump,
		MetadataAttached:    r.MetadataAttached,
	}
	if r.HasOutcome {
		outcome := r.Outcome
		v.Outcome = &outcome
	}
	if r.HasDisputedAt {
		at := r.DisputedAt
		v.DisputedAt = &at
	}
	if r.HasResolvedAt {
		at := r.ResolvedAt
		v.ResolvedAt = &at
	}
	if r.HasCancelledAt {
		at := r.CancelledAt
		v.CancelledAt = &at
	}
	if err := v.Verify(); err != nil {
		return nil, err
	}
	return v, nil
}
