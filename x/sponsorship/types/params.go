package types

import (
	"fmt"
)

// Params holds the module parameters.
type Params struct {
	// Denom is the coin denomination group deposits are made in.
	Denom string `json:"denom"`
	// EpochDurationSeconds is the width of one gas-quota window.
	EpochDurationSeconds uint64 `json:"epoch_duration_seconds"`
	// FirstEpochTime is the unix timestamp epoch 0 starts at.
	FirstEpochTime int64 `json:"first_epoch_time"`
	// MaxProofSize bounds the serialized proof accepted by the verifier.
	MaxProofSize uint32 `json:"max_proof_size"`
	// VerifyGasCost is the gas consumed per Groth16 verification.
	VerifyGasCost uint64 `json:"verify_gas_cost"`
}

// DefaultParams returns default sponsorship parameters.
func DefaultParams() Params {
	return Params{
		Denom:                "uveil",
		EpochDurationSeconds: 3600,
		FirstEpochTime:       0,
		MaxProofSize:         512,
		VerifyGasCost:        500000,
	}
}

// Validate checks parameter sanity.
func (p Params) Validate() error {
	if p.Denom == "" {
		return fmt.Errorf("denom cannot be empty")
	}
	if p.EpochDurationSeconds == 0 {
		return fmt.Errorf("epoch duration must be positive")
	}
	if p.FirstEpochTime < 0 {
		return fmt.Errorf("first epoch time cannot be negative")
	}
	if p.MaxProofSize == 0 {
		return fmt.Errorf("max proof size must be positive")
	}
	return nil
}
