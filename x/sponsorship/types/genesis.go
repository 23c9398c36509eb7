package types

import (
	"encoding/hex"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisQuota pairs a group with its configured per-epoch gas quota.
type GenesisQuota struct {
	GroupId []byte `json:"group_id"`
	Quota   string `json:"quota"`
}

// GenesisState is the exported module state.
type GenesisState struct {
	Params Params         `json:"params"`
	Groups []GroupAccount `json:"groups"`
	Quotas []GenesisQuota `json:"quotas"`
	Epoch  EpochState     `json:"epoch"`
}

// DefaultGenesis returns the default genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
		Groups: []GroupAccount{},
		Quotas: []GenesisQuota{},
		Epoch:  EpochState{},
	}
}

// Validate performs basic genesis state validation returning an error upon
// any failure.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	seenGroups := make(map[string]bool)
	for i, group := range gs.Groups {
		if len(group.GroupId) != FieldElementSize {
			return fmt.Errorf("group %d: id must be %d bytes", i, FieldElementSize)
		}
		key := hex.EncodeToString(group.GroupId)
		if seenGroups[key] {
			return fmt.Errorf("group %d: duplicate group id %s", i, key)
		}
		seenGroups[key] = true

		// Negative deposits are valid state: settlement posts the actual
		// cost unconditionally and may drive a group below zero, and an
		// exported state must restart as-is.
		if group.Deposit.IsNil() {
			return fmt.Errorf("group %d: deposit is not set", i)
		}
		if group.Admin != "" {
			if _, err := sdk.AccAddressFromBech32(group.Admin); err != nil {
				return fmt.Errorf("group %d: invalid admin address: %w", i, err)
			}
		}
	}

	for i, quota := range gs.Quotas {
		if len(quota.GroupId) != FieldElementSize {
			return fmt.Errorf("quota %d: group id must be %d bytes", i, FieldElementSize)
		}
		if !seenGroups[hex.EncodeToString(quota.GroupId)] {
			return fmt.Errorf("quota %d: quota for unknown group", i)
		}
	}

	return nil
}
