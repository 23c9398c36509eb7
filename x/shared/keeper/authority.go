// Package keeper provides shared keeper utilities used across modules.
package keeper

import (
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
)

// ValidateAuthority checks a message's authority against the keeper's
// configured authority. Governance-gated handlers such as parameter
// updates call this before touching state:
//
//	if err := sharedkeeper.ValidateAuthority(k.Authority(), msg.Authority); err != nil {
//	    return nil, err
//	}
func ValidateAuthority(expected, actual string) error {
	if expected != actual {
		return govtypes.ErrInvalidSigner.Wrapf(
			"invalid authority; expected %s, got %s",
			expected,
			actual,
		)
	}
	return nil
}
