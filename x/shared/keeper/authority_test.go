package keeper_test

import (
	"testing"

	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	"github.com/veilpay-chain/veilpay/x/shared/keeper"
)

func TestValidateAuthority(t *testing.T) {
	gov := "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn"
	other := "cosmos1fl48vsnmsdzcv85q5d2q4z5ajdha8yu34mf0eh"

	tests := []struct {
		name     string
		expected string
		actual   string
		wantErr  bool
	}{
		{name: "matching authority", expected: gov, actual: gov},
		{name: "mismatched authority", expected: gov, actual: other, wantErr: true},
		{name: "empty expected", expected: "", actual: gov, wantErr: true},
		{name: "empty actual", expected: gov, actual: "", wantErr: true},
		{name: "both empty", expected: "", actual: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := keeper.ValidateAuthority(tt.expected, tt.actual)
			if tt.wantErr {
				require.ErrorIs(t, err, govtypes.ErrInvalidSigner)
				return
			}
			require.NoError(t, err)
		})
	}
}
