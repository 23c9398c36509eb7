package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/veilpay-chain/veilpay/testutil/keeper"
	"github.com/veilpay-chain/veilpay/x/sponsorship/keeper"
	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// TestDepositBackingInvariant_Healthy tests the escrow backing invariant
// over a funded ledger
func TestDepositBackingInvariant_Healthy(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeDirectVerify)
	setupGroup(t, f, testGroupID(0x80), math.NewInt(1000))
	setupGroup(t, f, testGroupID(0x81), math.NewInt(2000))

	msg, broken := keeper.DepositBackingInvariant(f.Keeper)(f.Ctx)
	require.False(t, broken, msg)

	// A group overdrawn by settlement does not break backing: the escrow
	// still covers the remaining positive balances.
	_, err := f.Keeper.DebitGroup(f.Ctx, testGroupID(0x80), math.NewInt(1500))
	require.NoError(t, err)
	msg, broken = keeper.DepositBackingInvariant(f.Keeper)(f.Ctx)
	require.False(t, broken, msg)
}

// TestDepositBackingInvariant_Broken tests detection of phantom balances
func TestDepositBackingInvariant_Broken(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeDirectVerify)

	// A ledger balance written without a matching escrow transfer.
	require.NoError(t, f.Keeper.SetGroupAccount(f.Ctx, types.GroupAccount{
		GroupId: testGroupID(0x82),
		Deposit: math.NewInt(999),
	}))

	msg, broken := keeper.DepositBackingInvariant(f.Keeper)(f.Ctx)
	require.True(t, broken, msg)
}

// TestGasRecordInvariant tests gas record consistency checks
func TestGasRecordInvariant(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeNullifierQuotaCache)

	require.NoError(t, f.Keeper.RecordGas(f.Ctx, testRoot(0x01), math.NewInt(100)))
	msg, broken := keeper.GasRecordInvariant(f.Keeper)(f.Ctx)
	require.False(t, broken, msg)

	// A record stamped with a future epoch is flagged.
	require.NoError(t, f.Keeper.SetGasQuotaRecord(f.Ctx, testRoot(0x02), types.GasQuotaRecord{
		GasUsed: math.NewInt(1),
		Epoch:   f.Keeper.CurrentEpoch(f.Ctx) + 10,
	}))
	msg, broken = keeper.GasRecordInvariant(f.Keeper)(f.Ctx)
	require.True(t, broken, msg)
}
