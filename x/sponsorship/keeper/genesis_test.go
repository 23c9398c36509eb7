package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/veilpay-chain/veilpay/testutil/keeper"
	"github.com/veilpay-chain/veilpay/x/sponsorship/keeper"
	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// TestGenesis_RoundTrip tests that exported state re-imports unchanged
func TestGenesis_RoundTrip(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeNullifierQuotaCache)

	params := types.DefaultParams()
	params.EpochDurationSeconds = 1800

	genState := types.GenesisState{
		Params: params,
		Groups: []types.GroupAccount{
			{GroupId: testGroupID(0x70), Admin: testAdmin().String(), Deposit: math.NewInt(5_000)},
			{GroupId: testGroupID(0x71), Deposit: math.ZeroInt()},
		},
		Quotas: []types.GenesisQuota{
			{GroupId: testGroupID(0x70), Quota: "600000"},
		},
		Epoch: types.EpochState{Current: 42, AdvancedAt: keepertest.GenesisTime.Unix()},
	}

	require.NoError(t, f.Keeper.InitGenesis(f.Ctx, genState))

	require.Equal(t, math.NewInt(5_000), f.Keeper.GroupDeposit(f.Ctx, testGroupID(0x70)))
	quota, ok := f.Keeper.GetGroupQuota(f.Ctx, testGroupID(0x70))
	require.True(t, ok)
	require.Equal(t, math.NewInt(600_000), quota)
	require.Equal(t, uint64(42), f.Keeper.CurrentEpoch(f.Ctx))

	exported, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, genState.Params, exported.Params)
	require.ElementsMatch(t, genState.Groups, exported.Groups)
	require.ElementsMatch(t, genState.Quotas, exported.Quotas)
	require.Equal(t, genState.Epoch, exported.Epoch)
}

// TestGenesis_RejectsInvalidState tests genesis validation
func TestGenesis_RejectsInvalidState(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeDirectVerify)

	// Duplicate group ids.
	dup := types.GenesisState{
		Params: types.DefaultParams(),
		Groups: []types.GroupAccount{
			{GroupId: testGroupID(0x72), Deposit: math.ZeroInt()},
			{GroupId: testGroupID(0x72), Deposit: math.ZeroInt()},
		},
	}
	require.Error(t, f.Keeper.InitGenesis(f.Ctx, dup))

	// Quota for an unknown group.
	orphan := types.GenesisState{
		Params: types.DefaultParams(),
		Quotas: []types.GenesisQuota{{GroupId: testGroupID(0x73), Quota: "1"}},
	}
	require.Error(t, f.Keeper.InitGenesis(f.Ctx, orphan))

	// Unset deposit.
	unset := types.GenesisState{
		Params: types.DefaultParams(),
		Groups: []types.GroupAccount{{GroupId: testGroupID(0x74)}},
	}
	require.Error(t, f.Keeper.InitGenesis(f.Ctx, unset))
}

// TestGenesis_UnderflownDepositRestarts tests that a group driven below
// zero by settlement exports and re-imports as-is: the negative balance
// is monitored state, not an invalid one
func TestGenesis_UnderflownDepositRestarts(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeDirectVerify)
	groupID := testGroupID(0x75)
	setupGroup(t, f, groupID, math.NewInt(100))

	vctx := types.ValidationContext{
		Kind:    types.ContextKindGroup,
		GroupId: groupID,
		PreFund: math.NewInt(100),
	}
	f.Keeper.SettleSponsorship(f.Ctx, vctx.Encode(), math.NewInt(250))
	require.Equal(t, math.NewInt(-150), f.Keeper.GroupDeposit(f.Ctx, groupID))

	exported, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.NoError(t, exported.Validate())

	restarted := keepertest.SponsorshipKeeper(t, keeper.ModeDirectVerify)
	require.NoError(t, restarted.Keeper.InitGenesis(restarted.Ctx, *exported))
	require.Equal(t, math.NewInt(-150), restarted.Keeper.GroupDeposit(restarted.Ctx, groupID))
}

// TestGenesis_Default tests the default genesis state
func TestGenesis_Default(t *testing.T) {
	genState := types.DefaultGenesis()
	require.NoError(t, genState.Validate())

	f := keepertest.SponsorshipKeeper(t, keeper.ModeDirectVerify)
	require.NoError(t, f.Keeper.InitGenesis(f.Ctx, *genState))

	params, err := f.Keeper.GetParams(f.Ctx)
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams(), params)
}
