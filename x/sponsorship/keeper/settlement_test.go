package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/veilpay-chain/veilpay/testutil/keeper"
	"github.com/veilpay-chain/veilpay/x/sponsorship/keeper"
	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// TestSettle_DebitsActualCost tests that settlement posts the actual cost
// against the group, not the pre-fund estimate
func TestSettle_DebitsActualCost(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeDirectVerify)
	groupID := testGroupID(0x50)
	setupGroup(t, f, groupID, math.NewInt(10_000_000))

	vctx := &types.ValidationContext{
		Kind:    types.ContextKindGroup,
		GroupId: groupID,
		PreFund: math.NewInt(600_000),
	}

	// Actual cost came in below the estimate.
	f.Keeper.SettleSponsorship(f.Ctx, vctx.Encode(), math.NewInt(200_000))
	require.Equal(t, math.NewInt(9_800_000), f.Keeper.GroupDeposit(f.Ctx, groupID))

	settled := false
	for _, ev := range f.Ctx.EventManager().Events() {
		if ev.Type == types.EventTypeOperationSettled {
			settled = true
		}
	}
	require.True(t, settled, "expected a settled event")
}

// TestSettle_DrainsBelowZero tests that settlement never refuses even
// when it overdraws the group
func TestSettle_DrainsBelowZero(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeDirectVerify)
	groupID := testGroupID(0x51)
	setupGroup(t, f, groupID, math.NewInt(100))

	vctx := &types.ValidationContext{
		Kind:    types.ContextKindGroup,
		GroupId: groupID,
		PreFund: math.NewInt(100),
	}
	f.Keeper.SettleSponsorship(f.Ctx, vctx.Encode(), math.NewInt(250))

	require.Equal(t, math.NewInt(-150), f.Keeper.GroupDeposit(f.Ctx, groupID))

	drained := false
	for _, ev := range f.Ctx.EventManager().Events() {
		if ev.Type == types.EventTypeDepositDrained {
			drained = true
		}
	}
	require.True(t, drained, "expected a deposit drained event")
}

// TestSettle_RecordsNullifierGas tests that quota-metered contexts post
// usage against the nullifier
func TestSettle_RecordsNullifierGas(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeNullifierQuotaCache)
	groupID := testGroupID(0x52)
	setupGroup(t, f, groupID, math.NewInt(10_000_000))
	nullifier := testRoot(0x0A)

	vctx := &types.ValidationContext{
		Kind:      types.ContextKindGroupNullifier,
		GroupId:   groupID,
		PreFund:   math.NewInt(500),
		Nullifier: nullifier,
	}
	f.Keeper.SettleSponsorship(f.Ctx, vctx.Encode(), math.NewInt(321))

	record, found := f.Keeper.GasData(f.Ctx, nullifier)
	require.True(t, found)
	require.Equal(t, math.NewInt(321), record.GasUsed)
}

// TestSettle_UndecodableContext tests that a corrupt context raises an
// alarm instead of failing
func TestSettle_UndecodableContext(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeDirectVerify)
	groupID := testGroupID(0x53)
	setupGroup(t, f, groupID, math.NewInt(1000))

	f.Keeper.SettleSponsorship(f.Ctx, []byte{0xDE, 0xAD}, math.NewInt(100))

	// Nothing was debited, and an alarm was raised.
	require.Equal(t, math.NewInt(1000), f.Keeper.GroupDeposit(f.Ctx, groupID))
	alarmed := false
	for _, ev := range f.Ctx.EventManager().Events() {
		if ev.Type == types.EventTypeSettlementAlarm {
			alarmed = true
		}
	}
	require.True(t, alarmed, "expected a settlement alarm event")
}

// TestSettle_UnknownGroup tests that settling against a vanished group
// alarms without panicking
func TestSettle_UnknownGroup(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeDirectVerify)

	vctx := &types.ValidationContext{
		Kind:    types.ContextKindGroup,
		GroupId: testGroupID(0x54),
		PreFund: math.NewInt(100),
	}
	f.Keeper.SettleSponsorship(f.Ctx, vctx.Encode(), math.NewInt(100))

	alarmed := false
	for _, ev := range f.Ctx.EventManager().Events() {
		if ev.Type == types.EventTypeSettlementAlarm {
			alarmed = true
		}
	}
	require.True(t, alarmed, "expected a settlement alarm event")
}

// TestSettle_NegativeCostClamped tests the negative-cost anomaly path
func TestSettle_NegativeCostClamped(t *testing.T) {
	f := keepertest.SponsorshipKeeper(t, keeper.ModeDirectVerify)
	groupID := testGroupID(0x55)
	setupGroup(t, f, groupID, math.NewInt(1000))

	vctx := &types.ValidationContext{
		Kind:    types.ContextKindGroup,
		GroupId: groupID,
		PreFund: math.NewInt(100),
	}
	f.Keeper.SettleSponsorship(f.Ctx, vctx.Encode(), math.NewInt(-5))

	require.Equal(t, math.NewInt(1000), f.Keeper.GroupDeposit(f.Ctx, groupID))
}
