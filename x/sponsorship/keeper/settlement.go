package keeper

import (
	"context"
	"encoding/hex"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// SettleSponsorship posts the actual gas cost of an already-executed
// operation against the group identified by the validation context. The
// operation has run and its gas is spent, so this phase can never refuse:
// every anomaly is raised as an alarm for operators while the accounting
// proceeds as far as it can. The group ledger is allowed to go negative
// here; validation is the only gate.
func (k Keeper) SettleSponsorship(ctx context.Context, rawContext []byte, actualCost math.Int) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	vctx, err := types.DecodeValidationContext(rawContext)
	if err != nil {
		k.settlementAlarm(sdkCtx, "undecodable_context", err.Error())
		return
	}

	if actualCost.IsNegative() {
		k.settlementAlarm(sdkCtx, "negative_cost", "actual cost "+actualCost.String()+" clamped to zero")
		actualCost = math.ZeroInt()
	}

	balance, err := k.DebitGroup(ctx, vctx.GroupId, actualCost)
	if err != nil {
		// DebitGroup only fails when the group record vanished between
		// validation and settlement.
		k.settlementAlarm(sdkCtx, "group_missing", err.Error())
		balance = math.ZeroInt()
	}

	if vctx.Kind == types.ContextKindGroupNullifier {
		if err := k.RecordGas(ctx, vctx.Nullifier, actualCost); err != nil {
			k.settlementAlarm(sdkCtx, "gas_record_failed", err.Error())
		}
	}

	k.metrics.SettlementsTotal.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOperationSettled,
			sdk.NewAttribute(types.AttributeKeyGroupID, hex.EncodeToString(vctx.GroupId)),
			sdk.NewAttribute(types.AttributeKeyPreFund, vctx.PreFund.String()),
			sdk.NewAttribute(types.AttributeKeyActualCost, actualCost.String()),
			sdk.NewAttribute(types.AttributeKeyBalance, balance.String()),
		),
	)
}

// settlementAlarm records a settlement anomaly without interrupting the
// settlement itself.
func (k Keeper) settlementAlarm(sdkCtx sdk.Context, reason, description string) {
	k.metrics.SettlementAnomalies.WithLabelValues(reason).Inc()

	sdkCtx.Logger().Error("sponsorship settlement anomaly",
		"reason", reason,
		"description", description,
	)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSettlementAlarm,
			sdk.NewAttribute(types.AttributeKeySeverity, "CRITICAL"),
			sdk.NewAttribute(types.AttributeKeyStatus, reason),
			sdk.NewAttribute(types.AttributeKeyDescription, description),
		),
	)
}
