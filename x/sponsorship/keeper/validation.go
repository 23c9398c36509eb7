package keeper

import (
	"context"
	"encoding/hex"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// Validation status values returned to the sponsoring entrypoint. A
// rejected operation carries only this coarse status; the concrete cause
// stays in logs, metrics and events so callers cannot probe group
// membership through error details.
const (
	ValidationStatusOK       uint32 = 0
	ValidationStatusRejected uint32 = 1
)

// ValidationResult is the outcome of the validation phase. Context is
// only set when Status is ValidationStatusOK and carries everything
// settlement needs to post the actual cost.
type ValidationResult struct {
	Status  uint32
	Context []byte
}

// ValidateSponsorship runs the full authorization pipeline for a
// sponsored operation: payload decoding, ledger pre-fund check, the
// variant's proof branch and, for quota-metered variants, epoch gas
// admission. Errors are returned only for store corruption; every
// authorization failure folds into the rejected status.
func (k Keeper) ValidateSponsorship(ctx context.Context, sender sdk.AccAddress, rawPayload []byte, preFund math.Int) (*ValidationResult, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	payload, err := types.DecodePayload(rawPayload)
	if err != nil {
		return k.rejectOperation(sdkCtx, sender, nil, err), nil
	}

	if !preFund.IsPositive() {
		return k.rejectOperation(sdkCtx, sender, payload.GroupId, types.ErrZeroAmount.Wrap("pre-fund must be positive")), nil
	}

	account, err := k.GetGroupAccount(ctx, payload.GroupId)
	if err != nil {
		return k.rejectOperation(sdkCtx, sender, payload.GroupId, err), nil
	}
	if account.Deposit.LT(preFund) {
		return k.rejectOperation(sdkCtx, sender, payload.GroupId,
			types.ErrInsufficientBalance.Wrapf("deposit %s cannot cover pre-fund %s", account.Deposit, preFund)), nil
	}

	// The authorize branch writes cache entries and gas-record stamps, so
	// it runs on a branched store that is committed only on approval: a
	// rejected operation must leave no externally visible state behind.
	branchCtx, writeBranch := sdkCtx.CacheContext()

	nullifier, err := k.authorizer.authorize(branchCtx, sender, payload)
	if err != nil {
		return k.rejectOperation(sdkCtx, sender, payload.GroupId, err), nil
	}

	vctx := &types.ValidationContext{
		Kind:    types.ContextKindGroup,
		GroupId: payload.GroupId,
		PreFund: preFund,
	}
	if nullifier != nil {
		if err := k.AdmitGas(branchCtx, nullifier, payload.GroupId, preFund); err != nil {
			return k.rejectOperation(sdkCtx, sender, payload.GroupId, err), nil
		}
		vctx.Kind = types.ContextKindGroupNullifier
		vctx.Nullifier = nullifier
	}

	writeBranch()

	k.metrics.ValidationsApproved.WithLabelValues(string(k.mode)).Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOperationApproved,
			sdk.NewAttribute(types.AttributeKeySender, sender.String()),
			sdk.NewAttribute(types.AttributeKeyGroupID, hex.EncodeToString(payload.GroupId)),
			sdk.NewAttribute(types.AttributeKeyMode, string(k.mode)),
			sdk.NewAttribute(types.AttributeKeyPreFund, preFund.String()),
		),
	)

	return &ValidationResult{Status: ValidationStatusOK, Context: vctx.Encode()}, nil
}

// rejectOperation records why an operation was rejected and returns the
// coarse rejection result.
func (k Keeper) rejectOperation(sdkCtx sdk.Context, sender sdk.AccAddress, groupID []byte, cause error) *ValidationResult {
	reason := rejectReason(cause)

	k.metrics.ValidationsRejected.WithLabelValues(string(k.mode), reason).Inc()

	sdkCtx.Logger().Info("sponsorship operation rejected",
		"sender", sender.String(),
		"group_id", hex.EncodeToString(groupID),
		"mode", string(k.mode),
		"reason", reason,
		"cause", cause.Error(),
	)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOperationRejected,
			sdk.NewAttribute(types.AttributeKeySender, sender.String()),
			sdk.NewAttribute(types.AttributeKeyGroupID, hex.EncodeToString(groupID)),
			sdk.NewAttribute(types.AttributeKeyMode, string(k.mode)),
			sdk.NewAttribute(types.AttributeKeyStatus, "rejected"),
		),
	)

	return &ValidationResult{Status: ValidationStatusRejected}
}

// rejectReason collapses a rejection cause to a low-cardinality label.
func rejectReason(cause error) string {
	switch {
	case errorsmod.IsOf(cause, types.ErrInvalidPayload):
		return "invalid_payload"
	case errorsmod.IsOf(cause, types.ErrGroupNotFound):
		return "group_not_found"
	case errorsmod.IsOf(cause, types.ErrZeroAmount, types.ErrInsufficientBalance):
		return "insufficient_balance"
	case errorsmod.IsOf(cause, types.ErrInvalidMessageBinding, types.ErrInvalidScopeBinding):
		return "binding_mismatch"
	case errorsmod.IsOf(cause, types.ErrProofRejected):
		return "proof_rejected"
	case errorsmod.IsOf(cause, types.ErrNoCachedProof, types.ErrStaleCachedProof):
		return "cache_unusable"
	case errorsmod.IsOf(cause, types.ErrQuotaExceeded, types.ErrQuotaNotSet):
		return "quota"
	case errorsmod.IsOf(cause, types.ErrPolicyRejected, types.ErrPolicyNotConfigured):
		return "policy"
	case errorsmod.IsOf(cause, types.ErrModeUnsupported):
		return "mode_unsupported"
	case errorsmod.IsOf(cause, types.ErrVerifierUnavailable, types.ErrProofTooLarge):
		return "verifier"
	default:
		return "other"
	}
}
