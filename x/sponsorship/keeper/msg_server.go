package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	sharedkeeper "github.com/veilpay-chain/veilpay/x/shared/keeper"
	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the sponsorship MsgServer
// interface for the provided Keeper.
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// CreateGroupAccount registers a prepaid ledger account for a group and
// makes the creator its admin.
func (ms msgServer) CreateGroupAccount(ctx context.Context, msg *types.MsgCreateGroupAccount) (*types.MsgCreateGroupAccountResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	creator, err := sdk.AccAddressFromBech32(msg.Creator)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	if err := ms.Keeper.CreateGroupAccount(ctx, creator, msg.GroupId); err != nil {
		return nil, err
	}

	return &types.MsgCreateGroupAccountResponse{}, nil
}

// DepositForGroup moves coins from the depositor to the module escrow and
// credits the group's ledger balance.
func (ms msgServer) DepositForGroup(ctx context.Context, msg *types.MsgDepositForGroup) (*types.MsgDepositForGroupResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	balance, err := ms.Keeper.DepositForGroup(ctx, depositor, msg.GroupId, msg.Amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgDepositForGroupResponse{NewBalance: balance}, nil
}

// SetMaxGasPerUserPerEpoch overwrites a group's per-epoch gas quota.
// Restricted to the group admin.
func (ms msgServer) SetMaxGasPerUserPerEpoch(ctx context.Context, msg *types.MsgSetMaxGasPerUserPerEpoch) (*types.MsgSetMaxGasPerUserPerEpochResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	account, err := ms.Keeper.GetGroupAccount(ctx, msg.GroupId)
	if err != nil {
		return nil, err
	}
	if account.Admin != msg.Admin {
		return nil, types.ErrUnauthorized.Wrapf("only the group admin may set the quota")
	}

	if err := ms.Keeper.SetGroupQuota(ctx, msg.GroupId, msg.MaxGasPerUserPerEpoch); err != nil {
		return nil, err
	}

	return &types.MsgSetMaxGasPerUserPerEpochResponse{}, nil
}

// AdvanceEpoch recomputes the quota epoch from block time. Anyone may
// call it; within an epoch window it is a no-op.
func (ms msgServer) AdvanceEpoch(ctx context.Context, msg *types.MsgAdvanceEpoch) (*types.MsgAdvanceEpochResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	epoch, err := ms.Keeper.AdvanceEpoch(ctx)
	if err != nil {
		return nil, err
	}

	return &types.MsgAdvanceEpochResponse{Epoch: epoch}, nil
}

// UpdateParams updates module parameters. Governance authority only.
func (ms msgServer) UpdateParams(ctx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	if err := sharedkeeper.ValidateAuthority(ms.Keeper.Authority(), msg.Authority); err != nil {
		return nil, err
	}

	if err := ms.Keeper.SetParams(ctx, msg.Params); err != nil {
		return nil, types.ErrInvalidParams.Wrap(err.Error())
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeyAuthority, msg.Authority),
			sdk.NewAttribute(types.AttributeKeyEpoch, strconv.FormatUint(ms.Keeper.CurrentEpoch(ctx), 10)),
		),
	)

	return &types.MsgUpdateParamsResponse{}, nil
}
