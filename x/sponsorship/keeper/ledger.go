package keeper

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// The group ledger is pure accounting: a prepaid balance per group,
// increased by deposits and decreased by settlement. Funds themselves sit
// in the module escrow account; the ledger attributes them to groups.

// CreateGroupAccount registers a sponsorship account for a group with the
// creator as group admin. The group's membership set is managed by the
// external verifier, not here.
func (k Keeper) CreateGroupAccount(ctx context.Context, creator sdk.AccAddress, groupID []byte) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if _, err := k.GetGroupAccount(ctx, groupID); err == nil {
		return types.ErrGroupExists.Wrapf("group %s", hex.EncodeToString(groupID))
	}

	account := types.GroupAccount{
		GroupId: groupID,
		Admin:   creator.String(),
		Deposit: math.ZeroInt(),
	}
	if err := k.SetGroupAccount(ctx, account); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeGroupCreated,
			sdk.NewAttribute(types.AttributeKeyGroupID, hex.EncodeToString(groupID)),
			sdk.NewAttribute(types.AttributeKeyAdmin, creator.String()),
		),
	)

	return nil
}

// DepositForGroup increases a group's prepaid balance and forwards the
// same amount to the module escrow account so it is available to cover
// sponsored calls.
func (k Keeper) DepositForGroup(ctx context.Context, depositor sdk.AccAddress, groupID []byte, amount math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if amount.IsNil() || !amount.IsPositive() {
		return math.Int{}, types.ErrZeroAmount.Wrapf("got %s", amount)
	}

	account, err := k.GetGroupAccount(ctx, groupID)
	if err != nil {
		return math.Int{}, err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, fmt.Errorf("failed to get params: %w", err)
	}

	// Move the funds before touching the ledger so a failed transfer
	// cannot leave phantom balance behind.
	coins := sdk.NewCoins(sdk.NewCoin(params.Denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(sdkCtx, depositor, types.ModuleName, coins); err != nil {
		return math.Int{}, fmt.Errorf("failed to escrow deposit: %w", err)
	}

	account.Deposit = account.Deposit.Add(amount)
	if err := k.SetGroupAccount(ctx, *account); err != nil {
		return math.Int{}, err
	}

	k.metrics.DepositsTotal.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeGroupDeposit,
			sdk.NewAttribute(types.AttributeKeyGroupID, hex.EncodeToString(groupID)),
			sdk.NewAttribute(types.AttributeKeyDepositor, depositor.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyBalance, account.Deposit.String()),
		),
	)

	return account.Deposit, nil
}

// HasSufficientBalance reports whether the group's prepaid balance covers
// the required amount. Unknown groups have no balance.
func (k Keeper) HasSufficientBalance(ctx context.Context, groupID []byte, required math.Int) bool {
	account, err := k.GetGroupAccount(ctx, groupID)
	if err != nil {
		return false
	}
	return account.Deposit.GTE(required)
}

// DebitGroup unconditionally subtracts the actual cost from a group's
// balance. Callers authorized the estimated cost during validation; the
// actual cost may exceed it, in which case the balance goes negative and
// the gap is surfaced through an alarm event rather than clamped.
func (k Keeper) DebitGroup(ctx context.Context, groupID []byte, amount math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	account, err := k.GetGroupAccount(ctx, groupID)
	if err != nil {
		return math.Int{}, err
	}

	account.Deposit = account.Deposit.Sub(amount)
	if err := k.SetGroupAccount(ctx, *account); err != nil {
		return math.Int{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeGroupDebited,
			sdk.NewAttribute(types.AttributeKeyGroupID, hex.EncodeToString(groupID)),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyBalance, account.Deposit.String()),
		),
	)

	if account.Deposit.IsNegative() {
		k.metrics.NegativeBalances.Inc()
		sdkCtx.Logger().Error("group deposit drained below zero",
			"group", hex.EncodeToString(groupID),
			"balance", account.Deposit.String(),
		)
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeDepositDrained,
				sdk.NewAttribute(types.AttributeKeyGroupID, hex.EncodeToString(groupID)),
				sdk.NewAttribute(types.AttributeKeyBalance, account.Deposit.String()),
				sdk.NewAttribute(types.AttributeKeySeverity, "CRITICAL"),
			),
		)
	}

	return account.Deposit, nil
}

// GetGroupAccount retrieves a group's ledger account.
func (k Keeper) GetGroupAccount(ctx context.Context, groupID []byte) (*types.GroupAccount, error) {
	store := k.getStore(ctx)
	bz := store.Get(GroupAccountKey(groupID))

	if bz == nil {
		return nil, types.ErrGroupNotFound.Wrapf("group %s", hex.EncodeToString(groupID))
	}

	var account types.GroupAccount
	if err := json.Unmarshal(bz, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// SetGroupAccount stores a group's ledger account.
func (k Keeper) SetGroupAccount(ctx context.Context, account types.GroupAccount) error {
	store := k.getStore(ctx)
	bz, err := json.Marshal(&account)
	if err != nil {
		return err
	}

	store.Set(GroupAccountKey(account.GroupId), bz)
	return nil
}

// GroupDeposit is the read surface for a group's current balance.
func (k Keeper) GroupDeposit(ctx context.Context, groupID []byte) math.Int {
	account, err := k.GetGroupAccount(ctx, groupID)
	if err != nil {
		return math.ZeroInt()
	}
	return account.Deposit
}

// IterateGroupAccounts walks every group ledger account.
func (k Keeper) IterateGroupAccounts(ctx context.Context, cb func(account types.GroupAccount) (stop bool, err error)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, GroupAccountKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var account types.GroupAccount
		if err := json.Unmarshal(iterator.Value(), &account); err != nil {
			return err
		}
		stop, err := cb(account)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}

	return nil
}
