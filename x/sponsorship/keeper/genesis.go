package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// InitGenesis sets the sponsorship module state from genesis.
func (k Keeper) InitGenesis(ctx sdk.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid sponsorship genesis: %w", err)
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return err
	}

	for _, group := range genState.Groups {
		if err := k.SetGroupAccount(ctx, group); err != nil {
			return err
		}
	}

	for _, quota := range genState.Quotas {
		amount, ok := math.NewIntFromString(quota.Quota)
		if !ok {
			return fmt.Errorf("invalid quota amount %q", quota.Quota)
		}
		if err := k.SetGroupQuota(ctx, quota.GroupId, amount); err != nil {
			return err
		}
	}

	if genState.Epoch.AdvancedAt != 0 {
		if err := k.setEpochState(ctx, genState.Epoch); err != nil {
			return err
		}
	}

	return nil
}

// ExportGenesis returns the sponsorship module's exported state.
func (k Keeper) ExportGenesis(ctx sdk.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	genState := &types.GenesisState{
		Params: params,
		Groups: []types.GroupAccount{},
		Quotas: []types.GenesisQuota{},
		Epoch:  k.GetEpochState(ctx),
	}

	err = k.IterateGroupAccounts(ctx, func(account types.GroupAccount) (bool, error) {
		genState.Groups = append(genState.Groups, account)
		if quota, ok := k.GetGroupQuota(ctx, account.GroupId); ok {
			genState.Quotas = append(genState.Quotas, types.GenesisQuota{
				GroupId: account.GroupId,
				Quota:   quota.String(),
			})
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return genState, nil
}
