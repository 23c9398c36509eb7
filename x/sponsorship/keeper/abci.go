package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	sharedabci "github.com/veilpay-chain/veilpay/x/shared/abci"
	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// BeginBlocker advances the quota epoch when block time has crossed an
// epoch boundary. Within an epoch window this is a no-op, so the call is
// cheap on every block. A failed advance is logged and reported, never
// returned: the current epoch simply stays in effect one block longer.
func (k Keeper) BeginBlocker(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	handler := sharedabci.NewBlockerErrorHandler(sdkCtx, types.ModuleName)

	_, err := k.AdvanceEpoch(ctx)
	handler.WrapError("advance_epoch", sharedabci.SeverityMedium, err)
	return nil
}
