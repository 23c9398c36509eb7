package keeper

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// RegisterInvariants registers all sponsorship module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "deposit-backing",
		DepositBackingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "gas-records",
		GasRecordInvariant(k))
}

// AllInvariants runs all invariants of the sponsorship module
func AllInvariants(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := DepositBackingInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return GasRecordInvariant(k)(ctx)
	}
}

// DepositBackingInvariant checks that the module escrow account holds at
// least the sum of all positive group balances. Settlement may push an
// individual group negative, but coins never leave the escrow, so the
// positive part of the ledger must always be backed.
func DepositBackingInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)

		params, err := k.GetParams(ctx)
		if err != nil {
			return sdk.FormatInvariant(
				types.ModuleName, "deposit-backing",
				fmt.Sprintf("error getting params: %v", err),
			), true
		}

		moduleAddr := k.accountKeeper.GetModuleAddress(types.ModuleName)
		moduleBalance := k.bankKeeper.GetBalance(ctx, moduleAddr, params.Denom)

		totalPositive := math.ZeroInt()
		err = k.IterateGroupAccounts(ctx, func(account types.GroupAccount) (bool, error) {
			if account.Deposit.IsPositive() {
				totalPositive = totalPositive.Add(account.Deposit)
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(
				types.ModuleName, "deposit-backing",
				fmt.Sprintf("error iterating group accounts: %v", err),
			), true
		}

		if moduleBalance.Amount.LT(totalPositive) {
			broken = true
			msg = fmt.Sprintf(
				"module escrow does not back positive group balances\n"+
					"\tmodule balance: %s\n"+
					"\tpositive balances: %s",
				moduleBalance.Amount, totalPositive,
			)
		}

		return sdk.FormatInvariant(
			types.ModuleName, "deposit-backing",
			msg,
		), broken
	}
}

// GasRecordInvariant checks that every gas quota record decodes and
// carries a non-negative gas counter and an epoch no further ahead than
// the current one.
func GasRecordInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
			count  int
		)

		current := k.CurrentEpoch(ctx)

		store := k.getStore(ctx)
		iter := storetypes.KVStorePrefixIterator(store, GasQuotaRecordKeyPrefix)
		defer iter.Close()

		for ; iter.Valid(); iter.Next() {
			nullifier := iter.Key()[len(GasQuotaRecordKeyPrefix):]

			var record types.GasQuotaRecord
			if err := json.Unmarshal(iter.Value(), &record); err != nil {
				broken = true
				count++
				msg += fmt.Sprintf("undecodable gas record for nullifier %s: %v\n", hex.EncodeToString(nullifier), err)
				continue
			}

			if record.GasUsed.IsNil() || record.GasUsed.IsNegative() {
				broken = true
				count++
				msg += fmt.Sprintf("negative gas counter for nullifier %s\n", hex.EncodeToString(nullifier))
			}
			if record.Epoch > current {
				broken = true
				count++
				msg += fmt.Sprintf("gas record for nullifier %s stamped with future epoch %d (current %d)\n",
					hex.EncodeToString(nullifier), record.Epoch, current)
			}
		}

		if count > 0 {
			msg = fmt.Sprintf("%d corrupt gas quota records:\n%s", count, msg)
		}

		return sdk.FormatInvariant(
			types.ModuleName, "gas-records",
			msg,
		), broken
	}
}
