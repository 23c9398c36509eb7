package keeper

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// The epoch gas meter bounds how much sponsored gas one proof holder may
// consume per epoch. Holders are identified by the proof's nullifier, not
// by address, so rate limiting does not deanonymize them. The epoch
// counter is advanced through an explicit call because validation itself
// must treat it as a frozen read-only value.

// SetGroupQuota overwrites a group's per-member gas quota per epoch.
// Authorization (group admin) is enforced by the message server.
func (k Keeper) SetGroupQuota(ctx context.Context, groupID []byte, quota math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	store := k.getStore(ctx)
	bz, err := json.Marshal(quota)
	if err != nil {
		return err
	}
	store.Set(GroupQuotaKey(groupID), bz)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeQuotaSet,
			sdk.NewAttribute(types.AttributeKeyGroupID, hex.EncodeToString(groupID)),
			sdk.NewAttribute(types.AttributeKeyQuota, quota.String()),
		),
	)

	return nil
}

// GetGroupQuota returns a group's configured quota. A group without a
// configured quota admits nothing.
func (k Keeper) GetGroupQuota(ctx context.Context, groupID []byte) (math.Int, bool) {
	store := k.getStore(ctx)
	bz := store.Get(GroupQuotaKey(groupID))
	if bz == nil {
		return math.ZeroInt(), false
	}

	var quota math.Int
	if err := json.Unmarshal(bz, &quota); err != nil {
		return math.ZeroInt(), false
	}
	return quota, true
}

// AdvanceEpoch recomputes the current epoch from block time and stores it
// if it moved forward. Callable by anyone; a no-op within the same window.
func (k Keeper) AdvanceEpoch(ctx context.Context) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get params: %w", err)
	}

	now := sdkCtx.BlockTime().Unix()
	var computed uint64
	if now > params.FirstEpochTime {
		computed = uint64(now-params.FirstEpochTime) / params.EpochDurationSeconds
	}

	// Monotonic and idempotent: the counter never moves backwards, and
	// re-advancing within the same window changes nothing.
	state := k.GetEpochState(ctx)
	if state.AdvancedAt != 0 && computed <= state.Current {
		return state.Current, nil
	}

	state.Current = computed
	state.AdvancedAt = now
	if err := k.setEpochState(ctx, state); err != nil {
		return 0, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEpochAdvanced,
			sdk.NewAttribute(types.AttributeKeyEpoch, fmt.Sprintf("%d", computed)),
		),
	)

	return computed, nil
}

// CurrentEpoch returns the stored epoch counter. Validation reads this and
// never wall-clock time.
func (k Keeper) CurrentEpoch(ctx context.Context) uint64 {
	return k.GetEpochState(ctx).Current
}

// GetEpochState retrieves the epoch counter state.
func (k Keeper) GetEpochState(ctx context.Context) types.EpochState {
	store := k.getStore(ctx)
	bz := store.Get(EpochStateKey)
	if bz == nil {
		return types.EpochState{}
	}

	var state types.EpochState
	if err := json.Unmarshal(bz, &state); err != nil {
		return types.EpochState{}
	}
	return state
}

func (k Keeper) setEpochState(ctx context.Context, state types.EpochState) error {
	store := k.getStore(ctx)
	bz, err := json.Marshal(&state)
	if err != nil {
		return err
	}
	store.Set(EpochStateKey, bz)
	return nil
}

// AdmitGas checks whether the nullifier may consume requiredAmount more
// sponsored gas in the current epoch. A record whose stored epoch lags the
// current one counts as zero usage; the physical reset happens when the
// record is next written.
func (k Keeper) AdmitGas(ctx context.Context, nullifier, groupID []byte, required math.Int) error {
	quota, ok := k.GetGroupQuota(ctx, groupID)
	if !ok {
		return types.ErrQuotaNotSet.Wrapf("group %s", hex.EncodeToString(groupID))
	}

	epoch := k.CurrentEpoch(ctx)
	used := math.ZeroInt()
	if record, found := k.GetGasQuotaRecord(ctx, nullifier); found && record.Epoch == epoch {
		used = record.GasUsed
	}

	if used.Add(required).GT(quota) {
		k.metrics.QuotaRejections.Inc()
		return types.ErrQuotaExceeded.Wrapf("used %s + required %s > quota %s in epoch %d",
			used, required, quota, epoch)
	}

	return nil
}

// TouchGasQuotaRecord stamps the nullifier's record with the current epoch
// and merkle root after a successful admission, resetting usage if the
// record belongs to an earlier epoch.
func (k Keeper) TouchGasQuotaRecord(ctx context.Context, nullifier, merkleRoot []byte) error {
	epoch := k.CurrentEpoch(ctx)

	record, found := k.GetGasQuotaRecord(ctx, nullifier)
	if !found || record.Epoch != epoch {
		record = types.GasQuotaRecord{GasUsed: math.ZeroInt()}
	}
	record.Epoch = epoch
	record.LastMerkleRoot = merkleRoot

	return k.SetGasQuotaRecord(ctx, nullifier, record)
}

// RecordGas posts the actual sponsored cost against a nullifier. Called
// only from settlement, after the sponsored call already executed, so it
// never re-checks the quota and never fails the operation.
func (k Keeper) RecordGas(ctx context.Context, nullifier []byte, actual math.Int) error {
	epoch := k.CurrentEpoch(ctx)

	record, found := k.GetGasQuotaRecord(ctx, nullifier)
	if !found || record.Epoch != epoch {
		record = types.GasQuotaRecord{
			GasUsed:        math.ZeroInt(),
			LastMerkleRoot: record.LastMerkleRoot,
			Epoch:          epoch,
		}
	}
	record.GasUsed = record.GasUsed.Add(actual)

	return k.SetGasQuotaRecord(ctx, nullifier, record)
}

// GetGasQuotaRecord retrieves the quota record for a nullifier. The bool
// result is the explicit existence flag; absent records are never
// conflated with zero-value ones.
func (k Keeper) GetGasQuotaRecord(ctx context.Context, nullifier []byte) (types.GasQuotaRecord, bool) {
	store := k.getStore(ctx)
	bz := store.Get(GasQuotaRecordKey(nullifier))
	if bz == nil {
		return types.GasQuotaRecord{GasUsed: math.ZeroInt()}, false
	}

	var record types.GasQuotaRecord
	if err := json.Unmarshal(bz, &record); err != nil {
		return types.GasQuotaRecord{GasUsed: math.ZeroInt()}, false
	}
	return record, true
}

// SetGasQuotaRecord stores the quota record for a nullifier.
func (k Keeper) SetGasQuotaRecord(ctx context.Context, nullifier []byte, record types.GasQuotaRecord) error {
	store := k.getStore(ctx)
	bz, err := json.Marshal(&record)
	if err != nil {
		return err
	}
	store.Set(GasQuotaRecordKey(nullifier), bz)
	return nil
}

// GasData is the read surface for a nullifier's quota record.
func (k Keeper) GasData(ctx context.Context, nullifier []byte) (types.GasQuotaRecord, bool) {
	return k.GetGasQuotaRecord(ctx, nullifier)
}
