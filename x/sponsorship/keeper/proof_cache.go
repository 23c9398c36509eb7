package keeper

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// The proof cache avoids re-running proof verification for members who
// already proved membership. A cached entry stays keyed to the member
// address that created it and carries a snapshot of the merkle root it was
// verified against, so staleness is detected at read time when the group's
// membership set has changed.

// rootPolicy decides what a cached-proof lookup does when the verifier's
// current root has diverged from the cached snapshot.
type rootPolicy int

const (
	// rootPolicyPinned rejects any cached proof whose snapshot no longer
	// matches the current root.
	rootPolicyPinned rootPolicy = iota
	// rootPolicyReverify re-runs verification of the stored proof against
	// the current root and refreshes the snapshot on success.
	rootPolicyReverify
)

// SubmitNewProof verifies a fresh membership proof and caches it for the
// sender. The proof's message must bind to the sender; scope binding is
// checked by the caller because the expected scope differs per variant.
func (k Keeper) SubmitNewProof(ctx context.Context, sender sdk.AccAddress, groupID []byte, proof *types.MembershipProof) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if !proof.BindsMessage(sender) {
		return types.ErrInvalidMessageBinding.Wrapf("sender %s", sender)
	}

	ok, err := k.verifier.VerifyProof(ctx, groupID, proof)
	if err != nil {
		return types.ErrProofRejected.Wrap(err.Error())
	}
	if !ok {
		k.metrics.ProofsRejected.Inc()
		return types.ErrProofRejected.Wrapf("group %s", hex.EncodeToString(groupID))
	}
	k.metrics.ProofsVerified.Inc()

	currentRoot, err := k.verifier.CurrentRoot(ctx, groupID)
	if err != nil {
		return types.ErrVerifierUnavailable.Wrap(err.Error())
	}

	cached := types.CachedProof{
		GroupId:           groupID,
		Proof:             *proof,
		MerkleRootAtCache: currentRoot,
		Valid:             true,
	}
	if err := k.SetCachedProof(ctx, sender, cached); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProofCached,
			sdk.NewAttribute(types.AttributeKeyGroupID, hex.EncodeToString(groupID)),
			sdk.NewAttribute(types.AttributeKeySender, sender.String()),
			sdk.NewAttribute(types.AttributeKeyMerkleRoot, hex.EncodeToString(currentRoot)),
		),
	)

	return nil
}

// UseCachedProof authorizes a member from their cached proof. The policy
// argument selects what happens when the group's merkle root has moved
// since the proof was cached.
func (k Keeper) UseCachedProof(ctx context.Context, member sdk.AccAddress, groupID []byte, policy rootPolicy) (*types.CachedProof, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	cached, err := k.GetCachedProof(ctx, member, groupID)
	if err != nil {
		k.metrics.CacheMisses.Inc()
		return nil, err
	}

	currentRoot, err := k.verifier.CurrentRoot(ctx, groupID)
	if err != nil {
		return nil, types.ErrVerifierUnavailable.Wrap(err.Error())
	}

	if bytes.Equal(cached.MerkleRootAtCache, currentRoot) {
		k.metrics.CacheHits.Inc()
		return cached, nil
	}

	switch policy {
	case rootPolicyPinned:
		k.metrics.CacheStale.Inc()
		return nil, types.ErrStaleCachedProof.Wrapf("cached root %s, current root %s",
			hex.EncodeToString(cached.MerkleRootAtCache), hex.EncodeToString(currentRoot))

	case rootPolicyReverify:
		ok, err := k.verifier.VerifyProof(ctx, groupID, &cached.Proof)
		if err != nil {
			return nil, types.ErrProofRejected.Wrap(err.Error())
		}
		if !ok {
			k.metrics.CacheStale.Inc()
			return nil, types.ErrStaleCachedProof.Wrapf("stored proof no longer valid for root %s",
				hex.EncodeToString(currentRoot))
		}

		cached.MerkleRootAtCache = currentRoot
		if err := k.SetCachedProof(ctx, member, *cached); err != nil {
			return nil, err
		}

		k.metrics.ProofsVerified.Inc()
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeProofRefreshed,
				sdk.NewAttribute(types.AttributeKeyGroupID, hex.EncodeToString(groupID)),
				sdk.NewAttribute(types.AttributeKeySender, member.String()),
				sdk.NewAttribute(types.AttributeKeyMerkleRoot, hex.EncodeToString(currentRoot)),
			),
		)
		return cached, nil

	default:
		return nil, types.ErrStaleCachedProof.Wrap("unknown root policy")
	}
}

// GetCachedProof retrieves the member's cached proof for a group. Absence
// and group mismatch are both ErrNoCachedProof: existence is tracked by
// store presence, never by zero-value defaults.
func (k Keeper) GetCachedProof(ctx context.Context, member sdk.AccAddress, groupID []byte) (*types.CachedProof, error) {
	store := k.getStore(ctx)
	bz := store.Get(CachedProofKey(member, groupID))

	if bz == nil {
		return nil, types.ErrNoCachedProof.Wrapf("member %s, group %s", member, hex.EncodeToString(groupID))
	}

	var cached types.CachedProof
	if err := json.Unmarshal(bz, &cached); err != nil {
		return nil, err
	}

	if !bytes.Equal(cached.GroupId, groupID) || !cached.Valid {
		return nil, types.ErrNoCachedProof.Wrapf("member %s, group %s", member, hex.EncodeToString(groupID))
	}

	return &cached, nil
}

// SetCachedProof stores a member's cached proof.
func (k Keeper) SetCachedProof(ctx context.Context, member sdk.AccAddress, cached types.CachedProof) error {
	store := k.getStore(ctx)
	bz, err := json.Marshal(&cached)
	if err != nil {
		return err
	}

	store.Set(CachedProofKey(member, cached.GroupId), bz)
	return nil
}
