package keeper

import (
	"bytes"
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// proofAuthorizer is the variant-specific proof branch of validation.
// Each variant decides what counts as acceptable membership evidence for
// the sender and returns the nullifier that sponsored gas must be metered
// against, or nil when the variant does not meter gas.
type proofAuthorizer interface {
	authorize(ctx context.Context, sender sdk.AccAddress, payload *types.SponsorshipPayload) ([]byte, error)
}

// directVerifyAuthorizer verifies every proof on every operation and
// keeps no state between operations.
type directVerifyAuthorizer struct {
	k *Keeper
}

func (a directVerifyAuthorizer) authorize(ctx context.Context, sender sdk.AccAddress, payload *types.SponsorshipPayload) ([]byte, error) {
	if payload.Mode != types.PayloadModeNew {
		return nil, types.ErrModeUnsupported.Wrap("cached references require a caching variant")
	}
	if !bytes.Equal(payload.Proof.Scope, types.ScopeForGroup(payload.GroupId)) {
		return nil, types.ErrInvalidScopeBinding.Wrap("proof scope does not commit to the group")
	}
	if !payload.Proof.BindsMessage(sender) {
		return nil, types.ErrInvalidMessageBinding.Wrap("proof message does not commit to the sender")
	}

	valid, err := a.k.verifier.VerifyProof(ctx, payload.GroupId, payload.Proof)
	if err != nil {
		return nil, err
	}
	if !valid {
		a.k.metrics.ProofsRejected.Inc()
		return nil, types.ErrProofRejected.Wrap("membership proof did not verify")
	}
	a.k.metrics.ProofsVerified.Inc()

	return nil, nil
}

// rootPinnedAuthorizer caches verified proofs and accepts cached entries
// only while the group's merkle root has not moved since caching.
type rootPinnedAuthorizer struct {
	k *Keeper
}

func (a rootPinnedAuthorizer) authorize(ctx context.Context, sender sdk.AccAddress, payload *types.SponsorshipPayload) ([]byte, error) {
	switch payload.Mode {
	case types.PayloadModeNew:
		if !bytes.Equal(payload.Proof.Scope, types.ScopeForGroup(payload.GroupId)) {
			return nil, types.ErrInvalidScopeBinding.Wrap("proof scope does not commit to the group")
		}
		return nil, a.k.SubmitNewProof(ctx, sender, payload.GroupId, payload.Proof)

	case types.PayloadModeCached:
		_, err := a.k.UseCachedProof(ctx, sender, payload.GroupId, rootPolicyPinned)
		return nil, err

	default:
		return nil, types.ErrInvalidPayload.Wrapf("unknown mode flag 0x%02x", byte(payload.Mode))
	}
}

// nullifierQuotaAuthorizer caches verified proofs, re-verifies a cached
// entry when the root moves, and reports the nullifier so the pipeline
// can meter sponsored gas against the per-epoch quota.
type nullifierQuotaAuthorizer struct {
	k *Keeper
}

func (a nullifierQuotaAuthorizer) authorize(ctx context.Context, sender sdk.AccAddress, payload *types.SponsorshipPayload) ([]byte, error) {
	switch payload.Mode {
	case types.PayloadModeNew:
		// The scope must commit to the current epoch, which bounds how
		// long a cached proof can keep spending without re-proving.
		epoch := a.k.CurrentEpoch(ctx)
		if !bytes.Equal(payload.Proof.Scope, types.ScopeForGroupEpoch(payload.GroupId, epoch)) {
			return nil, types.ErrInvalidScopeBinding.Wrapf("proof scope does not commit to group and epoch %d", epoch)
		}
		if err := a.k.SubmitNewProof(ctx, sender, payload.GroupId, payload.Proof); err != nil {
			return nil, err
		}

		root, err := a.k.verifier.CurrentRoot(ctx, payload.GroupId)
		if err != nil {
			return nil, err
		}
		if err := a.k.TouchGasQuotaRecord(ctx, payload.Proof.Nullifier, root); err != nil {
			return nil, err
		}
		return payload.Proof.Nullifier, nil

	case types.PayloadModeCached:
		if len(payload.Nullifier) == 0 {
			return nil, types.ErrInvalidPayload.Wrap("cached reference requires a nullifier")
		}

		cached, err := a.k.UseCachedProof(ctx, sender, payload.GroupId, rootPolicyReverify)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(cached.Proof.Nullifier, payload.Nullifier) {
			return nil, types.ErrInvalidPayload.Wrap("nullifier does not match the cached proof")
		}

		if err := a.k.TouchGasQuotaRecord(ctx, payload.Nullifier, cached.MerkleRootAtCache); err != nil {
			return nil, err
		}
		return payload.Nullifier, nil

	default:
		return nil, types.ErrInvalidPayload.Wrapf("unknown mode flag 0x%02x", byte(payload.Mode))
	}
}

// policyDelegateAuthorizer hands the membership decision to an external
// capability policy. The core checks only the sender and group bindings;
// it keeps no proof cache and tracks no nullifiers, so replay resistance
// is whatever the policy provides.
type policyDelegateAuthorizer struct {
	k *Keeper
}

func (a policyDelegateAuthorizer) authorize(ctx context.Context, sender sdk.AccAddress, payload *types.SponsorshipPayload) ([]byte, error) {
	if payload.Mode != types.PayloadModeNew {
		return nil, types.ErrModeUnsupported.Wrap("cached references require a caching variant")
	}
	if a.k.policy == nil {
		return nil, types.ErrPolicyNotConfigured
	}

	if !bytes.Equal(payload.Proof.Scope, types.ScopeForGroup(payload.GroupId)) {
		return nil, types.ErrInvalidScopeBinding.Wrap("proof scope does not commit to the group")
	}
	if !payload.Proof.BindsMessage(sender) {
		return nil, types.ErrInvalidMessageBinding.Wrap("proof message does not commit to the sender")
	}

	if err := a.k.policy.Authorize(ctx, payload.GroupId, sender, payload.Proof); err != nil {
		return nil, err
	}

	return nil, nil
}
