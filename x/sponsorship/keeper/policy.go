package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// SponsorshipPolicy decides whether a sender may spend a group's deposit.
// It is the external capability collaborator used by the policy-delegate
// authorizer. Implementations own the whole membership decision; the
// sponsorship core does not verify proofs or track nullifiers on this
// path, so a policy that wants replay protection must provide its own.
type SponsorshipPolicy interface {
	Authorize(ctx context.Context, groupID []byte, sender sdk.AccAddress, proof *types.MembershipProof) error
}

// VerifierBackedPolicy is a policy that accepts any sender holding a
// valid membership proof for the group. It reuses the module's membership
// verifier and adds nothing on top.
type VerifierBackedPolicy struct {
	verifier MembershipVerifier
}

// NewVerifierBackedPolicy wraps a membership verifier as a policy.
func NewVerifierBackedPolicy(verifier MembershipVerifier) *VerifierBackedPolicy {
	return &VerifierBackedPolicy{verifier: verifier}
}

// Authorize verifies the membership proof against the group.
func (p *VerifierBackedPolicy) Authorize(ctx context.Context, groupID []byte, sender sdk.AccAddress, proof *types.MembershipProof) error {
	if proof == nil {
		return types.ErrPolicyRejected.Wrap("no membership evidence supplied")
	}

	valid, err := p.verifier.VerifyProof(ctx, groupID, proof)
	if err != nil {
		return err
	}
	if !valid {
		return types.ErrPolicyRejected.Wrap("membership proof did not verify")
	}

	return nil
}
