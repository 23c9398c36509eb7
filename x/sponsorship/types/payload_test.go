package types_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

func validProof(t *testing.T) *types.MembershipProof {
	t.Helper()

	field := func(b byte) []byte {
		out := make([]byte, types.FieldElementSize)
		out[types.FieldElementSize-1] = b
		return out
	}
	points := make([][]byte, types.ProofPointCount)
	for i := range points {
		points[i] = field(byte(0x10 + i))
	}
	return &types.MembershipProof{
		MerkleTreeDepth: 16,
		MerkleTreeRoot:  field(0x01),
		Nullifier:       field(0x02),
		Message:         field(0x03),
		Scope:           field(0x04),
		Points:          points,
	}
}

// TestPayload_NewProofRoundTrip tests the new-proof wire format
func TestPayload_NewProofRoundTrip(t *testing.T) {
	groupID := make([]byte, types.FieldElementSize)
	groupID[0] = 0xAB
	proof := validProof(t)

	raw, err := types.EncodePayload(&types.SponsorshipPayload{
		Mode:    types.PayloadModeNew,
		GroupId: groupID,
		Proof:   proof,
	})
	require.NoError(t, err)
	require.Len(t, raw, types.NewPayloadLen)
	require.Equal(t, byte(types.PayloadModeNew), raw[0])

	decoded, err := types.DecodePayload(raw)
	require.NoError(t, err)
	require.Equal(t, types.PayloadModeNew, decoded.Mode)
	require.Equal(t, groupID, decoded.GroupId)
	require.Equal(t, proof, decoded.Proof)
	require.Nil(t, decoded.Nullifier)
}

// TestPayload_CachedForms tests both cached-reference layouts
func TestPayload_CachedForms(t *testing.T) {
	groupID := make([]byte, types.FieldElementSize)
	groupID[0] = 0xCD
	nullifier := make([]byte, types.FieldElementSize)
	nullifier[31] = 0x07

	// Bare cached reference.
	raw, err := types.EncodePayload(&types.SponsorshipPayload{
		Mode:    types.PayloadModeCached,
		GroupId: groupID,
	})
	require.NoError(t, err)
	require.Len(t, raw, types.CachedPayloadLen)

	decoded, err := types.DecodePayload(raw)
	require.NoError(t, err)
	require.Equal(t, types.PayloadModeCached, decoded.Mode)
	require.Nil(t, decoded.Nullifier)

	// Cached reference with nullifier.
	raw, err = types.EncodePayload(&types.SponsorshipPayload{
		Mode:      types.PayloadModeCached,
		GroupId:   groupID,
		Nullifier: nullifier,
	})
	require.NoError(t, err)
	require.Len(t, raw, types.CachedNullifierPayloadLen)

	decoded, err = types.DecodePayload(raw)
	require.NoError(t, err)
	require.Equal(t, nullifier, decoded.Nullifier)
}

// TestDecodePayload_Malformed tests that every structural failure maps to
// the single payload error
func TestDecodePayload_Malformed(t *testing.T) {
	groupID := make([]byte, types.FieldElementSize)

	good, err := types.EncodePayload(&types.SponsorshipPayload{
		Mode:    types.PayloadModeNew,
		GroupId: groupID,
		Proof:   validProof(t),
	})
	require.NoError(t, err)

	cases := map[string][]byte{
		"empty":            {},
		"short header":     good[:16],
		"truncated proof":  good[:types.NewPayloadLen-1],
		"oversized":        append(append([]byte{}, good...), 0x00),
		"unknown mode":     append([]byte{0x7F}, good[1:]...),
		"bare new header":  good[:types.CachedPayloadLen],
		"cached bad width": append([]byte{byte(types.PayloadModeCached)}, make([]byte, types.FieldElementSize+5)...),
	}

	for name, raw := range cases {
		_, err := types.DecodePayload(raw)
		require.ErrorIs(t, err, types.ErrInvalidPayload, name)
	}
}

// TestDecodePayload_ZeroDepthProof tests proof structural validation at
// the wire boundary
func TestDecodePayload_ZeroDepthProof(t *testing.T) {
	proof := validProof(t)
	proof.MerkleTreeDepth = 0

	raw := make([]byte, types.NewPayloadLen)
	raw[0] = byte(types.PayloadModeNew)
	// Depth bytes stay zero; rest of the body is irrelevant.
	_, err := types.DecodePayload(raw)
	require.ErrorIs(t, err, types.ErrInvalidPayload)

	_, err = types.EncodePayload(&types.SponsorshipPayload{
		Mode:    types.PayloadModeNew,
		GroupId: make([]byte, types.FieldElementSize),
		Proof:   proof,
	})
	require.ErrorIs(t, err, types.ErrInvalidPayload)
}

// TestValidationContext_RoundTrip tests both context kinds
func TestValidationContext_RoundTrip(t *testing.T) {
	groupID := make([]byte, types.FieldElementSize)
	groupID[5] = 0x11
	nullifier := make([]byte, types.FieldElementSize)
	nullifier[6] = 0x22

	group := &types.ValidationContext{
		Kind:    types.ContextKindGroup,
		GroupId: groupID,
		PreFund: math.NewInt(600_000),
	}
	decoded, err := types.DecodeValidationContext(group.Encode())
	require.NoError(t, err)
	require.Equal(t, group, decoded)

	metered := &types.ValidationContext{
		Kind:      types.ContextKindGroupNullifier,
		GroupId:   groupID,
		PreFund:   math.NewInt(1),
		Nullifier: nullifier,
	}
	decoded, err = types.DecodeValidationContext(metered.Encode())
	require.NoError(t, err)
	require.Equal(t, metered, decoded)
}

// TestDecodeValidationContext_Malformed tests context decode failures
func TestDecodeValidationContext_Malformed(t *testing.T) {
	group := &types.ValidationContext{
		Kind:    types.ContextKindGroup,
		GroupId: make([]byte, types.FieldElementSize),
		PreFund: math.NewInt(5),
	}
	good := group.Encode()

	for name, raw := range map[string][]byte{
		"empty":        {},
		"short":        good[:10],
		"oversized":    append(append([]byte{}, good...), 0x00),
		"unknown kind": append([]byte{0x9A}, good[1:]...),
	} {
		_, err := types.DecodeValidationContext(raw)
		require.ErrorIs(t, err, types.ErrInvalidContext, name)
	}
}

// TestMessageAndScopeBindings tests the binding value derivations
func TestMessageAndScopeBindings(t *testing.T) {
	sender := sdk.AccAddress([]byte("binding_test_address"))

	msg := types.MessageForSender(sender)
	require.Len(t, msg, types.FieldElementSize)
	require.Equal(t, sender.Bytes(), msg[types.FieldElementSize-len(sender):])

	proof := validProof(t)
	proof.Message = msg
	require.True(t, proof.BindsMessage(sender))
	require.False(t, proof.BindsMessage(sdk.AccAddress([]byte("another_address_____"))))

	groupID := make([]byte, types.FieldElementSize)
	groupID[0] = 0x42
	require.Equal(t, groupID, types.ScopeForGroup(groupID))

	// Epoch-bound scopes differ per epoch and per group.
	require.NotEqual(t, types.ScopeForGroupEpoch(groupID, 1), types.ScopeForGroupEpoch(groupID, 2))
	other := make([]byte, types.FieldElementSize)
	other[0] = 0x43
	require.NotEqual(t, types.ScopeForGroupEpoch(groupID, 1), types.ScopeForGroupEpoch(other, 1))
	require.Len(t, types.ScopeForGroupEpoch(groupID, 1), types.FieldElementSize)
}
