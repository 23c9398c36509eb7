package keeper_test

import (
	"crypto/sha256"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/veilpay-chain/veilpay/testutil/keeper"
	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

func testSender() sdk.AccAddress {
	return sdk.AccAddress([]byte("test_sender_address_"))
}

func testAdmin() sdk.AccAddress {
	return sdk.AccAddress([]byte("test_admin_address__"))
}

func testGroupID(seed byte) []byte {
	id := make([]byte, types.FieldElementSize)
	for i := range id {
		id[i] = seed
	}
	return id
}

func testRoot(seed byte) []byte {
	root := sha256.Sum256([]byte{seed})
	return root[:]
}

// testProof builds a structurally valid membership proof bound to the
// given sender and scope. The stub verifier decides whether it "verifies".
func testProof(sender sdk.AccAddress, scope []byte) *types.MembershipProof {
	points := make([][]byte, types.ProofPointCount)
	for i := range points {
		pt := make([]byte, types.FieldElementSize)
		pt[types.FieldElementSize-1] = byte(i + 1)
		points[i] = pt
	}

	nullifier := sha256.Sum256(append([]byte("nullifier"), sender.Bytes()...))

	return &types.MembershipProof{
		MerkleTreeDepth: 20,
		MerkleTreeRoot:  testRoot(0xAA),
		Nullifier:       nullifier[:],
		Message:         types.MessageForSender(sender),
		Scope:           scope,
		Points:          points,
	}
}

// setupGroup creates a funded group account via the fixture: the admin
// creates the group and the depositor prepays the given amount.
func setupGroup(t *testing.T, f *keepertest.SponsorshipFixture, groupID []byte, deposit math.Int) {
	admin := testAdmin()
	require.NoError(t, f.Keeper.CreateGroupAccount(f.Ctx, admin, groupID))

	if deposit.IsPositive() {
		f.Fund(t, admin, deposit)
		balance, err := f.Keeper.DepositForGroup(f.Ctx, admin, groupID, deposit)
		require.NoError(t, err)
		require.Equal(t, deposit, balance)
	}
}

func newProofPayload(t *testing.T, groupID []byte, proof *types.MembershipProof) []byte {
	raw, err := types.EncodePayload(&types.SponsorshipPayload{
		Mode:    types.PayloadModeNew,
		GroupId: groupID,
		Proof:   proof,
	})
	require.NoError(t, err)
	return raw
}

func cachedPayload(t *testing.T, groupID, nullifier []byte) []byte {
	raw, err := types.EncodePayload(&types.SponsorshipPayload{
		Mode:      types.PayloadModeCached,
		GroupId:   groupID,
		Nullifier: nullifier,
	})
	require.NoError(t, err)
	return raw
}
