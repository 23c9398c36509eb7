package keeper

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/frontend"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// MembershipVerifier is the external zero-knowledge collaborator: it
// checks membership proofs and exposes the group's current merkle root.
// Group creation and membership management happen behind this interface
// and are invisible to the sponsorship core.
type MembershipVerifier interface {
	VerifyProof(ctx context.Context, groupID []byte, proof *types.MembershipProof) (bool, error)
	CurrentRoot(ctx context.Context, groupID []byte) ([]byte, error)
}

// GrothVerifier verifies Groth16 membership proofs on BN254 against a
// verifying key registered per group. The merkle root for each group is
// pushed in by the external membership manager; this core only reads it.
type GrothVerifier struct {
	keeper *Keeper

	// vkCache holds deserialized verifying keys. Deserialization is the
	// expensive part of verification setup; keys only change through
	// RegisterGroupVerifyingKey, which invalidates the entry.
	vkCacheMu sync.RWMutex
	vkCache   map[string]groth16.VerifyingKey
}

// NewGrothVerifier creates a Groth16-backed membership verifier bound to
// the keeper's store.
func NewGrothVerifier(keeper *Keeper) *GrothVerifier {
	return &GrothVerifier{
		keeper:  keeper,
		vkCache: make(map[string]groth16.VerifyingKey),
	}
}

// membershipWitness mirrors the public signals of the membership circuit:
// merkle root, nullifier, message, scope, in that order. The constraint
// system itself is compiled externally; only its verifying key is
// registered here, so Define carries no constraints.
type membershipWitness struct {
	MerkleTreeRoot frontend.Variable `gnark:",public"`
	Nullifier      frontend.Variable `gnark:",public"`
	Message        frontend.Variable `gnark:",public"`
	Scope          frontend.Variable `gnark:",public"`
}

func (w *membershipWitness) Define(frontend.API) error {
	return nil
}

// VerifyProof checks the proof's points against the group's registered
// verifying key, with the proof's public signals as witness. The proof's
// embedded merkle root must match the group's current root: a proof is
// only evidence of membership in the tree the root commits to, so a
// mismatched root means the proof says nothing about this group's
// current membership set.
func (v *GrothVerifier) VerifyProof(ctx context.Context, groupID []byte, proof *types.MembershipProof) (bool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := v.keeper.GetParams(ctx)
	if err != nil {
		return false, err
	}

	if err := proof.Validate(); err != nil {
		return false, types.ErrProofRejected.Wrap(err.Error())
	}
	if len(proof.PointsBytes()) > int(params.MaxProofSize) {
		return false, types.ErrProofTooLarge.Wrapf("%d > %d", len(proof.PointsBytes()), params.MaxProofSize)
	}

	currentRoot, err := v.CurrentRoot(ctx, groupID)
	if err != nil {
		return false, err
	}
	if new(big.Int).SetBytes(proof.MerkleTreeRoot).Cmp(new(big.Int).SetBytes(currentRoot)) != 0 {
		return false, nil
	}

	vk, err := v.verifyingKey(ctx, groupID)
	if err != nil {
		return false, err
	}

	g16Proof, err := proofFromPoints(proof.Points)
	if err != nil {
		return false, types.ErrProofRejected.Wrap(err.Error())
	}

	assignment := &membershipWitness{
		MerkleTreeRoot: new(big.Int).SetBytes(proof.MerkleTreeRoot),
		Nullifier:      new(big.Int).SetBytes(proof.Nullifier),
		Message:        new(big.Int).SetBytes(proof.Message),
		Scope:          new(big.Int).SetBytes(proof.Scope),
	}
	publicWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, types.ErrProofRejected.Wrapf("failed to build public witness: %v", err)
	}

	sdkCtx.GasMeter().ConsumeGas(params.VerifyGasCost, "membership_proof_verification")

	if err := groth16.Verify(g16Proof, vk, publicWitness); err != nil {
		return false, nil
	}

	return true, nil
}

// CurrentRoot returns the group's current merkle root as last pushed by
// the membership manager.
func (v *GrothVerifier) CurrentRoot(ctx context.Context, groupID []byte) ([]byte, error) {
	store := v.keeper.getStore(ctx)
	bz := store.Get(GroupRootKey(groupID))
	if bz == nil {
		return nil, types.ErrVerifierUnavailable.Wrapf("no merkle root for group %s", hex.EncodeToString(groupID))
	}
	return bz, nil
}

// verifyingKey loads the group's verifying key, deserializing it once and
// caching the result.
func (v *GrothVerifier) verifyingKey(ctx context.Context, groupID []byte) (groth16.VerifyingKey, error) {
	cacheKey := hex.EncodeToString(groupID)

	v.vkCacheMu.RLock()
	vk, ok := v.vkCache[cacheKey]
	v.vkCacheMu.RUnlock()
	if ok {
		return vk, nil
	}

	store := v.keeper.getStore(ctx)
	bz := store.Get(GroupVerifyingKeyKey(groupID))
	if bz == nil {
		return nil, types.ErrVerifierUnavailable.Wrapf("no verifying key for group %s", cacheKey)
	}

	var record types.GroupVerifyingKey
	if err := json.Unmarshal(bz, &record); err != nil {
		return nil, err
	}

	vk = groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(record.VkData)); err != nil {
		return nil, types.ErrVerifierUnavailable.Wrapf("failed to deserialize verifying key: %v", err)
	}

	v.vkCacheMu.Lock()
	v.vkCache[cacheKey] = vk
	v.vkCacheMu.Unlock()

	return vk, nil
}

// invalidate drops the cached verifying key for a group.
func (v *GrothVerifier) invalidate(groupID []byte) {
	v.vkCacheMu.Lock()
	delete(v.vkCache, hex.EncodeToString(groupID))
	v.vkCacheMu.Unlock()
}

// proofFromPoints reassembles a Groth16 proof from its eight wire points:
// Ar (G1: x, y), Bs (G2: x.a1, x.a0, y.a1, y.a0), Krs (G1: x, y).
func proofFromPoints(points [][]byte) (*groth16bn254.Proof, error) {
	proof := &groth16bn254.Proof{}

	proof.Ar.X.SetBytes(points[0])
	proof.Ar.Y.SetBytes(points[1])
	proof.Bs.X.A1.SetBytes(points[2])
	proof.Bs.X.A0.SetBytes(points[3])
	proof.Bs.Y.A1.SetBytes(points[4])
	proof.Bs.Y.A0.SetBytes(points[5])
	proof.Krs.X.SetBytes(points[6])
	proof.Krs.Y.SetBytes(points[7])

	if !proof.Ar.IsInSubGroup() || !proof.Krs.IsInSubGroup() {
		return nil, types.ErrProofRejected.Wrap("proof point not in G1 subgroup")
	}
	if !proof.Bs.IsInSubGroup() {
		return nil, types.ErrProofRejected.Wrap("proof point not in G2 subgroup")
	}

	return proof, nil
}

// RegisterGroupVerifyingKey stores the serialized Groth16 verifying key
// for a group's membership circuit.
func (k Keeper) RegisterGroupVerifyingKey(ctx context.Context, groupID, vkData []byte) error {
	record := types.GroupVerifyingKey{
		GroupId:     groupID,
		VkData:      vkData,
		Curve:       "bn254",
		ProofSystem: "groth16",
	}

	store := k.getStore(ctx)
	bz, err := json.Marshal(&record)
	if err != nil {
		return err
	}
	store.Set(GroupVerifyingKeyKey(groupID), bz)

	if gv, ok := k.verifier.(*GrothVerifier); ok {
		gv.invalidate(groupID)
	}

	return nil
}

// SetGroupRoot records the group's current merkle root. The membership
// manager calls this whenever the membership set changes.
func (k Keeper) SetGroupRoot(ctx context.Context, groupID, root []byte) error {
	store := k.getStore(ctx)
	store.Set(GroupRootKey(groupID), root)
	return nil
}
