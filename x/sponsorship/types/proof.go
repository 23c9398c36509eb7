package types

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MembershipProof is the opaque zero-knowledge membership proof record as
// carried on the wire: the public signals plus the eight Groth16 proof
// points, each a 256-bit big-endian value.
type MembershipProof struct {
	MerkleTreeDepth uint64   `json:"merkle_tree_depth"`
	MerkleTreeRoot  []byte   `json:"merkle_tree_root"`
	Nullifier       []byte   `json:"nullifier"`
	Message         []byte   `json:"message"`
	Scope           []byte   `json:"scope"`
	Points          [][]byte `json:"points"`
}

// Validate performs structural validation of the proof record.
func (p *MembershipProof) Validate() error {
	if p.MerkleTreeDepth == 0 || p.MerkleTreeDepth > 32 {
		return fmt.Errorf("merkle tree depth %d out of range [1,32]", p.MerkleTreeDepth)
	}
	for name, field := range map[string][]byte{
		"merkle_tree_root": p.MerkleTreeRoot,
		"nullifier":        p.Nullifier,
		"message":          p.Message,
		"scope":            p.Scope,
	} {
		if len(field) != FieldElementSize {
			return fmt.Errorf("%s must be %d bytes, got %d", name, FieldElementSize, len(field))
		}
	}
	if len(p.Points) != ProofPointCount {
		return fmt.Errorf("expected %d proof points, got %d", ProofPointCount, len(p.Points))
	}
	for i, pt := range p.Points {
		if len(pt) != FieldElementSize {
			return fmt.Errorf("proof point %d must be %d bytes, got %d", i, FieldElementSize, len(pt))
		}
	}
	return nil
}

// PointsBytes returns the eight proof points concatenated in wire order.
func (p *MembershipProof) PointsBytes() []byte {
	out := make([]byte, 0, ProofPointCount*FieldElementSize)
	for _, pt := range p.Points {
		out = append(out, pt...)
	}
	return out
}

// MessageForSender returns the 256-bit binding value a proof's message
// must carry for the given sender: the account address left-padded to 32
// bytes. A proof whose message encodes any other account cannot sponsor
// operations for this sender.
func MessageForSender(sender sdk.AccAddress) []byte {
	out := make([]byte, FieldElementSize)
	copy(out[FieldElementSize-len(sender):], sender.Bytes())
	return out
}

// ScopeForGroup returns the scope a proof must carry to be valid for the
// given group outside the quota-aware variant: the group identifier
// itself.
func ScopeForGroup(groupID []byte) []byte {
	out := make([]byte, FieldElementSize)
	copy(out, groupID)
	return out
}

// ScopeForGroupEpoch returns the epoch-bound scope used by the quota-aware
// variant. Binding the epoch into the scope prevents a proof minted in one
// window from being submitted as new in a later one.
func ScopeForGroupEpoch(groupID []byte, epoch uint64) []byte {
	h := sha256.New()
	h.Write(groupID)
	epochBz := make([]byte, 8)
	binary.BigEndian.PutUint64(epochBz, epoch)
	h.Write(epochBz)
	return h.Sum(nil)
}

// BindsMessage reports whether the proof's message matches the sender's
// binding value.
func (p *MembershipProof) BindsMessage(sender sdk.AccAddress) bool {
	return bytes.Equal(p.Message, MessageForSender(sender))
}
