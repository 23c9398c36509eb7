package types

import (
	"encoding/binary"
	"math/big"

	"cosmossdk.io/math"
)

// Sponsorship payload wire format, big-endian fixed offsets:
//
//	byte  0        mode flag (0x00 new proof, 0x01 cached reference)
//	bytes 1..33    256-bit group identifier
//	remaining      mode-specific body
//
// New-proof body:
//
//	bytes 33..41    merkle tree depth (uint64)
//	bytes 41..73    merkle tree root
//	bytes 73..105   nullifier
//	bytes 105..137  message
//	bytes 137..169  scope
//	bytes 169..425  8 proof points of 32 bytes each
//
// Cached-reference body: empty (root-pinned variant) or a 256-bit
// nullifier (quota-aware variant).

// PayloadMode is the leading mode flag of a sponsorship payload.
type PayloadMode byte

const (
	// PayloadModeNew carries a full membership proof.
	PayloadModeNew PayloadMode = 0x00
	// PayloadModeCached references a previously cached proof.
	PayloadModeCached PayloadMode = 0x01
)

const (
	payloadHeaderLen = 1 + FieldElementSize
	proofRecordLen   = 8 + 4*FieldElementSize + ProofPointCount*FieldElementSize
	// NewPayloadLen is the exact length of a new-proof payload.
	NewPayloadLen = payloadHeaderLen + proofRecordLen
	// CachedPayloadLen is the length of a bare cached reference.
	CachedPayloadLen = payloadHeaderLen
	// CachedNullifierPayloadLen is the length of a cached reference
	// carrying a nullifier.
	CachedNullifierPayloadLen = payloadHeaderLen + FieldElementSize
)

// SponsorshipPayload is the decoded authorization payload consumed by the
// validation pipeline.
type SponsorshipPayload struct {
	Mode      PayloadMode
	GroupId   []byte
	Proof     *MembershipProof // set for PayloadModeNew
	Nullifier []byte           // set for PayloadModeCached in the quota-aware variant
}

// DecodePayload parses the raw authorization payload. All structural
// failures map to ErrInvalidPayload so the caller can surface a single
// coarse rejection.
func DecodePayload(raw []byte) (*SponsorshipPayload, error) {
	if len(raw) < payloadHeaderLen {
		return nil, ErrInvalidPayload.Wrapf("payload too short: %d bytes", len(raw))
	}

	mode := PayloadMode(raw[0])
	groupID := make([]byte, FieldElementSize)
	copy(groupID, raw[1:payloadHeaderLen])

	switch mode {
	case PayloadModeNew:
		if len(raw) != NewPayloadLen {
			return nil, ErrInvalidPayload.Wrapf("new-proof payload must be %d bytes, got %d", NewPayloadLen, len(raw))
		}
		proof, err := decodeProofRecord(raw[payloadHeaderLen:])
		if err != nil {
			return nil, ErrInvalidPayload.Wrap(err.Error())
		}
		return &SponsorshipPayload{Mode: mode, GroupId: groupID, Proof: proof}, nil

	case PayloadModeCached:
		switch len(raw) {
		case CachedPayloadLen:
			return &SponsorshipPayload{Mode: mode, GroupId: groupID}, nil
		case CachedNullifierPayloadLen:
			nullifier := make([]byte, FieldElementSize)
			copy(nullifier, raw[payloadHeaderLen:])
			return &SponsorshipPayload{Mode: mode, GroupId: groupID, Nullifier: nullifier}, nil
		default:
			return nil, ErrInvalidPayload.Wrapf("cached payload must be %d or %d bytes, got %d",
				CachedPayloadLen, CachedNullifierPayloadLen, len(raw))
		}

	default:
		return nil, ErrInvalidPayload.Wrapf("unknown mode flag 0x%02x", raw[0])
	}
}

// EncodePayload serializes a payload back to its wire form. Used by tests
// and off-chain tooling that constructs operations.
func EncodePayload(p *SponsorshipPayload) ([]byte, error) {
	if len(p.GroupId) != FieldElementSize {
		return nil, ErrInvalidPayload.Wrapf("group id must be %d bytes", FieldElementSize)
	}

	out := make([]byte, 0, NewPayloadLen)
	out = append(out, byte(p.Mode))
	out = append(out, p.GroupId...)

	switch p.Mode {
	case PayloadModeNew:
		if p.Proof == nil {
			return nil, ErrInvalidPayload.Wrap("new-proof payload requires a proof record")
		}
		if err := p.Proof.Validate(); err != nil {
			return nil, ErrInvalidPayload.Wrap(err.Error())
		}
		out = append(out, encodeProofRecord(p.Proof)...)
	case PayloadModeCached:
		if len(p.Nullifier) != 0 {
			if len(p.Nullifier) != FieldElementSize {
				return nil, ErrInvalidPayload.Wrapf("nullifier must be %d bytes", FieldElementSize)
			}
			out = append(out, p.Nullifier...)
		}
	default:
		return nil, ErrInvalidPayload.Wrapf("unknown mode flag 0x%02x", byte(p.Mode))
	}

	return out, nil
}

func decodeProofRecord(raw []byte) (*MembershipProof, error) {
	proof := &MembershipProof{
		MerkleTreeDepth: binary.BigEndian.Uint64(raw[0:8]),
		MerkleTreeRoot:  cloneField(raw[8:40]),
		Nullifier:       cloneField(raw[40:72]),
		Message:         cloneField(raw[72:104]),
		Scope:           cloneField(raw[104:136]),
		Points:          make([][]byte, ProofPointCount),
	}
	for i := 0; i < ProofPointCount; i++ {
		off := 136 + i*FieldElementSize
		proof.Points[i] = cloneField(raw[off : off+FieldElementSize])
	}
	if err := proof.Validate(); err != nil {
		return nil, err
	}
	return proof, nil
}

func encodeProofRecord(p *MembershipProof) []byte {
	out := make([]byte, 0, proofRecordLen)
	depth := make([]byte, 8)
	binary.BigEndian.PutUint64(depth, p.MerkleTreeDepth)
	out = append(out, depth...)
	out = append(out, p.MerkleTreeRoot...)
	out = append(out, p.Nullifier...)
	out = append(out, p.Message...)
	out = append(out, p.Scope...)
	out = append(out, p.PointsBytes()...)
	return out
}

// Validation context layout, consumed by settlement:
//
//	byte  0        context kind (0x00 group only, 0x01 group + nullifier)
//	bytes 1..33    group identifier
//	bytes 33..65   pre-fund amount (256-bit)
//	bytes 65..97   nullifier (kind 0x01 only)

// ContextKind discriminates what settlement must debit.
type ContextKind byte

const (
	// ContextKindGroup debits only the group ledger.
	ContextKindGroup ContextKind = 0x00
	// ContextKindGroupNullifier debits the ledger and records gas usage
	// against the nullifier's quota record.
	ContextKindGroupNullifier ContextKind = 0x01
)

const (
	contextBaseLen      = 1 + 2*FieldElementSize
	contextNullifierLen = contextBaseLen + FieldElementSize
)

// ValidationContext identifies, for the settlement phase, which group and
// (optionally) which quota record the actual cost must be posted to.
type ValidationContext struct {
	Kind      ContextKind
	GroupId   []byte
	PreFund   math.Int
	Nullifier []byte
}

// Encode serializes the context into its fixed-offset form.
func (c *ValidationContext) Encode() []byte {
	out := make([]byte, 0, contextNullifierLen)
	out = append(out, byte(c.Kind))
	out = append(out, c.GroupId...)
	prefund := make([]byte, FieldElementSize)
	c.PreFund.BigInt().FillBytes(prefund)
	out = append(out, prefund...)
	if c.Kind == ContextKindGroupNullifier {
		out = append(out, c.Nullifier...)
	}
	return out
}

// DecodeValidationContext parses a context produced by the validation
// pipeline.
func DecodeValidationContext(raw []byte) (*ValidationContext, error) {
	if len(raw) < contextBaseLen {
		return nil, ErrInvalidContext.Wrapf("context too short: %d bytes", len(raw))
	}

	c := &ValidationContext{
		Kind:    ContextKind(raw[0]),
		GroupId: cloneField(raw[1 : 1+FieldElementSize]),
		PreFund: math.NewIntFromBigInt(new(big.Int).SetBytes(raw[1+FieldElementSize : contextBaseLen])),
	}

	switch c.Kind {
	case ContextKindGroup:
		if len(raw) != contextBaseLen {
			return nil, ErrInvalidContext.Wrapf("group context must be %d bytes, got %d", contextBaseLen, len(raw))
		}
	case ContextKindGroupNullifier:
		if len(raw) != contextNullifierLen {
			return nil, ErrInvalidContext.Wrapf("nullifier context must be %d bytes, got %d", contextNullifierLen, len(raw))
		}
		c.Nullifier = cloneField(raw[contextBaseLen:])
	default:
		return nil, ErrInvalidContext.Wrapf("unknown context kind 0x%02x", raw[0])
	}

	return c, nil
}

func cloneField(src []byte) []byte {
	out := make([]byte, FieldElementSize)
	copy(out, src)
	return out
}
