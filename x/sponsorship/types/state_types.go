package types

import (
	"cosmossdk.io/math"
)

// GroupAccount holds the prepaid sponsorship balance for one anonymity
// group. The merkle root of the membership set is owned by the external
// verifier and is never stored here.
type GroupAccount struct {
	GroupId []byte   `json:"group_id"`
	Admin   string   `json:"admin,omitempty"`
	Deposit math.Int `json:"deposit"`
}

// CachedProof is the stored snapshot of a member's last accepted
// membership proof. It is owned by the (member, group) pair that cached it
// and is never deleted; it can only become stale relative to the
// verifier's current merkle root.
type CachedProof struct {
	GroupId           []byte          `json:"group_id"`
	Proof             MembershipProof `json:"proof"`
	MerkleRootAtCache []byte          `json:"merkle_root_at_cache"`
	Valid             bool            `json:"valid"`
}

// GasQuotaRecord tracks cumulative sponsored gas for one nullifier within
// the epoch it was last touched in. A record whose Epoch lags the current
// epoch counts as zero usage; the reset happens lazily when the record is
// next written.
type GasQuotaRecord struct {
	GasUsed        math.Int `json:"gas_used"`
	LastMerkleRoot []byte   `json:"last_merkle_root"`
	Epoch          uint64   `json:"epoch"`
}

// EpochState is the process-wide epoch counter. It only moves forward, and
// only through an explicit AdvanceEpoch call, because the validation phase
// cannot observe wall-clock time itself.
type EpochState struct {
	Current    uint64 `json:"current"`
	AdvancedAt int64  `json:"advanced_at"`
}

// GroupVerifyingKey stores the serialized Groth16 verifying key the
// membership verifier uses for one group's circuit.
type GroupVerifyingKey struct {
	GroupId     []byte `json:"group_id"`
	VkData      []byte `json:"vk_data"`
	Curve       string `json:"curve"`
	ProofSystem string `json:"proof_system"`
}
