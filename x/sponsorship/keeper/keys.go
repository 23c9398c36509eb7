package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x01}

	// GroupAccountKeyPrefix is the prefix for group ledger accounts
	GroupAccountKeyPrefix = []byte{0x02}

	// CachedProofKeyPrefix is the prefix for per-(member, group) cached proofs
	CachedProofKeyPrefix = []byte{0x03}

	// GasQuotaRecordKeyPrefix is the prefix for per-nullifier gas usage records
	GasQuotaRecordKeyPrefix = []byte{0x04}

	// GroupQuotaKeyPrefix is the prefix for per-group epoch gas quotas
	GroupQuotaKeyPrefix = []byte{0x05}

	// EpochStateKey is the key for the process-wide epoch counter
	EpochStateKey = []byte{0x06}

	// GroupVerifyingKeyPrefix is the prefix for per-group Groth16 verifying keys
	GroupVerifyingKeyPrefix = []byte{0x07}

	// GroupRootKeyPrefix is the prefix for per-group current merkle roots
	GroupRootKeyPrefix = []byte{0x08}
)

// GroupAccountKey returns the store key for a group's ledger account.
func GroupAccountKey(groupID []byte) []byte {
	return append(GroupAccountKeyPrefix, groupID...)
}

// CachedProofKey returns the composite store key for a member's cached
// proof in a group: prefix + member address + group id. Keying on the
// member address is what makes a cached proof usable only by the address
// that cached it.
func CachedProofKey(member sdk.AccAddress, groupID []byte) []byte {
	key := make([]byte, 0, len(CachedProofKeyPrefix)+len(member)+len(groupID))
	key = append(key, CachedProofKeyPrefix...)
	key = append(key, member.Bytes()...)
	return append(key, groupID...)
}

// GasQuotaRecordKey returns the store key for a nullifier's quota record.
func GasQuotaRecordKey(nullifier []byte) []byte {
	return append(GasQuotaRecordKeyPrefix, nullifier...)
}

// GroupQuotaKey returns the store key for a group's per-epoch gas quota.
func GroupQuotaKey(groupID []byte) []byte {
	return append(GroupQuotaKeyPrefix, groupID...)
}

// GroupVerifyingKeyKey returns the store key for a group's verifying key.
func GroupVerifyingKeyKey(groupID []byte) []byte {
	return append(GroupVerifyingKeyPrefix, groupID...)
}

// GroupRootKey returns the store key for a group's current merkle root.
func GroupRootKey(groupID []byte) []byte {
	return append(GroupRootKeyPrefix, groupID...)
}
