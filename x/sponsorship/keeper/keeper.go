package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// AuthorizerMode selects which proof-authorization strategy the keeper is
// constructed with. The strategies replace what would otherwise be an
// inheritance hierarchy of paymaster variants.
type AuthorizerMode string

const (
	// ModeDirectVerify verifies every proof, caches nothing.
	ModeDirectVerify AuthorizerMode = "direct"
	// ModeRootPinnedCache caches proofs and rejects cached entries whose
	// merkle root snapshot no longer matches the verifier's current root.
	ModeRootPinnedCache AuthorizerMode = "root-pinned"
	// ModeNullifierQuotaCache caches proofs, re-verifies them when the
	// root moves, and rate-limits sponsored gas per nullifier per epoch.
	ModeNullifierQuotaCache AuthorizerMode = "quota"
	// ModePolicyDelegate delegates the membership decision to an external
	// capability policy instead of verifying proofs directly.
	ModePolicyDelegate AuthorizerMode = "policy"
)

// Keeper of the sponsorship store
type Keeper struct {
	storeKey      storetypes.StoreKey
	bankKeeper    types.BankKeeper
	accountKeeper types.AccountKeeper
	authority     string

	// verifier is the external zero-knowledge membership verifier. Group
	// membership management and the merkle root both live behind it.
	verifier MembershipVerifier

	// policy is the external capability policy used only in
	// ModePolicyDelegate; nil otherwise.
	policy SponsorshipPolicy

	mode       AuthorizerMode
	authorizer proofAuthorizer

	metrics *SponsorshipMetrics
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new sponsorship Keeper instance. The authorizer
// variant is fixed at construction.
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	accountKeeper types.AccountKeeper,
	authority string,
	verifier MembershipVerifier,
	policy SponsorshipPolicy,
	mode AuthorizerMode,
) *Keeper {
	k := &Keeper{
		storeKey:      key,
		bankKeeper:    bankKeeper,
		accountKeeper: accountKeeper,
		authority:     authority,
		verifier:      verifier,
		policy:        policy,
		mode:          mode,
		metrics:       NewSponsorshipMetrics(),
	}

	if verifier == nil {
		k.verifier = NewGrothVerifier(k)
	}

	switch mode {
	case ModeDirectVerify:
		k.authorizer = directVerifyAuthorizer{k}
	case ModeRootPinnedCache:
		k.authorizer = rootPinnedAuthorizer{k}
	case ModeNullifierQuotaCache:
		k.authorizer = nullifierQuotaAuthorizer{k}
	case ModePolicyDelegate:
		k.authorizer = policyDelegateAuthorizer{k}
	default:
		panic("unknown authorizer mode: " + string(mode))
	}

	return k
}

// getStore returns the KVStore for the sponsorship module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if provider, ok := ctx.(kvStoreProvider); ok {
		return provider.KVStore(k.storeKey)
	}

	unwrapped := sdk.UnwrapSDKContext(ctx)
	return unwrapped.KVStore(k.storeKey)
}

// Mode returns the authorizer variant the keeper was constructed with.
func (k Keeper) Mode() AuthorizerMode {
	return k.mode
}

// Authority returns the module's governance authority address.
func (k Keeper) Authority() string {
	return k.authority
}

// Verifier returns the external membership verifier.
func (k Keeper) Verifier() MembershipVerifier {
	return k.verifier
}
