package keeper

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	"github.com/veilpay-chain/veilpay/x/sponsorship/keeper"
	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// GenesisTime is the block time the fixture context starts at. Quota
// epochs are computed relative to the default first-epoch time of zero,
// so tests get a stable, non-zero current epoch.
var GenesisTime = time.Unix(1_700_000_000, 0).UTC()

// StubVerifier is a controllable membership verifier for tests. Roots
// are keyed by hex group id; Outcome and Err drive VerifyProof.
type StubVerifier struct {
	Roots   map[string][]byte
	Outcome bool
	Err     error

	// VerifyCalls counts VerifyProof invocations, which lets tests assert
	// whether a cached proof was reused or re-verified.
	VerifyCalls int
}

// NewStubVerifier returns a verifier that accepts every proof.
func NewStubVerifier() *StubVerifier {
	return &StubVerifier{
		Roots:   make(map[string][]byte),
		Outcome: true,
	}
}

// SetRoot sets the current merkle root for a group.
func (v *StubVerifier) SetRoot(groupID, root []byte) {
	v.Roots[hex.EncodeToString(groupID)] = root
}

func (v *StubVerifier) VerifyProof(_ context.Context, _ []byte, _ *types.MembershipProof) (bool, error) {
	v.VerifyCalls++
	return v.Outcome, v.Err
}

func (v *StubVerifier) CurrentRoot(_ context.Context, groupID []byte) ([]byte, error) {
	root, ok := v.Roots[hex.EncodeToString(groupID)]
	if !ok {
		return nil, types.ErrVerifierUnavailable.Wrapf("no merkle root for group %s", hex.EncodeToString(groupID))
	}
	return root, nil
}

// StubPolicy is a controllable capability policy for tests.
type StubPolicy struct {
	Err       error
	CallCount int
}

func (p *StubPolicy) Authorize(_ context.Context, _ []byte, _ sdk.AccAddress, _ *types.MembershipProof) error {
	p.CallCount++
	return p.Err
}

// SponsorshipFixture bundles the sponsorship keeper with the real bank
// and account keepers it runs against in tests.
type SponsorshipFixture struct {
	Keeper   *keeper.Keeper
	Ctx      sdk.Context
	Bank     bankkeeper.BaseKeeper
	Account  authkeeper.AccountKeeper
	Verifier *StubVerifier
	Policy   *StubPolicy
}

// SponsorshipKeeper creates a test keeper for the Sponsorship module in
// the requested authorizer mode, backed by an in-memory multistore and
// real auth and bank keepers.
func SponsorshipKeeper(t testing.TB, mode keeper.AuthorizerMode) *SponsorshipFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		authtypes.FeeCollectorName: nil,
		types.ModuleName:           {authtypes.Minter},
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	verifier := NewStubVerifier()
	policy := &StubPolicy{}

	k := keeper.NewKeeper(
		storeKey,
		bankKeeper,
		accountKeeper,
		authority.String(),
		verifier,
		policy,
		mode,
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Time: GenesisTime}, false, log.NewNopLogger()).
		WithBlockTime(GenesisTime)

	return &SponsorshipFixture{
		Keeper:   k,
		Ctx:      ctx,
		Bank:     bankKeeper,
		Account:  accountKeeper,
		Verifier: verifier,
		Policy:   policy,
	}
}

// Fund mints coins in the module's default denom and sends them to addr.
func (f *SponsorshipFixture) Fund(t testing.TB, addr sdk.AccAddress, amount math.Int) {
	params, err := f.Keeper.GetParams(f.Ctx)
	require.NoError(t, err)

	coins := sdk.NewCoins(sdk.NewCoin(params.Denom, amount))
	require.NoError(t, f.Bank.MintCoins(f.Ctx, types.ModuleName, coins))
	require.NoError(t, f.Bank.SendCoinsFromModuleToAccount(f.Ctx, types.ModuleName, addr, coins))
}
