package types

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgServer is the administrative transaction surface of the module.
type MsgServer interface {
	CreateGroupAccount(ctx context.Context, msg *MsgCreateGroupAccount) (*MsgCreateGroupAccountResponse, error)
	DepositForGroup(ctx context.Context, msg *MsgDepositForGroup) (*MsgDepositForGroupResponse, error)
	SetMaxGasPerUserPerEpoch(ctx context.Context, msg *MsgSetMaxGasPerUserPerEpoch) (*MsgSetMaxGasPerUserPerEpochResponse, error)
	AdvanceEpoch(ctx context.Context, msg *MsgAdvanceEpoch) (*MsgAdvanceEpochResponse, error)
	UpdateParams(ctx context.Context, msg *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

// MsgCreateGroupAccount registers a sponsorship account for a group. The
// creator becomes the group admin; the group's membership set itself lives
// with the external verifier.
type MsgCreateGroupAccount struct {
	Creator string `json:"creator"`
	GroupId []byte `json:"group_id"`
}

type MsgCreateGroupAccountResponse struct{}

// ValidateBasic performs stateless validation.
func (msg *MsgCreateGroupAccount) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Creator); err != nil {
		return fmt.Errorf("invalid creator address: %w", err)
	}
	return validateGroupID(msg.GroupId)
}

// MsgDepositForGroup adds prepaid balance to a group and forwards the
// funds to the module escrow account.
type MsgDepositForGroup struct {
	Depositor string   `json:"depositor"`
	GroupId   []byte   `json:"group_id"`
	Amount    math.Int `json:"amount"`
}

type MsgDepositForGroupResponse struct {
	NewBalance math.Int `json:"new_balance"`
}

// ValidateBasic performs stateless validation.
func (msg *MsgDepositForGroup) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Depositor); err != nil {
		return fmt.Errorf("invalid depositor address: %w", err)
	}
	if err := validateGroupID(msg.GroupId); err != nil {
		return err
	}
	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return fmt.Errorf("deposit amount must be positive")
	}
	return nil
}

// MsgSetMaxGasPerUserPerEpoch overwrites the per-epoch gas quota for one
// group. Only the group admin may call it.
type MsgSetMaxGasPerUserPerEpoch struct {
	Admin                 string   `json:"admin"`
	GroupId               []byte   `json:"group_id"`
	MaxGasPerUserPerEpoch math.Int `json:"max_gas_per_user_per_epoch"`
}

type MsgSetMaxGasPerUserPerEpochResponse struct{}

// ValidateBasic performs stateless validation.
func (msg *MsgSetMaxGasPerUserPerEpoch) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Admin); err != nil {
		return fmt.Errorf("invalid admin address: %w", err)
	}
	if err := validateGroupID(msg.GroupId); err != nil {
		return err
	}
	if msg.MaxGasPerUserPerEpoch.IsNil() || msg.MaxGasPerUserPerEpoch.IsNegative() {
		return fmt.Errorf("quota cannot be negative")
	}
	return nil
}

// MsgAdvanceEpoch recomputes the epoch counter from block time. Callable
// by anyone, idempotent within an epoch window.
type MsgAdvanceEpoch struct {
	Caller string `json:"caller"`
}

type MsgAdvanceEpochResponse struct {
	Epoch uint64 `json:"epoch"`
}

// ValidateBasic performs stateless validation.
func (msg *MsgAdvanceEpoch) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return fmt.Errorf("invalid caller address: %w", err)
	}
	return nil
}

// MsgUpdateParams updates module parameters. Governance authority only.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// ValidateBasic performs stateless validation.
func (msg *MsgUpdateParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %w", err)
	}
	return msg.Params.Validate()
}

func validateGroupID(groupID []byte) error {
	if len(groupID) != FieldElementSize {
		return fmt.Errorf("group id must be %d bytes, got %d", FieldElementSize, len(groupID))
	}
	return nil
}
