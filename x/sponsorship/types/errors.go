package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Sponsorship module sentinel errors.
//
// During the validation phase every one of these collapses into a single
// coarse ValidationFailed status toward the bundler; the distinct errors
// exist for logging, events, and the administrative surface, where hard
// failures abort the whole call.

var (
	// Ledger errors
	ErrZeroAmount          = sdkerrors.Register(ModuleName, 2, "deposit amount must be positive")
	ErrInsufficientBalance = sdkerrors.Register(ModuleName, 3, "insufficient group balance")
	ErrGroupNotFound       = sdkerrors.Register(ModuleName, 4, "group account not found")
	ErrGroupExists         = sdkerrors.Register(ModuleName, 5, "group account already exists")

	// Proof errors
	ErrInvalidMessageBinding = sdkerrors.Register(ModuleName, 10, "proof message does not bind to sender")
	ErrInvalidScopeBinding   = sdkerrors.Register(ModuleName, 11, "proof scope does not bind to group")
	ErrProofRejected         = sdkerrors.Register(ModuleName, 12, "membership proof rejected by verifier")
	ErrNoCachedProof         = sdkerrors.Register(ModuleName, 13, "no cached proof for member")
	ErrStaleCachedProof      = sdkerrors.Register(ModuleName, 14, "cached proof is stale for current merkle root")

	// Quota errors
	ErrQuotaExceeded = sdkerrors.Register(ModuleName, 20, "per-epoch gas quota exceeded")
	ErrQuotaNotSet   = sdkerrors.Register(ModuleName, 21, "no gas quota configured for group")

	// Payload errors
	ErrInvalidPayload = sdkerrors.Register(ModuleName, 30, "malformed sponsorship payload")
	ErrInvalidContext = sdkerrors.Register(ModuleName, 31, "malformed validation context")

	// Administrative errors
	ErrUnauthorized     = sdkerrors.Register(ModuleName, 40, "unauthorized operation")
	ErrInvalidAddress   = sdkerrors.Register(ModuleName, 41, "invalid address")
	ErrValidationFailed = sdkerrors.Register(ModuleName, 42, "message validation failed")
	ErrInvalidParams    = sdkerrors.Register(ModuleName, 43, "invalid module parameters")

	// Policy delegation errors
	ErrPolicyRejected      = sdkerrors.Register(ModuleName, 50, "sponsorship policy rejected evidence")
	ErrPolicyNotConfigured = sdkerrors.Register(ModuleName, 51, "no sponsorship policy configured")

	// Verifier errors
	ErrVerifierUnavailable = sdkerrors.Register(ModuleName, 60, "membership verifier unavailable for group")
	ErrProofTooLarge       = sdkerrors.Register(ModuleName, 61, "proof size exceeds maximum allowed")
	ErrModeUnsupported     = sdkerrors.Register(ModuleName, 62, "payload mode not supported by configured authorizer")
)
