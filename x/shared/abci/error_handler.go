// Package abci provides shared error handling for ABCI blocker hooks.
// Blockers must not return errors to consensus, so failures are logged,
// classified by severity, and emitted as events for monitoring instead.
package abci

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ErrorSeverity classifies how much operator attention a blocker
// failure warrants.
type ErrorSeverity int

const (
	// SeverityLow covers failures of housekeeping work, such as cache
	// or metric refreshes.
	SeverityLow ErrorSeverity = iota

	// SeverityMedium covers degraded functionality that does not block
	// the module's core operations, such as a skipped epoch advance.
	SeverityMedium

	// SeverityHigh covers failures of important state transitions.
	SeverityHigh

	// SeverityCritical covers failures that may compromise ledger or
	// state integrity.
	SeverityCritical
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// BlockerErrorHandler logs blocker failures with severity and emits a
// structured event per failure. One handler is created per block hook
// invocation.
type BlockerErrorHandler struct {
	moduleName string
	ctx        sdk.Context
}

// NewBlockerErrorHandler creates an error handler for the given module.
func NewBlockerErrorHandler(ctx sdk.Context, moduleName string) *BlockerErrorHandler {
	return &BlockerErrorHandler{
		moduleName: moduleName,
		ctx:        ctx,
	}
}

// HandleError logs and emits an event for a blocker failure. Callers
// continue after the call; the error never reaches consensus.
func (h *BlockerErrorHandler) HandleError(operation string, severity ErrorSeverity, err error) {
	if err == nil {
		return
	}

	logArgs := []interface{}{
		"module", h.moduleName,
		"operation", operation,
		"severity", severity.String(),
		"error", err.Error(),
	}
	switch severity {
	case SeverityCritical, SeverityHigh:
		h.ctx.Logger().Error("blocker error", logArgs...)
	case SeverityMedium:
		h.ctx.Logger().Warn("blocker error", logArgs...)
	default:
		h.ctx.Logger().Debug("blocker error", logArgs...)
	}

	h.ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"abci_blocker_error",
			sdk.NewAttribute("module", h.moduleName),
			sdk.NewAttribute("operation", operation),
			sdk.NewAttribute("severity", severity.String()),
			sdk.NewAttribute("error", err.Error()),
			sdk.NewAttribute("height", fmt.Sprintf("%d", h.ctx.BlockHeight())),
		),
	)
}

// WrapError handles a possible error inline and reports whether one
// occurred:
//
//	if handler.WrapError("advance_epoch", SeverityMedium, err) {
//	    // handled, continue with the next operation
//	}
func (h *BlockerErrorHandler) WrapError(operation string, severity ErrorSeverity, err error) bool {
	if err != nil {
		h.HandleError(operation, severity, err)
		return true
	}
	return false
}
