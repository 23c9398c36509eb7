package abci_test

import (
	"errors"
	"testing"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	sharedabci "github.com/veilpay-chain/veilpay/x/shared/abci"
)

func handlerContext() sdk.Context {
	return sdk.Context{}.
		WithEventManager(sdk.NewEventManager()).
		WithLogger(log.NewNopLogger())
}

// TestHandleError_EmitsEvent tests that a failure produces one structured event
func TestHandleError_EmitsEvent(t *testing.T) {
	ctx := handlerContext()
	handler := sharedabci.NewBlockerErrorHandler(ctx, "sponsorship")

	handler.HandleError("advance_epoch", sharedabci.SeverityMedium, errors.New("store unavailable"))

	events := ctx.EventManager().Events()
	require.Len(t, events, 1)
	require.Equal(t, "abci_blocker_error", events[0].Type)

	attrs := map[string]string{}
	for _, a := range events[0].Attributes {
		attrs[a.Key] = a.Value
	}
	require.Equal(t, "sponsorship", attrs["module"])
	require.Equal(t, "advance_epoch", attrs["operation"])
	require.Equal(t, "medium", attrs["severity"])
	require.Equal(t, "store unavailable", attrs["error"])
}

// TestHandleError_NilIsNoop tests that a nil error emits nothing
func TestHandleError_NilIsNoop(t *testing.T) {
	ctx := handlerContext()
	handler := sharedabci.NewBlockerErrorHandler(ctx, "sponsorship")

	handler.HandleError("advance_epoch", sharedabci.SeverityHigh, nil)
	require.False(t, handler.WrapError("advance_epoch", sharedabci.SeverityHigh, nil))

	require.Empty(t, ctx.EventManager().Events())
}

// TestWrapError_ReportsFailure tests the inline form
func TestWrapError_ReportsFailure(t *testing.T) {
	ctx := handlerContext()
	handler := sharedabci.NewBlockerErrorHandler(ctx, "sponsorship")

	require.True(t, handler.WrapError("advance_epoch", sharedabci.SeverityLow, errors.New("boom")))
	require.Len(t, ctx.EventManager().Events(), 1)
}

// TestSeverityString tests the severity labels
func TestSeverityString(t *testing.T) {
	require.Equal(t, "low", sharedabci.SeverityLow.String())
	require.Equal(t, "medium", sharedabci.SeverityMedium.String())
	require.Equal(t, "high", sharedabci.SeverityHigh.String())
	require.Equal(t, "critical", sharedabci.SeverityCritical.String())
	require.Equal(t, "unknown", sharedabci.ErrorSeverity(99).String())
}
