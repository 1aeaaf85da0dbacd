package sequences

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
)

func TestDispatchFailureReason(t *testing.T) {
	require.Equal(t, "gRPC error: unavailable",
		DispatchFailureReason(temporal.NewApplicationError("gRPC error: unavailable", "TransportError")))
	require.Equal(t, "plain", DispatchFailureReason(errors.New("plain")))
	require.Equal(t, "order dispatch canceled", DispatchFailureReason(temporal.NewCanceledError()))
}

func TestSingleAttempt(t *testing.T) {
	opts := singleAttempt(DefaultSubmissionTimeouts.Dispatch)
	require.Equal(t, int32(1), opts.RetryPolicy.MaximumAttempts)
	require.Equal(t, DefaultSubmissionTimeouts.Dispatch, opts.StartToCloseTimeout)
}
