package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogSettings{Level: "warn", Format: "text", Writer: &buf})
	logger.Info("dropped")
	logger.Warn("kept", slog.String("order.id", "42"))
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "msg=kept")
	require.Contains(t, buf.String(), "order.id=42")

	buf.Reset()
	NewLogger(LogSettings{Writer: &buf}).Info("json")
	require.Contains(t, buf.String(), `"msg":"json"`)
}

func TestInstruments_NilSafe(t *testing.T) {
	var i *Instruments
	require.NotNil(t, i.Tracer("x"))
	require.NotNil(t, i.Meter("x"))

	_, span := i.Tracer("x").Start(context.Background(), "noop")
	span.End()
}
