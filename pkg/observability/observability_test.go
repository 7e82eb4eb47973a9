package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("debug", "json", &buf)
	require.NoError(t, err)

	logger.Debug("document generated", "template", "LOAS - Idoso")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "document generated", entry["msg"])
	require.Equal(t, "LOAS - Idoso", entry["template"])

	buf.Reset()
	logger, err = NewLogger("warn", "text", &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("batch item skipped", "index", 1)
	require.NotContains(t, buf.String(), "hidden")
	require.True(t, strings.Contains(buf.String(), "index=1"))
}

func TestNewLogger_Errors(t *testing.T) {
	_, err := NewLogger("loud", "text", nil)
	require.Error(t, err)

	_, err = NewLogger("info", "xml", nil)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		" warn": slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		require.Equal(t, want, got, in)
	}
}

func TestNew_DisabledWithoutEndpoint(t *testing.T) {
	p, err := New(context.Background(), Config{})
	require.NoError(t, err)
	require.False(t, p.Enabled())
	require.Equal(t, "docgen", p.config.ServiceName)

	ctx, span := p.StartSpan(context.Background(), "noop")
	require.NotNil(t, ctx)
	span.End()

	require.NotNil(t, p.Meter())
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	require.Equal(t, sdktrace.AlwaysSample().Description(), Sampler(1.5).Description())
	require.Equal(t, sdktrace.NeverSample().Description(), Sampler(0).Description())
	require.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), Sampler(0.25).Description())
}
