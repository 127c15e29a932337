package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestWithContextAddsTraceFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, false, "info")

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	Info(ctx).Str("plate", "AA111AA").Msg("checked in")
	span.End()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "checked in", entry["message"])
	assert.Equal(t, "AA111AA", entry["plate"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["traceId"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["spanId"])
}

func TestWithContextWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, false, "info")

	Warn(context.Background()).Msg("no span")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "traceId")
	assert.Equal(t, "warn", entry["level"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, false, "warn")

	Info(context.Background()).Msg("dropped")
	Debug(context.Background()).Msg("dropped")
	assert.Zero(t, buf.Len())

	Error(context.Background()).Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, true, "loud")

	Debug(context.Background()).Msg("dropped")
	assert.Zero(t, buf.Len())

	Logger().Info().Msg("console line")
	assert.Contains(t, buf.String(), "console line")
	assert.Contains(t, buf.String(), "INF")
}
