package observability

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	// spans still work against the no-op provider
	_, span := StartSpan(context.Background(), "noop")
	EndSpan(span, nil)
}

func TestInitTracing_ExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	var buf bytes.Buffer
	shutdown, err := InitTracing(context.Background(), TracingConfig{
		Enabled:        true,
		ServiceName:    "datagen-test",
		ServiceVersion: "test",
		Writer:         &buf,
	})
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "generate", attribute.Int64("records", 3))
	EndSpan(span, fmt.Errorf("sink failed"))

	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, `"Name": "generate"`)
	assert.Contains(t, out, "sink failed")
	assert.Contains(t, out, "datagen-test")
}
