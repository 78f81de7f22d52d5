package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledProviderIsNoop(t *testing.T) {
	p, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Start(context.Background()))
	assert.NoError(t, p.Stop(context.Background()))
	assert.NotNil(t, p.GetTracer("test"))
}

func TestEnabledRequiresEndpoint(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")
}

func TestEnabledProviderInitializes(t *testing.T) {
	// The OTLP exporter connects lazily, so initialization succeeds even
	// with no collector listening.
	p, err := NewProvider(Config{Enabled: true, Endpoint: "localhost:4317"})
	require.NoError(t, err)

	assert.True(t, p.IsEnabled())
	assert.Equal(t, "Tracing Provider", p.Name())
	assert.NoError(t, p.Start(context.Background()))
}
