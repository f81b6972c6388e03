package featureflags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WithoutKeyKeepsDefaults(t *testing.T) {
	err := Init(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rollout key")
	assert.NotNil(t, Values())
	assert.Nil(t, rox)
}

func TestShutdown_NoopWhenNotStarted(t *testing.T) {
	assert.NotPanics(t, Shutdown)
	assert.NotPanics(t, Shutdown)
}
