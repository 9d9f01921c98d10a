package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassista/go_storefront/internal/config"
)

func TestNewFromConfig_Memory(t *testing.T) {
	store, err := NewFromConfig(context.Background(), config.RemoteConfig{Kind: config.RemoteKindMemory})
	require.NoError(t, err)
	_, ok := store.(*MemoryStore)
	assert.True(t, ok, "expected MemoryStore type")
}

func TestNewFromConfig_None(t *testing.T) {
	for _, kind := range []string{config.RemoteKindNone, ""} {
		store, err := NewFromConfig(context.Background(), config.RemoteConfig{Kind: kind})
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.Nil(t, store)
	}
}

func TestNewFromConfig_Unknown(t *testing.T) {
	_, err := NewFromConfig(context.Background(), config.RemoteConfig{Kind: "firestore"})
	assert.Error(t, err)
}
