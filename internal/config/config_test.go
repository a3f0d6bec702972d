package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/candicandi/zedis/internal/engine/store"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.Equal(t, ":6379", cfg.ListenAddr)
	require.Equal(t, ":6380", cfg.AdminAddr)
	require.Equal(t, 16, cfg.Databases)
	require.Equal(t, store.NoEviction, cfg.EvictionPolicy)
	require.False(t, cfg.AOFEnabled)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("ZEDIS_LISTEN_ADDR", ":7000")
	t.Setenv("ZEDIS_MAX_CONNECTIONS", "100")
	t.Setenv("ZEDIS_EVICTION_POLICY", "allkeys-lru")
	t.Setenv("ZEDIS_AOF_ENABLED", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.ListenAddr)
	require.Equal(t, int64(100), cfg.MaxConnections)
	require.Equal(t, store.AllKeysLRU, cfg.EvictionPolicy)
	require.True(t, cfg.AOFEnabled)
}

func TestLoadFromEnvRejectsUnknownEvictionPolicy(t *testing.T) {
	t.Setenv("ZEDIS_EVICTION_POLICY", "not-a-policy")
	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestLoadFromEnvRejectsNonNumericMaxConnections(t *testing.T) {
	t.Setenv("ZEDIS_MAX_CONNECTIONS", "not-a-number")
	_, err := LoadFromEnv()
	require.Error(t, err)
}
