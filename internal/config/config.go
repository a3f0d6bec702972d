// Package config resolves Zedis's small, fixed configuration surface from
// the environment, reading ENV inline with os.Getenv rather than binding
// a struct reflectively: the configuration surface is small enough that
// explicit field-by-field parsing is the better fit.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/candicandi/zedis/internal/engine/store"
)

// Config is everything main.go needs to wire the engine, the connection
// driver, and the admin HTTP surface.
type Config struct {
	ListenAddr               string
	AdminAddr                string
	Password                 string
	Databases                int
	HashIndexInitialCapacity int
	MaxMemoryBytes           uint64
	EvictionPolicy           store.EvictionPolicy
	MaxConnections           int64
	SnapshotPath             string
	AOFPath                  string
	AOFEnabled               bool
}

// LoadFromEnv resolves Config from the process environment, applying sane
// out-of-the-box defaults that a production deployment overrides
// explicitly.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		ListenAddr:               getEnv("ZEDIS_LISTEN_ADDR", ":6379"),
		AdminAddr:                getEnv("ZEDIS_ADMIN_ADDR", ":6380"),
		Password:                 os.Getenv("ZEDIS_PASSWORD"),
		Databases:                16,
		HashIndexInitialCapacity: 1024,
		MaxConnections:           0,
		SnapshotPath:             getEnv("ZEDIS_SNAPSHOT_PATH", "zedis.snapshot"),
		AOFPath:                  getEnv("ZEDIS_AOF_PATH", "zedis.aof"),
	}

	if v := os.Getenv("ZEDIS_HASH_INDEX_INITIAL_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("ZEDIS_HASH_INDEX_INITIAL_CAPACITY: %w", err)
		}
		cfg.HashIndexInitialCapacity = n
	}

	if v := os.Getenv("ZEDIS_MAX_MEMORY_BYTES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("ZEDIS_MAX_MEMORY_BYTES: %w", err)
		}
		cfg.MaxMemoryBytes = n
	}

	if v := os.Getenv("ZEDIS_MAX_CONNECTIONS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("ZEDIS_MAX_CONNECTIONS: %w", err)
		}
		cfg.MaxConnections = n
	}

	policy, err := parseEvictionPolicy(getEnv("ZEDIS_EVICTION_POLICY", "noeviction"))
	if err != nil {
		return Config{}, err
	}
	cfg.EvictionPolicy = policy

	cfg.AOFEnabled = os.Getenv("ZEDIS_AOF_ENABLED") == "true"

	return cfg, nil
}

func parseEvictionPolicy(s string) (store.EvictionPolicy, error) {
	switch strings.ToLower(s) {
	case "noeviction":
		return store.NoEviction, nil
	case "allkeys_lru", "allkeys-lru":
		return store.AllKeysLRU, nil
	case "volatile_lru", "volatile-lru":
		return store.VolatileLRU, nil
	default:
		return 0, fmt.Errorf("ZEDIS_EVICTION_POLICY: unknown policy %q", s)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
