// Package store is the facade tying the storage engine together: the
// tiered pool, the string interner, one hash index per logical database,
// the TTL index, the approximate-LRU sampler, and the eviction policy.
// Grounded on the single-mutex, process-wide-state shape of
// internal/infrastructure/datastore.DataStore and
// internal/infrastructure/objectstore.ObjectStore, generalized from their
// int64-ID index to a byte-keyed key-value engine with command-boundary
// locking.
package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/candicandi/zedis/internal/engine/hashindex"
	"github.com/candicandi/zedis/internal/engine/pool"
)

// EvictionPolicy selects which keys the LRU sampler is allowed to evict
// under allocation pressure.
type EvictionPolicy uint8

const (
	NoEviction EvictionPolicy = iota
	AllKeysLRU
	VolatileLRU
)

// Config is the subset of server configuration that reaches the core:
// initial hash-index capacity, memory budget, eviction policy, and number
// of logical databases. Client id space is handled by the caller via
// NextClientID.
type Config struct {
	InitialCapacity int
	MemoryBudget    uint64 // bytes; 0 means unbounded
	Eviction        EvictionPolicy
	NumDatabases    int // values <= 0 or > 16 become 16
}

// db is one logical database: its own key space and TTL index, sharing
// the engine's pool and interner.
type db struct {
	index hashindex.Index[*entry]
	ttl   map[string]int64 // key string -> absolute expiry ms; absent means no TTL
}

func newDB(initialCapacity int) *db {
	return &db{
		index: *hashindex.New[*entry](initialCapacity),
		ttl:   make(map[string]int64),
	}
}

// Engine is the process-wide store. All mutating and reading operations
// take the engine-wide mutex for their duration: one lock held across
// each command's execution.
type Engine struct {
	log *zap.Logger

	mu sync.Mutex

	pool     *pool.Pool
	interner *pool.Interner

	dbs    []*db
	budget uint64
	policy EvictionPolicy

	accessCounter uint64 // monotonic LRU stamp, bumped on every successful GET
	clientIDGen   uint64
	usedBytes     uint64 // approximate accounting against budget
	authPassword  string
}

// New constructs a ready-to-use Engine with numDatabases logical
// databases (16 when numDatabases is <= 0 or > 16).
func New(log *zap.Logger, cfg Config) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	n := cfg.NumDatabases
	if n <= 0 {
		n = 16
	}
	if n > 16 {
		n = 16
	}
	dbs := make([]*db, n)
	for i := range dbs {
		dbs[i] = newDB(cfg.InitialCapacity)
	}
	p := pool.New()
	return &Engine{
		log:      log.Named("store"),
		pool:     p,
		interner: pool.NewInterner(p),
		dbs:      dbs,
		budget:   cfg.MemoryBudget,
		policy:   cfg.Eviction,
	}
}

// NumDatabases returns the configured logical-database count.
func (e *Engine) NumDatabases() int { return len(e.dbs) }

// SetAuthPassword installs (or clears, with "") the password AUTH checks
// against. Not itself locked against concurrent CheckAuth calls beyond
// the engine mutex, matching the single-writer administrative use.
func (e *Engine) SetAuthPassword(pw string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.authPassword = pw
}

// RequiresAuth reports whether a password is configured.
func (e *Engine) RequiresAuth() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.authPassword != ""
}

// CheckAuth reports whether pw matches the configured password. Callers
// must have already confirmed RequiresAuth to distinguish "no password
// set" from "wrong password" as separate AUTH error kinds.
func (e *Engine) CheckAuth(pw string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.authPassword != "" && pw == e.authPassword
}

// NextClientID returns the next value from the engine-wide monotonic
// client id generator.
func (e *Engine) NextClientID() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clientIDGen++
	return e.clientIDGen
}

// db validates a SELECT-style database index and returns the backing db.
func (e *Engine) db(index int) (*db, error) {
	if index < 0 || index >= len(e.dbs) {
		return nil, ErrBadDBIndex
	}
	return e.dbs[index], nil
}

// PoolStats exposes the tiered pool's hit/miss counters for the admin
// surface.
func (e *Engine) PoolStats() pool.Stats { return e.pool.Stats() }
