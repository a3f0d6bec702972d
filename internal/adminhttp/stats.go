package adminhttp

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/candicandi/zedis/internal/engine/pool"
	"github.com/candicandi/zedis/internal/engine/store"
)

// statsTTL bounds how long a /stats response is served from cache before
// the next request triggers a fresh engine walk.
const statsTTL = 250 * time.Millisecond

// Snapshot is the /stats response body.
type Snapshot struct {
	Pool        pool.Stats `json:"pool"`
	Databases   []int      `json:"databases"` // key count per database index
	GeneratedAt time.Time  `json:"generated_at"`
}

// statsCache coalesces concurrent /stats requests into a single engine
// walk and serves the result for statsTTL, the same cached-snapshot-plus-
// singleflight shape this codebase uses for its channel summary endpoint.
type statsCache struct {
	engine *store.Engine

	mu      sync.RWMutex
	cached  Snapshot
	expires time.Time

	sg singleflight.Group
}

func newStatsCache(engine *store.Engine) *statsCache {
	return &statsCache{engine: engine}
}

func (s *statsCache) get(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	if time.Now().Before(s.expires) {
		snap := s.cached
		s.mu.RUnlock()
		return snap, nil
	}
	s.mu.RUnlock()

	v, err, _ := s.sg.Do("stats-refresh", func() (any, error) {
		s.mu.RLock()
		if time.Now().Before(s.expires) {
			snap := s.cached
			s.mu.RUnlock()
			return snap, nil
		}
		s.mu.RUnlock()

		snap, err := s.refresh()
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cached = snap
		s.expires = time.Now().Add(statsTTL)
		s.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

func (s *statsCache) refresh() (Snapshot, error) {
	n := s.engine.NumDatabases()
	dbs := make([]int, n)
	for i := 0; i < n; i++ {
		count, err := s.engine.DBSize(i)
		if err != nil {
			return Snapshot{}, err
		}
		dbs[i] = count
	}
	return Snapshot{
		Pool:        s.engine.PoolStats(),
		Databases:   dbs,
		GeneratedAt: time.Now(),
	}, nil
}
