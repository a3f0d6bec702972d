package store

import (
	"time"

	"github.com/candicandi/zedis/internal/engine/hashindex"
)

func nowMS() int64 { return time.Now().UnixMilli() }

// Expire sets key's absolute expiry to atMS, deleting it immediately (and
// reporting deleted=true) instead if atMS has already passed — preserving
// the EXPIRE/DELETE coupling for non-positive TTLs rather than installing
// an already-past expiry.
func (e *Engine) Expire(dbIndex int, key []byte, atMS int64) (ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return false, err
	}
	now := nowMS()
	canon, found := e.interner.Lookup(key)
	if !found {
		return false, nil
	}
	if _, live := e.lookup(d, canon, now); !live {
		return false, nil
	}
	if atMS <= now {
		return e.deleteLocked(d, canon, hashindex.Hash64(canon)), nil
	}
	d.ttl[string(canon)] = atMS
	return true, nil
}

// Persist removes key's TTL, reporting whether a TTL was actually present.
func (e *Engine) Persist(dbIndex int, key []byte) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return false, err
	}
	canon, found := e.interner.Lookup(key)
	if !found {
		return false, nil
	}
	if _, live := e.lookup(d, canon, nowMS()); !live {
		return false, nil
	}
	if _, hasTTL := d.ttl[string(canon)]; !hasTTL {
		return false, nil
	}
	delete(d.ttl, string(canon))
	return true, nil
}

// TTL returns -2 if key is absent, -1 if present without a TTL, or the
// stored absolute expiry in milliseconds otherwise — the raw expiry
// rather than remaining seconds; see DESIGN.md for why this was kept.
func (e *Engine) TTL(dbIndex int, key []byte) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, err := e.db(dbIndex)
	if err != nil {
		return 0, err
	}
	canon, found := e.interner.Lookup(key)
	if !found {
		return -2, nil
	}
	if _, live := e.lookup(d, canon, nowMS()); !live {
		return -2, nil
	}
	exp, hasTTL := d.ttl[string(canon)]
	if !hasTTL {
		return -1, nil
	}
	return exp, nil
}
