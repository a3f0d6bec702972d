package store

import "github.com/candicandi/zedis/internal/engine/hashindex"

// sampleSize scales how many occupied slots sampleLRUKey draws per attempt
// (4*sampleSize).
const sampleSize = 5

// sampleLRUKey draws up to 4*sampleSize occupied slots from d's index,
// starting at the access-counter offset, and returns the one with the
// smallest last_access stamp (for VolatileLRU, only drawn slots whose key
// carries a TTL are considered).
func (e *Engine) sampleLRUKey(d *db, volatileOnly bool) (key []byte, ok bool) {
	candidates := d.index.SampleOccupied(int(e.accessCounter), sampleSize*4)
	var bestKey []byte
	var bestStamp uint64
	found := false
	for _, c := range candidates {
		if volatileOnly {
			if _, hasTTL := d.ttl[string(c.Key)]; !hasTTL {
				continue
			}
		}
		if !found || c.Val.lastAccess < bestStamp {
			bestKey = c.Key
			bestStamp = c.Val.lastAccess
			found = true
		}
	}
	return bestKey, found
}

// maybeEvict repeatedly samples and deletes victims while the engine's
// memory budget (if any) would be exceeded by admitting an additional
// neededBytes. With NoEviction, allocation pressure surfaces as ErrOOM to
// the caller instead.
func (e *Engine) maybeEvict(neededBytes uint64) error {
	if e.budget == 0 {
		e.usedBytes += neededBytes
		return nil
	}
	for e.usedBytes+neededBytes > e.budget {
		if e.policy == NoEviction {
			return ErrOOM
		}
		if !e.evictOne() {
			break
		}
	}
	e.usedBytes += neededBytes
	return nil
}

// evictOne walks the databases in index order, deletes the sampled victim
// of the first one that yields a candidate, and reports whether anything
// was evicted.
func (e *Engine) evictOne() bool {
	volatileOnly := e.policy == VolatileLRU
	for _, d := range e.dbs {
		key, ok := e.sampleLRUKey(d, volatileOnly)
		if !ok {
			continue
		}
		canon, found := e.interner.Lookup(key)
		if !found {
			continue
		}
		if ent, live := d.index.Get(canon, hashindex.Hash64(canon)); live {
			e.usedBytes -= approxSize(ent.val)
		}
		e.deleteLocked(d, canon, hashindex.Hash64(canon))
		return true
	}
	return false
}
