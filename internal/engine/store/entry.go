package store

import "github.com/candicandi/zedis/internal/engine/object"

// entry wraps a stored object with its approximate-LRU recency stamp.
// last_access is bumped on every successful GET-family access and is the
// sort key the LRU sampler reads.
type entry struct {
	val        object.Value
	lastAccess uint64
}
