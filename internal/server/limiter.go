package server

import "sync"

// connLimiter is a dynamically adjustable semaphore with explicit
// ownership, one slot per accepted connection keyed by its client id:
// same acquire/release/ownership-table shape as a process-slot pool,
// generalized from process ids to connection ids so a bad connection can
// never double-release or leak a slot silently.
type connLimiter struct {
	mu         sync.Mutex
	cond       *sync.Cond
	maxCap     int64
	usage      int64
	acquiredBy map[uint64]struct{}
}

func newConnLimiter(max int64) *connLimiter {
	l := &connLimiter{maxCap: max, acquiredBy: make(map[uint64]struct{})}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// acquire blocks until usage < maxCap (maxCap <= 0 means unbounded) and
// registers id as the owner.
func (l *connLimiter) acquire(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, holds := l.acquiredBy[id]; holds {
		panic("connLimiter: id already holds a slot")
	}
	for l.maxCap > 0 && l.usage >= l.maxCap {
		l.cond.Wait()
	}
	l.usage++
	l.acquiredBy[id] = struct{}{}
}

// release frees the slot owned by id.
func (l *connLimiter) release(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, holds := l.acquiredBy[id]; !holds {
		panic("connLimiter: release for non-owner id")
	}
	delete(l.acquiredBy, id)
	l.usage--
	l.cond.Signal()
}

// current returns the number of active connections holding a slot.
func (l *connLimiter) current() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.usage
}
