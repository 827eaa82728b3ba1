package application

import "sync"

// projectLocks serializes all actions addressing the same project id.
// Locks are never removed; the per-project footprint is one mutex for the
// process lifetime, which matches the registry's never-delete semantics.
type projectLocks struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func (p *projectLocks) acquire(projectID uint64) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[uint64]*sync.Mutex)
	}
	l, ok := p.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[projectID] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
