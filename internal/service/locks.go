package service

import "sync"

// userLocks hands out one mutex per user ID. Mutating operations for a
// user are serialized through it; history reads bypass it entirely.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

// get returns the mutex for a user, creating it on first use. Locks
// are never removed; the map grows with the active user population.
func (ul *userLocks) get(userID int64) *sync.Mutex {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	lock, ok := ul.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		ul.locks[userID] = lock
	}
	return lock
}
