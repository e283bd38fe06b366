package service

import "sync"

// keyedMutex serializes work per string key.
//
// WHY THE LEDGER NEEDS THIS:
// A completion toggle is a read-modify-write across two rows (the record and
// the user's XP total). Two requests racing on the same (user, habit, day)
// could both read the same prior state and apply conflicting XP deltas. The
// XP update itself is atomic at the storage layer, but the decision of WHICH
// delta to apply depends on the prior completed flag — so the whole
// read-decide-write sequence holds the key's lock.
//
// Entries are reference-counted and removed once the last holder unlocks,
// so the map stays bounded by the number of in-flight requests rather than
// the number of keys ever seen.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyLock)}
}

// Lock blocks until the caller holds the lock for key.
func (km *keyedMutex) Lock(key string) {
	km.mu.Lock()
	kl, ok := km.locks[key]
	if !ok {
		kl = &keyLock{}
		km.locks[key] = kl
	}
	kl.refs++
	km.mu.Unlock()

	kl.mu.Lock()
}

// Unlock releases the lock for key. Must pair with a prior Lock(key).
func (km *keyedMutex) Unlock(key string) {
	km.mu.Lock()
	kl, ok := km.locks[key]
	if !ok {
		km.mu.Unlock()
		panic("keyedMutex: unlock of unheld key " + key)
	}
	kl.refs--
	if kl.refs == 0 {
		delete(km.locks, key)
	}
	km.mu.Unlock()

	kl.mu.Unlock()
}
