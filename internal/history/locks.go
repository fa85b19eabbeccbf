package history

import "sync"

// keyedMutex serialises operations on the same item ID. Entries are
// reference counted and dropped once no caller holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

// Lock blocks until id is free and returns its unlock func.
func (k *keyedMutex) Lock(id string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refLock)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &refLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return k.release(id, l)
}

// TryLock takes id only when nobody holds or waits on it.
func (k *keyedMutex) TryLock(id string) (unlock func(), ok bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, busy := k.locks[id]; busy {
		return nil, false
	}
	if k.locks == nil {
		k.locks = make(map[string]*refLock)
	}
	l := &refLock{refs: 1}
	l.Lock()
	k.locks[id] = l
	return k.release(id, l), true
}

func (k *keyedMutex) release(id string, l *refLock) func() {
	return func() {
		l.Unlock()
		k.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
