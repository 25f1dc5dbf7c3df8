package graphcache

import "sync"

// keyLock hands out one mutex per key, dropping it once nobody holds or waits for it.
type keyLock struct {
	mutex sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*refMutex)}
}

// lock blocks until key is free and returns the function releasing it.
func (k *keyLock) lock(key string) func() {
	k.mutex.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mutex.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mutex.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mutex.Unlock()
	}
}

func (k *keyLock) len() int {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	return len(k.locks)
}
