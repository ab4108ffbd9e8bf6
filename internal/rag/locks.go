// ABOUTME: Per-document write locking for the engine
// ABOUTME: Serializes ingest/update/delete for the same document ID across front doors
package rag

import "sync"

// keyedMutex hands out one mutex per key. Mutexes are never reclaimed;
// the key space is document IDs, which stays small enough not to matter.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
