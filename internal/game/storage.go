package game

import (
	"sort"
	"strings"
	"sync"

	"github.com/user/career-survival/internal/interfaces"
)

// MemoryStore keeps records in a map; used by tests, simulations and the
// "memory" database driver
type MemoryStore struct {
	data      map[string]string
	stateLock sync.RWMutex
}

var (
	_ interfaces.Store     = (*MemoryStore)(nil)
	_ interfaces.KeyLister = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
	}
}

// Get returns the value stored under key
func (ms *MemoryStore) Get(key string) (string, bool, error) {
	ms.stateLock.RLock()
	defer ms.stateLock.RUnlock()

	v, ok := ms.data[key]
	return v, ok, nil
}

// Set stores value under key
func (ms *MemoryStore) Set(key, value string) error {
	ms.stateLock.Lock()
	defer ms.stateLock.Unlock()

	ms.data[key] = value
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (ms *MemoryStore) Delete(key string) error {
	ms.stateLock.Lock()
	defer ms.stateLock.Unlock()

	delete(ms.data, key)
	return nil
}

// Len reports the number of stored records
func (ms *MemoryStore) Len() int {
	ms.stateLock.RLock()
	defer ms.stateLock.RUnlock()

	return len(ms.data)
}

// Keys lists the stored keys starting with prefix
func (ms *MemoryStore) Keys(prefix string) ([]string, error) {
	ms.stateLock.RLock()
	defer ms.stateLock.RUnlock()

	var keys []string
	for k := range ms.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
