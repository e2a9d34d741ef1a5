package storage

import (
	"bytes"
	"slices"
	"strings"
	"sync"
)

// MemoryStore is an in-memory implementation of a Store, mainly
// used for testing. Do not use MemoryStore in production.
type MemoryStore struct {
	mut sync.RWMutex
	mem map[string][]byte
}

// NewMemoryStore creates a new MemoryStore object.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mem: make(map[string][]byte),
	}
}

// Get implements the Store interface.
func (s *MemoryStore) Get(key []byte) ([]byte, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	if val, ok := s.mem[string(key)]; ok {
		return val, nil
	}
	return nil, ErrKeyNotFound
}

// Put implements the Store interface. Never returns an error.
func (s *MemoryStore) Put(key, value []byte) error {
	s.mut.Lock()
	s.mem[string(key)] = bytes.Clone(value)
	s.mut.Unlock()
	return nil
}

// Delete implements the Store interface. Never returns an error.
func (s *MemoryStore) Delete(key []byte) error {
	s.mut.Lock()
	delete(s.mem, string(key))
	s.mut.Unlock()
	return nil
}

// Seek implements the Store interface. Never returns an error.
func (s *MemoryStore) Seek(prefix []byte, f func(k, v []byte) bool) error {
	s.mut.RLock()
	sPrefix := string(prefix)
	keys := make([]string, 0, len(s.mem))
	for k := range s.mem {
		if strings.HasPrefix(k, sPrefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	vals := make([][]byte, len(keys))
	for i, k := range keys {
		vals[i] = s.mem[k]
	}
	s.mut.RUnlock()

	for i := range keys {
		if !f([]byte(keys[i]), vals[i]) {
			break
		}
	}
	return nil
}

// Close implements Store interface and clears up memory. The store stays
// usable (and empty) after Close. Never returns an error.
func (s *MemoryStore) Close() error {
	s.mut.Lock()
	s.mem = make(map[string][]byte)
	s.mut.Unlock()
	return nil
}
