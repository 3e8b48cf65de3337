package blobstore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend keeps blobs in process memory. Used in tests and as a
// throwaway local backend; contents are lost on restart.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string]map[string][]byte)}
}

func (m *MemoryBackend) Get(ctx context.Context, collection, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.collections[collection][key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryBackend) Set(ctx context.Context, collection, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.collections[collection]
	if !ok {
		bucket = make(map[string][]byte)
		m.collections[collection] = bucket
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	bucket[key] = stored
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, collection, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.collections[collection]
	if !ok {
		return ErrKeyNotFound
	}
	if _, ok := bucket[key]; !ok {
		return ErrKeyNotFound
	}
	delete(bucket, key)
	return nil
}

func (m *MemoryBackend) List(ctx context.Context, collection string, opts ListOptions) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.collections[collection] {
		if opts.Prefix == "" || strings.HasPrefix(key, opts.Prefix) {
			keys = append(keys, key)
		}
	}
	// Deterministic order so repeated listings page identically.
	sort.Strings(keys)

	if opts.Limit > 0 && len(keys) > opts.Limit {
		keys = keys[:opts.Limit]
	}
	return keys, nil
}
