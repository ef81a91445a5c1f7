package kvstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps key-value pairs in a mutex-guarded map. Used by tests
// and ephemeral runs; values use the same string encodings as SQLite.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Close() error { return nil }

// Keys returns a snapshot of all stored keys. Test helper.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

func (s *MemoryStore) get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStore) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *MemoryStore) GetString(_ context.Context, key string) (string, bool, error) {
	v, ok := s.get(key)
	return v, ok, nil
}

func (s *MemoryStore) SetString(_ context.Context, key, value string) error {
	s.set(key, value)
	return nil
}

func (s *MemoryStore) GetBool(_ context.Context, key string) (bool, bool, error) {
	raw, ok := s.get(key)
	if !ok {
		return false, false, nil
	}
	v, err := decodeBool(raw)
	if err != nil {
		return false, false, malformed(key, err)
	}
	return v, true, nil
}

func (s *MemoryStore) SetBool(_ context.Context, key string, value bool) error {
	s.set(key, encodeBool(value))
	return nil
}

func (s *MemoryStore) GetFloat(_ context.Context, key string) (float64, bool, error) {
	raw, ok := s.get(key)
	if !ok {
		return 0, false, nil
	}
	v, err := decodeFloat(raw)
	if err != nil {
		return 0, false, malformed(key, err)
	}
	return v, true, nil
}

func (s *MemoryStore) SetFloat(_ context.Context, key string, value float64) error {
	s.set(key, encodeFloat(value))
	return nil
}

func (s *MemoryStore) GetStringList(_ context.Context, key string) ([]string, bool, error) {
	raw, ok := s.get(key)
	if !ok {
		return nil, false, nil
	}
	values, err := decodeStringList(raw)
	if err != nil {
		return nil, false, malformed(key, err)
	}
	return values, true, nil
}

func (s *MemoryStore) SetStringList(_ context.Context, key string, values []string) error {
	raw, err := encodeStringList(values)
	if err != nil {
		return fmt.Errorf("encode list for key %s: %w", key, err)
	}
	s.set(key, raw)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}
