package storage

import (
	"sort"
	"strings"
	"sync"
)

// Op names a Provider operation for failure injection.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpRemove Op = "remove"
	OpKeys   Op = "keys"
)

type failure struct {
	op  Op
	key string
	err error
}

// MemoryStore keeps items in process memory. Nothing survives Close.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string]string
	loaded   bool
	failures []failure
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

func (s *MemoryStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	return nil
}

func (s *MemoryStore) Load() error {
	return s.Init()
}

func (s *MemoryStore) Close() error {
	return nil
}

// FailOn makes op return err for key. An empty key matches every key.
func (s *MemoryStore) FailOn(op Op, key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{op: op, key: key, err: err})
}

// ClearFailures removes every injected failure
func (s *MemoryStore) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = nil
}

func (s *MemoryStore) injected(op Op, key string) error {
	for _, f := range s.failures {
		if f.op == op && (f.key == "" || f.key == key) {
			return f.err
		}
	}
	return nil
}

func (s *MemoryStore) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return "", false, ErrNotLoaded
	}
	if err := s.injected(OpGet, key); err != nil {
		return "", false, err
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryStore) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	if err := s.injected(OpSet, key); err != nil {
		return err
	}
	s.items[key] = value
	return nil
}

func (s *MemoryStore) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	if err := s.injected(OpRemove, key); err != nil {
		return err
	}
	delete(s.items, key)
	return nil
}

func (s *MemoryStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	if err := s.injected(OpKeys, prefix); err != nil {
		return nil, err
	}
	return matchingKeys(s.items, prefix), nil
}

func (s *MemoryStore) GetConfigPath() string {
	return "memory"
}

func matchingKeys(items map[string]string, prefix string) []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
