package docstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/logger"
	"github.com/julianstephens/caltrack/internal/storage"
	"github.com/julianstephens/caltrack/internal/validation"
)

// Store is the document layer over a storage.Provider. The active session
// pointer lives in the store's own key space, so separate Stores (or
// namespaces) are fully isolated sessions.
//
// Operations are read-modify-write over whole documents and are not atomic
// with respect to other writers of the same key space.
type Store struct {
	provider         storage.Provider
	keys             Keys
	now              func() time.Time
	eraseCustomFoods bool
}

// Option configures a Store
type Option func(*Store)

// WithNamespace sets the prefix applied to every key
func WithNamespace(ns string) Option {
	return func(s *Store) {
		s.keys.Namespace = ns
	}
}

// WithClock overrides the time source used for index timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithEraseCustomFoods makes ClearAllData remove custom food lists too.
// They are kept by default.
func WithEraseCustomFoods(erase bool) Option {
	return func(s *Store) {
		s.eraseCustomFoods = erase
	}
}

// New returns a Store over an initialized or loaded provider
func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		keys:     Keys{Namespace: constants.DefaultNamespace},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Keys returns the key derivation for this store's namespace
func (s *Store) Keys() Keys {
	return s.keys
}

// Provider returns the underlying storage provider
func (s *Store) Provider() storage.Provider {
	return s.provider
}

func readDoc[T any](s *Store, key string, kind validation.DocumentKind) Result[T] {
	raw, found, err := s.provider.GetItem(key)
	if err != nil {
		logger.Error("failed to read document", "key", key, "error", err)
		return failed[T](fmt.Errorf("failed to read %s: %w", key, err))
	}
	if !found {
		return empty[T]()
	}

	if err := validation.ValidateDocument(kind, []byte(raw)); err != nil {
		logger.Error("stored document is corrupt", "key", key, "error", err)
		return failed[T](fmt.Errorf("corrupt document at %s: %w", key, err))
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logger.Error("failed to decode document", "key", key, "error", err)
		return failed[T](fmt.Errorf("failed to decode %s: %w", key, err))
	}
	return ok(v)
}

// readList treats a missing list as empty and refuses to continue on failure,
// so a read-modify-write never clobbers a list it could not read.
func readList[T any](s *Store, key string, kind validation.DocumentKind) ([]T, error) {
	res := readDoc[[]T](s, key, kind)
	if res.Status == StatusFailed {
		return nil, res.Err
	}
	return res.Value, nil
}

func (s *Store) writeDoc(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to encode document", "key", key, "error", err)
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.provider.SetItem(key, string(data)); err != nil {
		logger.Error("failed to write document", "key", key, "error", err)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) removeKey(key string) error {
	if err := s.provider.RemoveItem(key); err != nil {
		logger.Error("failed to remove document", "key", key, "error", err)
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
