package storage

import "errors"

var (
	// ErrNotLoaded is returned when a Provider is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrNotInitialized is returned by Load when the backing store does not exist yet
	ErrNotInitialized = errors.New("storage not initialized, run 'caltrack init' first")
)

// Provider is a synchronous, string-keyed, string-valued persistent key space.
//
// GetItem reports a missing key as ("", false, nil). RemoveItem on a missing
// key is a no-op. Implementations never interpret values.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Items
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	// Keys returns every stored key starting with prefix, sorted.
	Keys(prefix string) ([]string, error)

	// Utils
	GetConfigPath() string
}
