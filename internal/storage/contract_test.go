package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/caltrack/internal/storage"
	"github.com/julianstephens/caltrack/internal/storage/storagetest"
)

func TestMemoryStoreContract(t *testing.T) {
	storagetest.RunProviderContract(t, func(t *testing.T) storage.Provider {
		s := storage.NewMemoryStore()
		if err := s.Init(); err != nil {
			t.Fatalf("Init() failed: %v", err)
		}
		return s
	})
}

func TestJSONStoreContract(t *testing.T) {
	storagetest.RunProviderContract(t, func(t *testing.T) storage.Provider {
		s := storage.NewJSONStore(filepath.Join(t.TempDir(), "caltrack.json"))
		if err := s.Init(); err != nil {
			t.Fatalf("Init() failed: %v", err)
		}
		return s
	})
}
