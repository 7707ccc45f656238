package postgres

import (
	"os"
	"strings"
	"testing"

	"github.com/julianstephens/caltrack/internal/storage"
	"github.com/julianstephens/caltrack/internal/storage/storagetest"
)

// TestStore_Integration runs the Provider contract against a real database.
// Set POSTGRES_TEST_URL to run it, e.g.
// POSTGRES_TEST_URL="postgres://caltrack@localhost:5432/caltrack_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	storagetest.RunProviderContract(t, func(t *testing.T) storage.Provider {
		store := New(connStr)
		if err := store.Init(); err != nil {
			t.Fatalf("Failed to initialize store: %v", err)
		}
		// Start every subtest from an empty key space
		if _, err := store.db.Exec("DELETE FROM kv"); err != nil {
			t.Fatalf("Failed to clear kv table: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		return store
	})

	t.Run("migrations complete", func(t *testing.T) {
		store := New(connStr)
		if err := store.Load(); err != nil {
			if strings.Contains(err.Error(), "newer") {
				t.Fatalf("schema newer than application: %v", err)
			}
			t.Fatalf("Load() failed: %v", err)
		}
		defer store.Close()

		pending, err := store.PendingMigrations()
		if err != nil || pending != 0 {
			t.Errorf("PendingMigrations() = %d, %v; want 0, nil", pending, err)
		}
	})
}
