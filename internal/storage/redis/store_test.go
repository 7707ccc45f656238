package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/caltrack/internal/storage"
	"github.com/julianstephens/caltrack/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	store := NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestStoreContract(t *testing.T) {
	storagetest.RunProviderContract(t, func(t *testing.T) storage.Provider {
		store, _ := setupTestStore(t)
		return store
	})
}

func TestNewFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := New("redis://" + mr.Addr() + "/0")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer store.Close()

	if err := store.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := store.SetItem("k", "v"); err != nil {
		t.Fatalf("SetItem() failed: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("value in redis = %q, want %q", got, "v")
	}
}

func TestNewInvalidURL(t *testing.T) {
	if _, err := New("http://not-redis"); err == nil {
		t.Error("New() should reject a non-redis URL")
	}
}

func TestLoadUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	defer store.Close()
	mr.Close()

	if err := store.Load(); err == nil {
		t.Error("Load() should fail when redis is unreachable")
	}
}

func TestHasEmbeddedPassword(t *testing.T) {
	if !HasEmbeddedPassword("redis://:secret@localhost:6379/0") {
		t.Error("expected password to be detected")
	}
	if HasEmbeddedPassword("redis://localhost:6379/0") {
		t.Error("unexpected password detected")
	}
}

func TestEscapeGlob(t *testing.T) {
	if got := escapeGlob(`a*b?[c]\`); got != `a\*b\?\[c\]\\` {
		t.Errorf("escapeGlob() = %q", got)
	}
}

func TestConfigPath(t *testing.T) {
	store, mr := setupTestStore(t)
	if store.GetConfigPath() != "redis://"+mr.Addr() {
		t.Errorf("GetConfigPath() = %q", store.GetConfigPath())
	}
}
