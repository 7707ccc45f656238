// Package storagetest holds the behavior every storage.Provider must share.
package storagetest

import (
	"reflect"
	"testing"

	"github.com/julianstephens/caltrack/internal/storage"
)

// RunProviderContract exercises newStore's Provider against the local
// storage semantics. newStore must return an initialized, empty Provider.
func RunProviderContract(t *testing.T, newStore func(t *testing.T) storage.Provider) {
	t.Helper()

	t.Run("missing key", func(t *testing.T) {
		s := newStore(t)
		v, ok, err := s.GetItem("absent")
		if err != nil {
			t.Fatalf("GetItem() unexpected error: %v", err)
		}
		if ok || v != "" {
			t.Errorf("GetItem(absent) = %q, %v; want \"\", false", v, ok)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		if err := s.SetItem("users", `[{"id":"1"}]`); err != nil {
			t.Fatalf("SetItem() failed: %v", err)
		}
		v, ok, err := s.GetItem("users")
		if err != nil || !ok {
			t.Fatalf("GetItem() = %q, %v, %v", v, ok, err)
		}
		if v != `[{"id":"1"}]` {
			t.Errorf("GetItem() = %q, want stored value", v)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStore(t)
		if err := s.SetItem("k", "a"); err != nil {
			t.Fatalf("SetItem() failed: %v", err)
		}
		if err := s.SetItem("k", "b"); err != nil {
			t.Fatalf("SetItem() failed: %v", err)
		}
		v, _, _ := s.GetItem("k")
		if v != "b" {
			t.Errorf("GetItem() after overwrite = %q, want %q", v, "b")
		}
	})

	t.Run("empty value", func(t *testing.T) {
		s := newStore(t)
		if err := s.SetItem("empty", ""); err != nil {
			t.Fatalf("SetItem() failed: %v", err)
		}
		v, ok, err := s.GetItem("empty")
		if err != nil || !ok || v != "" {
			t.Errorf("GetItem(empty) = %q, %v, %v; want \"\", true, nil", v, ok, err)
		}
	})

	t.Run("remove", func(t *testing.T) {
		s := newStore(t)
		if err := s.SetItem("k", "v"); err != nil {
			t.Fatalf("SetItem() failed: %v", err)
		}
		if err := s.RemoveItem("k"); err != nil {
			t.Fatalf("RemoveItem() failed: %v", err)
		}
		if _, ok, _ := s.GetItem("k"); ok {
			t.Error("key still present after RemoveItem()")
		}
	})

	t.Run("remove missing is a no-op", func(t *testing.T) {
		s := newStore(t)
		if err := s.RemoveItem("never-set"); err != nil {
			t.Errorf("RemoveItem() on missing key returned %v", err)
		}
	})

	t.Run("keys by prefix", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"ns_records_b", "ns_records_a", "ns_user_a", "other"} {
			if err := s.SetItem(k, "{}"); err != nil {
				t.Fatalf("SetItem(%s) failed: %v", k, err)
			}
		}

		got, err := s.Keys("ns_records_")
		if err != nil {
			t.Fatalf("Keys() failed: %v", err)
		}
		want := []string{"ns_records_a", "ns_records_b"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Keys() = %v, want %v", got, want)
		}

		all, err := s.Keys("")
		if err != nil {
			t.Fatalf("Keys(\"\") failed: %v", err)
		}
		if len(all) != 4 {
			t.Errorf("Keys(\"\") returned %d keys, want 4", len(all))
		}
	})

	t.Run("prefix with pattern characters", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"a_%*x", "abcx"} {
			if err := s.SetItem(k, "1"); err != nil {
				t.Fatalf("SetItem(%s) failed: %v", k, err)
			}
		}
		got, err := s.Keys("a_%*")
		if err != nil {
			t.Fatalf("Keys() failed: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"a_%*x"}) {
			t.Errorf("Keys(a_%%*) = %v, want literal prefix match", got)
		}
	})

	t.Run("unicode values", func(t *testing.T) {
		s := newStore(t)
		val := `{"name":"Plátano con café ☕"}`
		if err := s.SetItem("u", val); err != nil {
			t.Fatalf("SetItem() failed: %v", err)
		}
		got, _, _ := s.GetItem("u")
		if got != val {
			t.Errorf("GetItem() = %q, want %q", got, val)
		}
	})
}
