package users

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/caltrack/internal/cli"
	"github.com/julianstephens/caltrack/internal/config"
	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/storage"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := cli.NewContext(store, config.Options{Backend: constants.BackendMemory})
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.Now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	return ctx, out
}

func TestLoginCmd_CreatesUser(t *testing.T) {
	ctx, out := setupTestContext(t)

	cmd := &LoginCmd{Name: "Ana", Goal: 1800}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	u, ok := ctx.Store.GetActiveUser()
	if !ok {
		t.Fatal("expected an active user after login")
	}
	if u.Name != "Ana" || u.DailyCalorieGoal != 1800 {
		t.Errorf("active user = %+v", u)
	}
	if u.ID == "" {
		t.Error("new user should get an id")
	}
	if !strings.Contains(out.String(), "Created user Ana") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestLoginCmd_SelectsExistingUserCaseInsensitive(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&LoginCmd{Name: "Ana"}).Run(ctx); err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	first, _ := ctx.Store.GetActiveUser()

	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	out.Reset()

	if err := (&LoginCmd{Name: "ana"}).Run(ctx); err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	second, ok := ctx.Store.GetActiveUser()
	if !ok || second.ID != first.ID {
		t.Errorf("expected to sign back in as %s, got %+v", first.ID, second)
	}
	if n := len(ctx.Store.ListAllUsers()); n != 1 {
		t.Errorf("expected 1 indexed user, got %d", n)
	}
	if !strings.Contains(out.String(), "Welcome back") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestLoginCmd_NonInteractiveRequiresName(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&LoginCmd{}).Run(ctx); err == nil {
		t.Error("expected an error without a name")
	}
}

func TestWhoamiCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&WhoamiCmd{}).Run(ctx); !errors.Is(err, cli.ErrNoActiveUser) {
		t.Errorf("expected ErrNoActiveUser, got %v", err)
	}

	if err := (&LoginCmd{Name: "Ana"}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := (&ProfileCmd{Weight: 81, Height: 180}).Run(ctx); err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	out.Reset()

	if err := (&WhoamiCmd{}).Run(ctx); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	for _, want := range []string{"Ana", "81.0 kg", "BMI"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("whoami output missing %q: %q", want, out.String())
		}
	}
}

func TestLogoutCmd_KeepsUserDocuments(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&LoginCmd{Name: "Ana"}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	u, _ := ctx.Store.GetActiveUser()

	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, ok := ctx.Store.GetActiveUser(); ok {
		t.Error("expected no active user after logout")
	}
	if _, ok := ctx.Store.GetUser(u.ID); !ok {
		t.Error("logout should keep the user document")
	}
}

func TestListCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No users yet") {
		t.Errorf("unexpected output: %q", out.String())
	}

	for _, name := range []string{"Ana", "Bo"} {
		if err := (&LoginCmd{Name: name}).Run(ctx); err != nil {
			t.Fatalf("login %s failed: %v", name, err)
		}
	}
	out.Reset()

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "* Bo") {
		t.Errorf("active user should be marked: %q", out.String())
	}
	if !strings.Contains(out.String(), "Ana") {
		t.Errorf("list output missing Ana: %q", out.String())
	}
}

func TestExistsCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&LoginCmd{Name: "Ana"}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := (&ExistsCmd{Name: "ANA"}).Run(ctx); err != nil {
		t.Errorf("exists ANA: %v", err)
	}
	if err := (&ExistsCmd{Name: "Bo"}).Run(ctx); err == nil {
		t.Error("exists Bo should fail")
	}
}

func TestProfileCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     ProfileCmd
		wantErr bool
	}{
		{"goal", ProfileCmd{Goal: 2100}, false},
		{"activity", ProfileCmd{Activity: "moderate"}, false},
		{"bad activity", ProfileCmd{Activity: "couch"}, true},
		{"bad sex", ProfileCmd{Sex: "other"}, true},
		{"no flags", ProfileCmd{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestContext(t)
			if err := (&LoginCmd{Name: "Ana"}).Run(ctx); err != nil {
				t.Fatalf("login failed: %v", err)
			}

			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProfileCmd_UpdatesIndexName(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&LoginCmd{Name: "Ana"}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := (&ProfileCmd{Name: "Anabel"}).Run(ctx); err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if !ctx.Store.NameExists("anabel") {
		t.Error("index should carry the new name")
	}
	if ctx.Store.NameExists("ana") {
		t.Error("index should drop the old name")
	}
}
