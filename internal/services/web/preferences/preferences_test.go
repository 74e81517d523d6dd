package preferences

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
	"github.com/louisbranch/taskspace/internal/services/web/storage"
	"github.com/louisbranch/taskspace/internal/services/web/storage/sqlite"
)

func newStore(t *testing.T, backend storage.Store, owner string) *Store {
	t.Helper()
	store, err := New(backend, owner)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestNewRequiresBackendAndOwner(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, "u1"); !errors.Is(err, storage.ErrNotConfigured) {
		t.Fatalf("nil backend err = %v", err)
	}
	if _, err := New(storage.NewMemoryStore(), "  "); err == nil {
		t.Fatal("expected owner error")
	}
}

func TestThemeDefaults(t *testing.T) {
	t.Parallel()

	store := newStore(t, storage.NewMemoryStore(), "u1")
	got, err := store.Theme(context.Background())
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if got != (ThemePreference{Theme: "default", Radius: 0.5}) {
		t.Fatalf("theme = %+v", got)
	}
}

func TestSetThemeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pref    ThemePreference
		wantErr bool
		want    ThemePreference
	}{
		{name: "valid", pref: ThemePreference{Theme: "rose", Radius: 0.75}, want: ThemePreference{Theme: "rose", Radius: 0.75}},
		{name: "normalized", pref: ThemePreference{Theme: " Zinc ", Radius: 0}, want: ThemePreference{Theme: "zinc", Radius: 0}},
		{name: "unknown theme", pref: ThemePreference{Theme: "purple", Radius: 0.5}, wantErr: true},
		{name: "unsupported radius", pref: ThemePreference{Theme: "zinc", Radius: 0.4}, wantErr: true},
		{name: "empty", pref: ThemePreference{}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := newStore(t, storage.NewMemoryStore(), "u1")
			got, err := store.SetTheme(context.Background(), tc.pref)
			if tc.wantErr {
				if !apperrors.Is(err, apperrors.KindValidation) {
					t.Fatalf("err = %v, want validation", err)
				}
				stored, _ := store.Theme(context.Background())
				if stored != DefaultThemePreference() {
					t.Fatalf("invalid theme was stored: %+v", stored)
				}
				return
			}
			if err != nil {
				t.Fatalf("set theme: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
			stored, err := store.Theme(context.Background())
			if err != nil || stored != tc.want {
				t.Fatalf("stored = %+v, %v", stored, err)
			}
		})
	}
}

func TestThemeIgnoresCorruptDocument(t *testing.T) {
	t.Parallel()

	backend := storage.NewMemoryStore()
	ctx := context.Background()
	if err := backend.PutPreference(ctx, storage.Preference{Owner: "u1", Key: ThemeKey, Value: []byte(`{"theme":"plaid","radius":9}`)}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := newStore(t, backend, "u1")
	got, err := store.Theme(ctx)
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if got != DefaultThemePreference() {
		t.Fatalf("theme = %+v", got)
	}

	if err := backend.PutPreference(ctx, storage.Preference{Owner: "u1", Key: ThemeKey, Value: []byte(`not json`)}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got, err := store.Theme(ctx); err != nil || got != DefaultThemePreference() {
		t.Fatalf("theme = %+v, %v", got, err)
	}
}

func TestLayouts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore(t, storage.NewMemoryStore(), "u1")

	if got, err := store.Layout(ctx, "home"); err != nil || got != nil {
		t.Fatalf("empty layout = %v, %v", got, err)
	}
	home := GridLayout{{ID: "tasks", X: 0, Y: 0, W: 6, H: 4, MinW: 2, MinH: 2}}
	if _, err := store.SetLayout(ctx, "home", home); err != nil {
		t.Fatalf("set home: %v", err)
	}
	reports := GridLayout{{ID: "burndown", X: 6, Y: 0, W: 6, H: 3}}
	if _, err := store.SetLayout(ctx, "reports", reports); err != nil {
		t.Fatalf("set reports: %v", err)
	}

	got, err := store.Layout(ctx, "home")
	if err != nil || len(got) != 1 || got[0] != home[0] {
		t.Fatalf("home = %+v, %v", got, err)
	}

	if err := store.ResetLayout(ctx, "home"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got, _ := store.Layout(ctx, "home"); got != nil {
		t.Fatalf("home after reset = %+v", got)
	}
	if got, _ := store.Layout(ctx, "reports"); len(got) != 1 {
		t.Fatalf("reports after reset = %+v", got)
	}
	if err := store.ResetLayout(ctx, "missing"); err != nil {
		t.Fatalf("reset missing: %v", err)
	}
}

func TestSetLayoutValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		page   string
		layout GridLayout
	}{
		{name: "blank page", page: " ", layout: GridLayout{}},
		{name: "missing id", page: "home", layout: GridLayout{{W: 1, H: 1}}},
		{name: "duplicate id", page: "home", layout: GridLayout{{ID: "a", W: 1, H: 1}, {ID: "a", W: 1, H: 1}}},
		{name: "negative position", page: "home", layout: GridLayout{{ID: "a", X: -1, W: 1, H: 1}}},
		{name: "zero size", page: "home", layout: GridLayout{{ID: "a", W: 0, H: 1}}},
		{name: "below minimum", page: "home", layout: GridLayout{{ID: "a", W: 1, H: 1, MinW: 2}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := newStore(t, storage.NewMemoryStore(), "u1")
			if _, err := store.SetLayout(context.Background(), tc.page, tc.layout); !apperrors.Is(err, apperrors.KindValidation) {
				t.Fatalf("err = %v, want validation", err)
			}
		})
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := storage.NewMemoryStore()
	alice := newStore(t, backend, "alice")
	bob := newStore(t, backend, "bob")

	if _, err := alice.SetTheme(ctx, ThemePreference{Theme: "violet", Radius: 1}); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if got, _ := bob.Theme(ctx); got != DefaultThemePreference() {
		t.Fatalf("bob theme = %+v", got)
	}
}

func TestPreferencesSurviveSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	backend, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	store := newStore(t, backend, "u1")
	if _, err := store.SetTheme(ctx, ThemePreference{Theme: "blue", Radius: 0.3}); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if _, err := store.SetLayout(ctx, "home", GridLayout{{ID: "inbox", W: 4, H: 2}}); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	store = newStore(t, reopened, "u1")
	theme, err := store.Theme(ctx)
	if err != nil || theme != (ThemePreference{Theme: "blue", Radius: 0.3}) {
		t.Fatalf("theme = %+v, %v", theme, err)
	}
	layout, err := store.Layout(ctx, "home")
	if err != nil || len(layout) != 1 || layout[0].ID != "inbox" {
		t.Fatalf("layout = %+v, %v", layout, err)
	}
}
