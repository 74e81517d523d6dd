package preferences

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
	"github.com/louisbranch/taskspace/internal/services/web/schema"
	"github.com/louisbranch/taskspace/internal/services/web/storage"
)

const (
	// ThemeKey is the storage key of the theme document.
	ThemeKey = "theme-config"
	// LayoutsKey is the storage key of the per-page layout document.
	LayoutsKey = "dashboard-layouts"

	// DefaultTheme is used until a user picks one.
	DefaultTheme = "default"
	// DefaultRadius is the corner radius, in rem, until a user picks one.
	DefaultRadius = 0.5
)

var (
	themes = []string{
		"default", "zinc", "slate", "stone", "gray", "neutral", "red",
		"rose", "orange", "green", "blue", "yellow", "violet",
	}
	radii = []float64{0, 0.3, 0.5, 0.75, 1.0}
)

// Themes returns the selectable theme names.
func Themes() []string {
	return slices.Clone(themes)
}

// Radii returns the selectable corner radii.
func Radii() []float64 {
	return slices.Clone(radii)
}

// ThemePreference is the persisted appearance choice.
type ThemePreference struct {
	Theme  string  `json:"theme"`
	Radius float64 `json:"radius"`
}

// DefaultThemePreference returns the appearance used before any choice.
func DefaultThemePreference() ThemePreference {
	return ThemePreference{Theme: DefaultTheme, Radius: DefaultRadius}
}

// Validate reports whether the theme and radius are selectable values.
func (p ThemePreference) Validate() error {
	c := schema.Checker{}
	if !slices.Contains(themes, p.Theme) {
		c.Fail("theme", "must be one of %s", strings.Join(themes, ", "))
	}
	if !slices.Contains(radii, p.Radius) {
		c.Fail("radius", "must be one of 0, 0.3, 0.5, 0.75, 1")
	}
	return c.Err()
}

// Cell is one positioned rectangle of a dashboard grid.
type Cell struct {
	ID   string `json:"i"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	MinW int    `json:"minW,omitempty"`
	MinH int    `json:"minH,omitempty"`
}

// GridLayout is the ordered cell list of one page.
type GridLayout []Cell

// Validate checks cell ids and geometry.
func (l GridLayout) Validate() error {
	c := schema.Checker{}
	seen := make(map[string]struct{}, len(l))
	for i, cell := range l {
		field := fmt.Sprintf("layout[%d]", i)
		id := strings.TrimSpace(cell.ID)
		if id == "" {
			c.Fail(field+".i", "is required")
		} else if _, dup := seen[id]; dup {
			c.Fail(field+".i", "must be unique")
		}
		seen[id] = struct{}{}
		c.NonNegative(field+".x", cell.X)
		c.NonNegative(field+".y", cell.Y)
		c.Positive(field+".w", cell.W)
		c.Positive(field+".h", cell.H)
		c.NonNegative(field+".minW", cell.MinW)
		c.NonNegative(field+".minH", cell.MinH)
		if cell.MinW > 0 && cell.W < cell.MinW {
			c.Fail(field+".w", "must not be below minW")
		}
		if cell.MinH > 0 && cell.H < cell.MinH {
			c.Fail(field+".h", "must not be below minH")
		}
	}
	return c.Err()
}

// Store is the preference state of one owner.
type Store struct {
	backend storage.Store
	owner   string
}

// New binds a Store to owner over backend.
func New(backend storage.Store, owner string) (*Store, error) {
	if backend == nil {
		return nil, storage.ErrNotConfigured
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, fmt.Errorf("preference owner is required")
	}
	return &Store{backend: backend, owner: owner}, nil
}

// Theme returns the stored appearance, or the defaults when nothing valid is
// stored.
func (s *Store) Theme(ctx context.Context) (ThemePreference, error) {
	pref := DefaultThemePreference()
	found, err := s.load(ctx, ThemeKey, &pref)
	if err != nil {
		return DefaultThemePreference(), err
	}
	if !found || pref.Validate() != nil {
		return DefaultThemePreference(), nil
	}
	return pref, nil
}

// SetTheme validates and persists pref.
func (s *Store) SetTheme(ctx context.Context, pref ThemePreference) (ThemePreference, error) {
	pref.Theme = strings.ToLower(strings.TrimSpace(pref.Theme))
	if err := pref.Validate(); err != nil {
		return ThemePreference{}, err
	}
	if err := s.save(ctx, ThemeKey, pref); err != nil {
		return ThemePreference{}, err
	}
	return pref, nil
}

// Layout returns the stored layout of page. A page without a stored layout
// returns nil.
func (s *Store) Layout(ctx context.Context, page string) (GridLayout, error) {
	page, err := pageID(page)
	if err != nil {
		return nil, err
	}
	layouts, err := s.layouts(ctx)
	if err != nil {
		return nil, err
	}
	return layouts[page], nil
}

// SetLayout validates and persists the layout of page.
func (s *Store) SetLayout(ctx context.Context, page string, layout GridLayout) (GridLayout, error) {
	page, err := pageID(page)
	if err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	layouts, err := s.layouts(ctx)
	if err != nil {
		return nil, err
	}
	if layout == nil {
		layout = GridLayout{}
	}
	layouts[page] = layout
	if err := s.save(ctx, LayoutsKey, layouts); err != nil {
		return nil, err
	}
	return layout, nil
}

// ResetLayout forgets the layout of page so the caller falls back to its
// default arrangement.
func (s *Store) ResetLayout(ctx context.Context, page string) error {
	page, err := pageID(page)
	if err != nil {
		return err
	}
	layouts, err := s.layouts(ctx)
	if err != nil {
		return err
	}
	if _, ok := layouts[page]; !ok {
		return nil
	}
	delete(layouts, page)
	if len(layouts) == 0 {
		if err := s.backend.DeletePreference(ctx, s.owner, LayoutsKey); err != nil {
			return fmt.Errorf("reset layout: %w", err)
		}
		return nil
	}
	return s.save(ctx, LayoutsKey, layouts)
}

func (s *Store) layouts(ctx context.Context) (map[string]GridLayout, error) {
	layouts := map[string]GridLayout{}
	if _, err := s.load(ctx, LayoutsKey, &layouts); err != nil {
		return nil, err
	}
	if layouts == nil {
		layouts = map[string]GridLayout{}
	}
	return layouts, nil
}

func (s *Store) load(ctx context.Context, key string, out any) (bool, error) {
	pref, found, err := s.backend.GetPreference(ctx, s.owner, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	// A corrupt document reads as absent; the next write replaces it.
	if err := json.Unmarshal(pref.Value, out); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Store) save(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.PutPreference(ctx, storage.Preference{Owner: s.owner, Key: key, Value: payload}); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func pageID(page string) (string, error) {
	page = strings.TrimSpace(page)
	if page == "" {
		return "", apperrors.Validation(apperrors.FieldError{Field: "page", Message: "is required"})
	}
	return page, nil
}
