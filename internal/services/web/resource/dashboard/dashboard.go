// Package dashboard reads and writes workspace dashboards and their widget
// layouts.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
	"github.com/louisbranch/taskspace/internal/services/web/schema"
)

// Widget is one cell of a dashboard grid.
type Widget struct {
	ID     string         `json:"id"`
	Kind   string         `json:"kind"`
	X      int            `json:"x"`
	Y      int            `json:"y"`
	W      int            `json:"w"`
	H      int            `json:"h"`
	Config map[string]any `json:"config,omitempty"`
}

type Dashboard struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	Widgets     []Widget  `json:"widgets"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Input struct {
	Name    string   `json:"name"`
	Widgets []Widget `json:"widgets"`
}

// Normalize validates the name and every widget cell. Widget ids must be
// unique within a dashboard.
func (in Input) Normalize() (Input, error) {
	var check schema.Checker
	in.Name = check.Name("name", in.Name, schema.MaxNameLength)
	seen := make(map[string]bool, len(in.Widgets))
	widgets := make([]Widget, 0, len(in.Widgets))
	for i, widget := range in.Widgets {
		prefix := fmt.Sprintf("widgets[%d]", i)
		widget.ID = check.ID(prefix+".id", widget.ID)
		if widget.ID != "" && seen[widget.ID] {
			check.Fail(prefix+".id", "duplicates another widget")
		}
		seen[widget.ID] = true
		widget.Kind = strings.TrimSpace(widget.Kind)
		if widget.Kind == "" {
			check.Fail(prefix+".kind", "is required")
		}
		check.NonNegative(prefix+".x", widget.X)
		check.NonNegative(prefix+".y", widget.Y)
		check.Positive(prefix+".w", widget.W)
		check.Positive(prefix+".h", widget.H)
		widgets = append(widgets, widget)
	}
	in.Widgets = widgets
	return in, check.Err()
}

type Service struct {
	api apiclient.Caller
}

func NewService(api apiclient.Caller) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context, workspaceID string) ([]Dashboard, error) {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return nil, err
	}
	return resource.Get[[]Dashboard](ctx, s.api, apiclient.Path("workspaces", workspaceID, "dashboards"), nil)
}

func (s *Service) Get(ctx context.Context, id string) (Dashboard, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return Dashboard{}, err
	}
	return resource.Get[Dashboard](ctx, s.api, apiclient.Path("dashboards", id), nil)
}

func (s *Service) Create(ctx context.Context, workspaceID string, in Input) (Dashboard, error) {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return Dashboard{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return Dashboard{}, err
	}
	return resource.Send[Dashboard](ctx, s.api, http.MethodPost, apiclient.Path("workspaces", workspaceID, "dashboards"), in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Dashboard, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return Dashboard{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return Dashboard{}, err
	}
	return resource.Send[Dashboard](ctx, s.api, http.MethodPatch, apiclient.Path("dashboards", id), in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return err
	}
	return resource.Delete(ctx, s.api, apiclient.Path("dashboards", id))
}
