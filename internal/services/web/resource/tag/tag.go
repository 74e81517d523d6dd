// Package tag reads and writes workspace tags.
package tag

import (
	"context"
	"net/http"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
	"github.com/louisbranch/taskspace/internal/services/web/schema"
)

// DefaultColor is used when a tag is created without one.
const DefaultColor = "#6b7280"

// Tag labels tasks within a workspace.
type Tag struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspaceId"`
	Name        string `json:"name"`
	Color       string `json:"color"`
}

// Input is the payload of a create or update.
type Input struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Normalize trims and validates the input. Names are at most 32 characters.
func (in Input) Normalize() (Input, error) {
	var check schema.Checker
	in.Name = check.Name("name", in.Name, schema.MaxTagNameLength)
	in.Color = check.Color("color", in.Color, false)
	if in.Color == "" {
		in.Color = DefaultColor
	}
	return in, check.Err()
}

type Service struct {
	api apiclient.Caller
}

func NewService(api apiclient.Caller) *Service {
	return &Service{api: api}
}

// List returns the tags of a workspace.
func (s *Service) List(ctx context.Context, workspaceID string) ([]Tag, error) {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return nil, err
	}
	return resource.Get[[]Tag](ctx, s.api, apiclient.Path("workspaces", workspaceID, "tags"), nil)
}

func (s *Service) Create(ctx context.Context, workspaceID string, in Input) (Tag, error) {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return Tag{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return Tag{}, err
	}
	return resource.Send[Tag](ctx, s.api, http.MethodPost, apiclient.Path("workspaces", workspaceID, "tags"), in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Tag, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return Tag{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return Tag{}, err
	}
	return resource.Send[Tag](ctx, s.api, http.MethodPatch, apiclient.Path("tags", id), in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return err
	}
	return resource.Delete(ctx, s.api, apiclient.Path("tags", id))
}
