// Package space reads and writes spaces, the second level of a workspace.
package space

import (
	"context"
	"net/http"
	"time"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
	"github.com/louisbranch/taskspace/internal/services/web/schema"
)

// Space groups folders and lists inside a workspace.
type Space struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	Private     bool      `json:"private"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Input is the payload of a create or full update.
type Input struct {
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
}

// Normalize trims and validates the input.
func (in Input) Normalize() (Input, error) {
	var check schema.Checker
	in.Name = check.Name("name", in.Name, schema.MaxNameLength)
	in.Color = check.Color("color", in.Color, false)
	in.Description = check.MaxLength("description", in.Description, schema.MaxDescriptionLength)
	return in, check.Err()
}

// Service calls the space endpoints.
type Service struct {
	api apiclient.Caller
}

// NewService builds a Service over api.
func NewService(api apiclient.Caller) *Service {
	return &Service{api: api}
}

// List returns the spaces of a workspace.
func (s *Service) List(ctx context.Context, workspaceID string) ([]Space, error) {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return nil, err
	}
	return resource.Get[[]Space](ctx, s.api, apiclient.Path("workspaces", workspaceID, "spaces"), nil)
}

// Get returns one space.
func (s *Service) Get(ctx context.Context, id string) (Space, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return Space{}, err
	}
	return resource.Get[Space](ctx, s.api, apiclient.Path("spaces", id), nil)
}

// Create validates in and creates a space in a workspace.
func (s *Service) Create(ctx context.Context, workspaceID string, in Input) (Space, error) {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return Space{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return Space{}, err
	}
	return resource.Send[Space](ctx, s.api, http.MethodPost, apiclient.Path("workspaces", workspaceID, "spaces"), in)
}

// Update validates in and replaces a space's editable fields.
func (s *Service) Update(ctx context.Context, id string, in Input) (Space, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return Space{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return Space{}, err
	}
	return resource.Send[Space](ctx, s.api, http.MethodPatch, apiclient.Path("spaces", id), in)
}

// Delete removes a space.
func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return err
	}
	return resource.Delete(ctx, s.api, apiclient.Path("spaces", id))
}
