// Package workspace reads and writes workspaces, the top-level tenant scope.
package workspace

import (
	"context"
	"net/http"
	"time"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
	"github.com/louisbranch/taskspace/internal/services/web/schema"
)

// Workspace is a tenant containing spaces, lists, and docs.
type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Member is a user with access to a workspace.
type Member struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// CreateInput is the payload of a new workspace.
type CreateInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// Normalize trims and validates the input.
func (in CreateInput) Normalize() (CreateInput, error) {
	var check schema.Checker
	in.Name = check.Name("name", in.Name, schema.MaxNameLength)
	in.Slug = check.Slug("slug", in.Slug)
	in.Color = check.Color("color", in.Color, false)
	in.Description = check.MaxLength("description", in.Description, schema.MaxDescriptionLength)
	return in, check.Err()
}

// UpdateInput patches a workspace; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Normalize trims and validates the provided fields.
func (in UpdateInput) Normalize() (UpdateInput, error) {
	var check schema.Checker
	in.Name = check.OptionalName("name", in.Name, schema.MaxNameLength)
	if in.Color != nil {
		color := check.Color("color", *in.Color, false)
		in.Color = &color
	}
	if in.Description != nil {
		description := check.MaxLength("description", *in.Description, schema.MaxDescriptionLength)
		in.Description = &description
	}
	return in, check.Err()
}

// Service calls the workspace endpoints.
type Service struct {
	api apiclient.Caller
}

// NewService builds a Service over api.
func NewService(api apiclient.Caller) *Service {
	return &Service{api: api}
}

// List returns the workspaces the caller belongs to.
func (s *Service) List(ctx context.Context) ([]Workspace, error) {
	return resource.Get[[]Workspace](ctx, s.api, apiclient.Path("workspaces"), nil)
}

// Get returns one workspace.
func (s *Service) Get(ctx context.Context, id string) (Workspace, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return Workspace{}, err
	}
	return resource.Get[Workspace](ctx, s.api, apiclient.Path("workspaces", id), nil)
}

// Members returns the members of a workspace.
func (s *Service) Members(ctx context.Context, id string) ([]Member, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return nil, err
	}
	return resource.Get[[]Member](ctx, s.api, apiclient.Path("workspaces", id, "members"), nil)
}

// Create validates in and creates a workspace.
func (s *Service) Create(ctx context.Context, in CreateInput) (Workspace, error) {
	in, err := in.Normalize()
	if err != nil {
		return Workspace{}, err
	}
	return resource.Send[Workspace](ctx, s.api, http.MethodPost, apiclient.Path("workspaces"), in)
}

// Update validates in and patches a workspace.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Workspace, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return Workspace{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return Workspace{}, err
	}
	return resource.Send[Workspace](ctx, s.api, http.MethodPatch, apiclient.Path("workspaces", id), in)
}

// Delete removes a workspace.
func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return err
	}
	return resource.Delete(ctx, s.api, apiclient.Path("workspaces", id))
}
