// Package list reads and writes task lists, which live in a space either at
// its root or inside a folder.
package list

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
	"github.com/louisbranch/taskspace/internal/services/web/schema"
)

// List is a container of tasks.
type List struct {
	ID          string    `json:"id"`
	SpaceID     string    `json:"spaceId"`
	FolderID    string    `json:"folderId,omitempty"`
	Name        string    `json:"name"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	TaskCount   int       `json:"taskCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput places a new list in a space, optionally inside a folder.
type CreateInput struct {
	SpaceID     string `json:"spaceId"`
	FolderID    string `json:"folderId,omitempty"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

func (in CreateInput) Normalize() (CreateInput, error) {
	var check schema.Checker
	in.SpaceID = check.ID("spaceId", in.SpaceID)
	in.FolderID = strings.TrimSpace(in.FolderID)
	in.Name = check.Name("name", in.Name, schema.MaxNameLength)
	in.Color = check.Color("color", in.Color, false)
	in.Description = check.MaxLength("description", in.Description, schema.MaxDescriptionLength)
	return in, check.Err()
}

// UpdateInput patches a list. A non-nil FolderID moves it; an empty FolderID
// moves it to the space root.
type UpdateInput struct {
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
	FolderID    *string `json:"folderId,omitempty"`
}

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
	if in.FolderID != nil {
		folderID := strings.TrimSpace(*in.FolderID)
		in.FolderID = &folderID
	}
	return in, check.Err()
}

type Service struct {
	api apiclient.Caller
}

func NewService(api apiclient.Caller) *Service {
	return &Service{api: api}
}

// ListBySpace returns every list of a space, foldered or not.
func (s *Service) ListBySpace(ctx context.Context, spaceID string) ([]List, error) {
	spaceID, err := schema.RequireID("spaceId", spaceID)
	if err != nil {
		return nil, err
	}
	return resource.Get[[]List](ctx, s.api, apiclient.Path("spaces", spaceID, "lists"), nil)
}

// ListByFolder returns the lists inside one folder.
func (s *Service) ListByFolder(ctx context.Context, folderID string) ([]List, error) {
	folderID, err := schema.RequireID("folderId", folderID)
	if err != nil {
		return nil, err
	}
	return resource.Get[[]List](ctx, s.api, apiclient.Path("folders", folderID, "lists"), nil)
}

func (s *Service) Get(ctx context.Context, id string) (List, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return List{}, err
	}
	return resource.Get[List](ctx, s.api, apiclient.Path("lists", id), nil)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (List, error) {
	in, err := in.Normalize()
	if err != nil {
		return List{}, err
	}
	return resource.Send[List](ctx, s.api, http.MethodPost, apiclient.Path("lists"), in)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (List, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return List{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return List{}, err
	}
	return resource.Send[List](ctx, s.api, http.MethodPatch, apiclient.Path("lists", id), in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return err
	}
	return resource.Delete(ctx, s.api, apiclient.Path("lists", id))
}
