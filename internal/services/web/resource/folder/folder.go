// Package folder reads and writes folders, which group lists inside a space.
package folder

import (
	"context"
	"net/http"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
	"github.com/louisbranch/taskspace/internal/services/web/schema"
)

type Folder struct {
	ID      string `json:"id"`
	SpaceID string `json:"spaceId"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
	Hidden  bool   `json:"hidden"`
}

type Input struct {
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	Hidden bool   `json:"hidden"`
}

// Normalize trims and validates the input.
func (in Input) Normalize() (Input, error) {
	var check schema.Checker
	in.Name = check.Name("name", in.Name, schema.MaxNameLength)
	in.Color = check.Color("color", in.Color, false)
	return in, check.Err()
}

type Service struct {
	api apiclient.Caller
}

func NewService(api apiclient.Caller) *Service {
	return &Service{api: api}
}

// List returns the folders of a space.
func (s *Service) List(ctx context.Context, spaceID string) ([]Folder, error) {
	spaceID, err := schema.RequireID("spaceId", spaceID)
	if err != nil {
		return nil, err
	}
	return resource.Get[[]Folder](ctx, s.api, apiclient.Path("spaces", spaceID, "folders"), nil)
}

func (s *Service) Create(ctx context.Context, spaceID string, in Input) (Folder, error) {
	spaceID, err := schema.RequireID("spaceId", spaceID)
	if err != nil {
		return Folder{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return Folder{}, err
	}
	return resource.Send[Folder](ctx, s.api, http.MethodPost, apiclient.Path("spaces", spaceID, "folders"), in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Folder, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return Folder{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return Folder{}, err
	}
	return resource.Send[Folder](ctx, s.api, http.MethodPatch, apiclient.Path("folders", id), in)
}

// Delete removes a folder; its lists move to the space root upstream.
func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return err
	}
	return resource.Delete(ctx, s.api, apiclient.Path("folders", id))
}
