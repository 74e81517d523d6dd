// Package doc reads and writes workspace documents.
package doc

import (
	"context"
	"net/http"
	"time"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
	"github.com/louisbranch/taskspace/internal/services/web/schema"
)

// MaxContentBytes bounds a document body.
const MaxContentBytes = 1 << 20

type Doc struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Title       string    `json:"title"`
	Content     string    `json:"content,omitempty"`
	AuthorID    string    `json:"authorId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Input struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (in Input) Normalize() (Input, error) {
	var check schema.Checker
	in.Title = check.Name("title", in.Title, schema.MaxTitleLength)
	if len(in.Content) > MaxContentBytes {
		check.Fail("content", "must be at most %d bytes", MaxContentBytes)
	}
	return in, check.Err()
}

type Service struct {
	api apiclient.Caller
}

func NewService(api apiclient.Caller) *Service {
	return &Service{api: api}
}

// List returns the documents of a workspace, without their content.
func (s *Service) List(ctx context.Context, workspaceID string) ([]Doc, error) {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return nil, err
	}
	return resource.Get[[]Doc](ctx, s.api, apiclient.Path("workspaces", workspaceID, "docs"), nil)
}

func (s *Service) Get(ctx context.Context, id string) (Doc, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return Doc{}, err
	}
	return resource.Get[Doc](ctx, s.api, apiclient.Path("docs", id), nil)
}

func (s *Service) Create(ctx context.Context, workspaceID string, in Input) (Doc, error) {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return Doc{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return Doc{}, err
	}
	return resource.Send[Doc](ctx, s.api, http.MethodPost, apiclient.Path("workspaces", workspaceID, "docs"), in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Doc, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return Doc{}, err
	}
	if in, err = in.Normalize(); err != nil {
		return Doc{}, err
	}
	return resource.Send[Doc](ctx, s.api, http.MethodPatch, apiclient.Path("docs", id), in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return err
	}
	return resource.Delete(ctx, s.api, apiclient.Path("docs", id))
}
