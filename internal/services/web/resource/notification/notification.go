// Package notification reads a workspace inbox and marks entries read.
package notification

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
	"github.com/louisbranch/taskspace/internal/services/web/schema"
)

type Notification struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Kind        string    `json:"kind"`
	Message     string    `json:"message"`
	Link        string    `json:"link,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UnreadCount is the unread badge value.
type UnreadCount struct {
	Count int `json:"count"`
}

// ListOptions filters the inbox.
type ListOptions struct {
	UnreadOnly bool
}

func (o ListOptions) values() url.Values {
	if !o.UnreadOnly {
		return nil
	}
	return url.Values{"unread": {"true"}}
}

type Service struct {
	api apiclient.Caller
}

func NewService(api apiclient.Caller) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context, workspaceID string, opts ListOptions) ([]Notification, error) {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return nil, err
	}
	return resource.Get[[]Notification](ctx, s.api, apiclient.Path("workspaces", workspaceID, "notifications"), opts.values())
}

func (s *Service) UnreadCount(ctx context.Context, workspaceID string) (UnreadCount, error) {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return UnreadCount{}, err
	}
	return resource.Get[UnreadCount](ctx, s.api, apiclient.Path("workspaces", workspaceID, "notifications", "unread-count"), nil)
}

func (s *Service) MarkRead(ctx context.Context, id string) (Notification, error) {
	id, err := schema.RequireID("id", id)
	if err != nil {
		return Notification{}, err
	}
	return resource.Send[Notification](ctx, s.api, http.MethodPatch, apiclient.Path("notifications", id, "read"), nil)
}

func (s *Service) MarkAllRead(ctx context.Context, workspaceID string) error {
	workspaceID, err := schema.RequireID("workspaceId", workspaceID)
	if err != nil {
		return err
	}
	return s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   apiclient.Path("workspaces", workspaceID, "notifications", "read-all"),
	}, nil)
}
