package workspace

import (
	"context"

	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
)

// Queries binds Service reads to the query cache and declares what each write
// invalidates.
type Queries struct {
	service *Service
	list    query.Query[[]Workspace]
	get     query.Query[Workspace]
	members query.Query[[]Member]
}

// NewQueries builds the cached operations over service.
func NewQueries(service *Service) *Queries {
	return &Queries{
		service: service,
		list: query.Define(resource.OpWorkspaces, func(ctx context.Context, _ []string) ([]Workspace, error) {
			return service.List(ctx)
		}),
		get: query.Define(resource.OpWorkspace, func(ctx context.Context, params []string) (Workspace, error) {
			return service.Get(ctx, params[0])
		}),
		members: query.Define(resource.OpWorkspaceMembers, func(ctx context.Context, params []string) ([]Member, error) {
			return service.Members(ctx, params[0])
		}),
	}
}

func (q *Queries) List(ctx context.Context, cache *query.Cache) query.State[[]Workspace] {
	return query.Fetch(ctx, cache, q.list)
}

func (q *Queries) Get(ctx context.Context, cache *query.Cache, id string) query.State[Workspace] {
	return query.Fetch(ctx, cache, q.get.With(id))
}

func (q *Queries) Members(ctx context.Context, cache *query.Cache, id string) query.State[[]Member] {
	return query.Fetch(ctx, cache, q.members.With(id))
}

// Create invalidates the workspace list.
func (q *Queries) Create(ctx context.Context, cache *query.Cache, in CreateInput) (Workspace, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Workspace, error) {
		return q.service.Create(ctx, in)
	}, query.Invalidates[Workspace](resource.WorkspacesKey()))
}

// Update invalidates the list and the workspace itself, and the caller's
// profile when activeID names the updated workspace.
func (q *Queries) Update(ctx context.Context, cache *query.Cache, id string, in UpdateInput, activeID string) (Workspace, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Workspace, error) {
		return q.service.Update(ctx, id, in)
	}, query.InvalidatesFor(func(Workspace) []query.Key {
		keys := []query.Key{resource.WorkspacesKey(), resource.WorkspaceKey(id)}
		if activeID != "" && activeID == id {
			keys = append(keys, resource.MeKey(), resource.ActiveWorkspaceKey())
		}
		return keys
	}))
}

// Delete invalidates the list and the workspace itself.
func (q *Queries) Delete(ctx context.Context, cache *query.Cache, id string) error {
	_, err := query.Mutate(ctx, cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, q.service.Delete(ctx, id)
	}, query.Invalidates[struct{}](resource.WorkspacesKey(), resource.WorkspaceKey(id)))
	return err
}
