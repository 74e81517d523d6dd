package space

import (
	"context"

	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
)

// Queries binds Service to the query cache.
type Queries struct {
	service *Service
	list    query.Query[[]Space]
	get     query.Query[Space]
}

// NewQueries builds the cached operations over service.
func NewQueries(service *Service) *Queries {
	return &Queries{
		service: service,
		list: query.Define(resource.OpSpaces, func(ctx context.Context, params []string) ([]Space, error) {
			return service.List(ctx, params[0])
		}),
		get: query.Define(resource.OpSpace, func(ctx context.Context, params []string) (Space, error) {
			return service.Get(ctx, params[0])
		}),
	}
}

func (q *Queries) List(ctx context.Context, cache *query.Cache, workspaceID string) query.State[[]Space] {
	return query.Fetch(ctx, cache, q.list.With(workspaceID))
}

func (q *Queries) Get(ctx context.Context, cache *query.Cache, id string) query.State[Space] {
	return query.Fetch(ctx, cache, q.get.With(id))
}

func (q *Queries) Create(ctx context.Context, cache *query.Cache, workspaceID string, in Input) (Space, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Space, error) {
		return q.service.Create(ctx, workspaceID, in)
	}, query.Invalidates[Space](resource.SpacesKey(workspaceID)))
}

func (q *Queries) Update(ctx context.Context, cache *query.Cache, workspaceID, id string, in Input) (Space, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Space, error) {
		return q.service.Update(ctx, id, in)
	}, query.Invalidates[Space](resource.SpacesKey(workspaceID), resource.SpaceKey(id)))
}

func (q *Queries) Delete(ctx context.Context, cache *query.Cache, workspaceID, id string) error {
	_, err := query.Mutate(ctx, cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, q.service.Delete(ctx, id)
	}, query.Invalidates[struct{}](resource.SpacesKey(workspaceID), resource.SpaceKey(id)))
	return err
}
