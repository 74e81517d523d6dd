package dashboard

import (
	"context"

	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
)

type Queries struct {
	service *Service
	list    query.Query[[]Dashboard]
	get     query.Query[Dashboard]
}

func NewQueries(service *Service) *Queries {
	return &Queries{
		service: service,
		list: query.Define(resource.OpDashboards, func(ctx context.Context, params []string) ([]Dashboard, error) {
			return service.List(ctx, params[0])
		}),
		get: query.Define(resource.OpDashboard, func(ctx context.Context, params []string) (Dashboard, error) {
			return service.Get(ctx, params[0])
		}),
	}
}

func (q *Queries) List(ctx context.Context, cache *query.Cache, workspaceID string) query.State[[]Dashboard] {
	return query.Fetch(ctx, cache, q.list.With(workspaceID))
}

func (q *Queries) Get(ctx context.Context, cache *query.Cache, id string) query.State[Dashboard] {
	return query.Fetch(ctx, cache, q.get.With(id))
}

func (q *Queries) Create(ctx context.Context, cache *query.Cache, workspaceID string, in Input) (Dashboard, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Dashboard, error) {
		return q.service.Create(ctx, workspaceID, in)
	}, query.Invalidates[Dashboard](resource.DashboardsKey(workspaceID)))
}

// Update replaces the cached dashboard with the response so a layout edit is
// visible without a refetch.
func (q *Queries) Update(ctx context.Context, cache *query.Cache, workspaceID, id string, in Input) (Dashboard, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Dashboard, error) {
		return q.service.Update(ctx, id, in)
	},
		query.Invalidates[Dashboard](resource.DashboardsKey(workspaceID)),
		query.Sets(resource.DashboardKey(id), func(d Dashboard) Dashboard { return d }),
	)
}

func (q *Queries) Delete(ctx context.Context, cache *query.Cache, workspaceID, id string) error {
	_, err := query.Mutate(ctx, cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, q.service.Delete(ctx, id)
	}, query.Invalidates[struct{}](resource.DashboardsKey(workspaceID), resource.DashboardKey(id)))
	return err
}
