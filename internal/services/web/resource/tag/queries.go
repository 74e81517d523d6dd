package tag

import (
	"context"

	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
)

type Queries struct {
	service *Service
	list    query.Query[[]Tag]
}

func NewQueries(service *Service) *Queries {
	return &Queries{
		service: service,
		list: query.Define(resource.OpTags, func(ctx context.Context, params []string) ([]Tag, error) {
			return service.List(ctx, params[0])
		}),
	}
}

func (q *Queries) List(ctx context.Context, cache *query.Cache, workspaceID string) query.State[[]Tag] {
	return query.Fetch(ctx, cache, q.list.With(workspaceID))
}

func (q *Queries) Create(ctx context.Context, cache *query.Cache, workspaceID string, in Input) (Tag, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Tag, error) {
		return q.service.Create(ctx, workspaceID, in)
	}, query.Invalidates[Tag](resource.TagsKey(workspaceID)))
}

func (q *Queries) Update(ctx context.Context, cache *query.Cache, workspaceID, id string, in Input) (Tag, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Tag, error) {
		return q.service.Update(ctx, id, in)
	}, query.Invalidates[Tag](resource.TagsKey(workspaceID)))
}

func (q *Queries) Delete(ctx context.Context, cache *query.Cache, workspaceID, id string) error {
	_, err := query.Mutate(ctx, cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, q.service.Delete(ctx, id)
	}, query.Invalidates[struct{}](resource.TagsKey(workspaceID)))
	return err
}
