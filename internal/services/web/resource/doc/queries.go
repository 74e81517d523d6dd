package doc

import (
	"context"

	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
)

type Queries struct {
	service *Service
	list    query.Query[[]Doc]
	get     query.Query[Doc]
}

func NewQueries(service *Service) *Queries {
	return &Queries{
		service: service,
		list: query.Define(resource.OpDocs, func(ctx context.Context, params []string) ([]Doc, error) {
			return service.List(ctx, params[0])
		}),
		get: query.Define(resource.OpDoc, func(ctx context.Context, params []string) (Doc, error) {
			return service.Get(ctx, params[0])
		}),
	}
}

func (q *Queries) List(ctx context.Context, cache *query.Cache, workspaceID string) query.State[[]Doc] {
	return query.Fetch(ctx, cache, q.list.With(workspaceID))
}

func (q *Queries) Get(ctx context.Context, cache *query.Cache, id string) query.State[Doc] {
	return query.Fetch(ctx, cache, q.get.With(id))
}

// Create seeds the new document's entry from the response.
func (q *Queries) Create(ctx context.Context, cache *query.Cache, workspaceID string, in Input) (Doc, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Doc, error) {
		return q.service.Create(ctx, workspaceID, in)
	},
		query.Invalidates[Doc](resource.DocsKey(workspaceID)),
		query.Effect[Doc](func(c *query.Cache, created Doc) {
			if created.ID != "" {
				query.SetData(c, resource.DocKey(created.ID), created)
			}
		}),
	)
}

func (q *Queries) Update(ctx context.Context, cache *query.Cache, workspaceID, id string, in Input) (Doc, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Doc, error) {
		return q.service.Update(ctx, id, in)
	}, query.Invalidates[Doc](resource.DocsKey(workspaceID), resource.DocKey(id)))
}

func (q *Queries) Delete(ctx context.Context, cache *query.Cache, workspaceID, id string) error {
	_, err := query.Mutate(ctx, cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, q.service.Delete(ctx, id)
	}, query.Effect[struct{}](func(c *query.Cache, _ struct{}) {
		c.Invalidate(resource.DocsKey(workspaceID))
		c.Remove(resource.DocKey(id))
	}))
	return err
}
