package list

import (
	"context"
	"strings"

	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
)

// Queries binds Service to the query cache. A list write invalidates every
// folder listing, since a move changes two folders at once.
type Queries struct {
	service  *Service
	bySpace  query.Query[[]List]
	byFolder query.Query[[]List]
	get      query.Query[List]
}

func NewQueries(service *Service) *Queries {
	return &Queries{
		service: service,
		bySpace: query.Define(resource.OpLists, func(ctx context.Context, params []string) ([]List, error) {
			return service.ListBySpace(ctx, params[0])
		}),
		byFolder: query.Define(resource.OpListsByFolder, func(ctx context.Context, params []string) ([]List, error) {
			return service.ListByFolder(ctx, params[0])
		}),
		get: query.Define(resource.OpList, func(ctx context.Context, params []string) (List, error) {
			return service.Get(ctx, params[0])
		}),
	}
}

func (q *Queries) ListBySpace(ctx context.Context, cache *query.Cache, spaceID string) query.State[[]List] {
	return query.Fetch(ctx, cache, q.bySpace.With(spaceID))
}

func (q *Queries) ListByFolder(ctx context.Context, cache *query.Cache, folderID string) query.State[[]List] {
	return query.Fetch(ctx, cache, q.byFolder.With(folderID))
}

func (q *Queries) Get(ctx context.Context, cache *query.Cache, id string) query.State[List] {
	return query.Fetch(ctx, cache, q.get.With(id))
}

func (q *Queries) Create(ctx context.Context, cache *query.Cache, in CreateInput) (List, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (List, error) {
		return q.service.Create(ctx, in)
	}, query.Invalidates[List](invalidated(strings.TrimSpace(in.SpaceID), "")...))
}

func (q *Queries) Update(ctx context.Context, cache *query.Cache, spaceID, id string, in UpdateInput) (List, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (List, error) {
		return q.service.Update(ctx, id, in)
	}, query.Invalidates[List](invalidated(spaceID, id)...))
}

func (q *Queries) Delete(ctx context.Context, cache *query.Cache, spaceID, id string) error {
	_, err := query.Mutate(ctx, cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, q.service.Delete(ctx, id)
	}, query.Invalidates[struct{}](invalidated(spaceID, id)...))
	return err
}

func invalidated(spaceID, id string) []query.Key {
	keys := []query.Key{
		resource.ListsKey(spaceID),
		query.NewKey(resource.OpListsByFolder),
	}
	if id != "" {
		keys = append(keys, resource.ListKey(id))
	}
	return keys
}
