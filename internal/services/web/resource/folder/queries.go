package folder

import (
	"context"

	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
)

// Queries binds Service to the query cache. Folder writes also invalidate the
// space's lists, since deleting or moving a folder relocates lists.
type Queries struct {
	service *Service
	list    query.Query[[]Folder]
}

func NewQueries(service *Service) *Queries {
	return &Queries{
		service: service,
		list: query.Define(resource.OpFolders, func(ctx context.Context, params []string) ([]Folder, error) {
			return service.List(ctx, params[0])
		}),
	}
}

func (q *Queries) List(ctx context.Context, cache *query.Cache, spaceID string) query.State[[]Folder] {
	return query.Fetch(ctx, cache, q.list.With(spaceID))
}

func (q *Queries) Create(ctx context.Context, cache *query.Cache, spaceID string, in Input) (Folder, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Folder, error) {
		return q.service.Create(ctx, spaceID, in)
	}, query.Invalidates[Folder](invalidated(spaceID, "")...))
}

func (q *Queries) Update(ctx context.Context, cache *query.Cache, spaceID, id string, in Input) (Folder, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Folder, error) {
		return q.service.Update(ctx, id, in)
	}, query.Invalidates[Folder](invalidated(spaceID, id)...))
}

func (q *Queries) Delete(ctx context.Context, cache *query.Cache, spaceID, id string) error {
	_, err := query.Mutate(ctx, cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, q.service.Delete(ctx, id)
	}, query.Invalidates[struct{}](invalidated(spaceID, id)...))
	return err
}

func invalidated(spaceID, folderID string) []query.Key {
	keys := []query.Key{resource.FoldersKey(spaceID), resource.ListsKey(spaceID)}
	if folderID != "" {
		keys = append(keys, resource.ListsByFolderKey(folderID))
	}
	return keys
}
