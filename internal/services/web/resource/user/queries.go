package user

import (
	"context"

	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
)

// Queries binds Service to the query cache. Profile writes replace the cached
// profile with the server's response instead of refetching it.
type Queries struct {
	service *Service
	me      query.Query[User]
	active  query.Query[ActiveWorkspace]
}

func NewQueries(service *Service) *Queries {
	return &Queries{
		service: service,
		me: query.Define(resource.OpMe, func(ctx context.Context, _ []string) (User, error) {
			return service.Me(ctx)
		}),
		active: query.Define(resource.OpActiveWorkspace, func(ctx context.Context, _ []string) (ActiveWorkspace, error) {
			return service.ActiveWorkspace(ctx)
		}),
	}
}

func (q *Queries) Me(ctx context.Context, cache *query.Cache) query.State[User] {
	return query.Fetch(ctx, cache, q.me)
}

func (q *Queries) ActiveWorkspace(ctx context.Context, cache *query.Cache) query.State[ActiveWorkspace] {
	return query.Fetch(ctx, cache, q.active)
}

func (q *Queries) UpdateProfile(ctx context.Context, cache *query.Cache, in ProfileInput) (User, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (User, error) {
		return q.service.UpdateProfile(ctx, in)
	}, query.Sets(resource.MeKey(), identity))
}

// SetActiveWorkspace replaces the cached profile and selection, then marks
// every workspace-scoped read stale.
func (q *Queries) SetActiveWorkspace(ctx context.Context, cache *query.Cache, workspaceID string) (User, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (User, error) {
		return q.service.SetActiveWorkspace(ctx, workspaceID)
	},
		query.Sets(resource.MeKey(), identity),
		query.Sets(resource.ActiveWorkspaceKey(), func(u User) ActiveWorkspace {
			if u.ActiveWorkspaceID == "" {
				return ActiveWorkspace{WorkspaceID: workspaceID}
			}
			return ActiveWorkspace{WorkspaceID: u.ActiveWorkspaceID}
		}),
		query.Invalidates[User](resource.WorkspaceScoped()...),
	)
}

func (q *Queries) UploadAvatar(ctx context.Context, cache *query.Cache, bearer string, avatar Avatar) (User, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (User, error) {
		return q.service.UploadAvatar(ctx, bearer, avatar)
	}, query.Sets(resource.MeKey(), identity))
}

func identity(u User) User { return u }
