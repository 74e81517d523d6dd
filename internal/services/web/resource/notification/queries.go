package notification

import (
	"context"

	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/resource"
)

type Queries struct {
	service *Service
	list    query.Query[[]Notification]
	unread  query.Query[UnreadCount]
}

func NewQueries(service *Service) *Queries {
	return &Queries{
		service: service,
		list: query.Define(resource.OpNotifications, func(ctx context.Context, params []string) ([]Notification, error) {
			return service.List(ctx, params[0], ListOptions{})
		}),
		unread: query.Define(resource.OpNotificationsUnread, func(ctx context.Context, params []string) (UnreadCount, error) {
			return service.UnreadCount(ctx, params[0])
		}),
	}
}

func (q *Queries) List(ctx context.Context, cache *query.Cache, workspaceID string) query.State[[]Notification] {
	return query.Fetch(ctx, cache, q.list.With(workspaceID))
}

func (q *Queries) UnreadCount(ctx context.Context, cache *query.Cache, workspaceID string) query.State[UnreadCount] {
	return query.Fetch(ctx, cache, q.unread.With(workspaceID))
}

func (q *Queries) MarkRead(ctx context.Context, cache *query.Cache, workspaceID, id string) (Notification, error) {
	return query.Mutate(ctx, cache, func(ctx context.Context) (Notification, error) {
		return q.service.MarkRead(ctx, id)
	}, query.Invalidates[Notification](inbox(workspaceID)...))
}

// MarkAllRead zeroes the cached badge right away and refetches the inbox.
func (q *Queries) MarkAllRead(ctx context.Context, cache *query.Cache, workspaceID string) error {
	_, err := query.Mutate(ctx, cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, q.service.MarkAllRead(ctx, workspaceID)
	},
		query.Invalidates[struct{}](resource.NotificationsKey(workspaceID)),
		query.Sets(resource.NotificationsUnreadKey(workspaceID), func(struct{}) UnreadCount { return UnreadCount{} }),
	)
	return err
}

func inbox(workspaceID string) []query.Key {
	return []query.Key{resource.NotificationsKey(workspaceID), resource.NotificationsUnreadKey(workspaceID)}
}
