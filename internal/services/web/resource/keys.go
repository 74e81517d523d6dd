package resource

import "github.com/louisbranch/taskspace/internal/services/web/query"

// Read operation names; each is the first segment of its cache keys.
const (
	OpMe                  = "me"
	OpActiveWorkspace     = "active-workspace"
	OpWorkspaces          = "workspaces"
	OpWorkspace           = "workspace"
	OpWorkspaceMembers    = "workspace-members"
	OpSpaces              = "spaces"
	OpSpace               = "space"
	OpFolders             = "folders"
	OpLists               = "lists"
	OpListsByFolder       = "lists-by-folder"
	OpList                = "list"
	OpTags                = "tags"
	OpDocs                = "docs"
	OpDoc                 = "doc"
	OpNotifications       = "notifications"
	OpNotificationsUnread = "notifications-unread"
	OpDashboards          = "dashboards"
	OpDashboard           = "dashboard"
)

// Key builders, one per read operation.

func MeKey() query.Key {
	return query.NewKey(OpMe)
}

func ActiveWorkspaceKey() query.Key {
	return query.NewKey(OpActiveWorkspace)
}

func WorkspacesKey() query.Key {
	return query.NewKey(OpWorkspaces)
}

func WorkspaceKey(id string) query.Key {
	return query.NewKey(OpWorkspace, id)
}

func WorkspaceMembersKey(workspaceID string) query.Key {
	return query.NewKey(OpWorkspaceMembers, workspaceID)
}

func SpacesKey(workspaceID string) query.Key {
	return query.NewKey(OpSpaces, workspaceID)
}

func SpaceKey(id string) query.Key {
	return query.NewKey(OpSpace, id)
}

func FoldersKey(spaceID string) query.Key {
	return query.NewKey(OpFolders, spaceID)
}

func ListsKey(spaceID string) query.Key {
	return query.NewKey(OpLists, spaceID)
}

func ListsByFolderKey(folderID string) query.Key {
	return query.NewKey(OpListsByFolder, folderID)
}

func ListKey(id string) query.Key {
	return query.NewKey(OpList, id)
}

func TagsKey(workspaceID string) query.Key {
	return query.NewKey(OpTags, workspaceID)
}

func DocsKey(workspaceID string) query.Key {
	return query.NewKey(OpDocs, workspaceID)
}

func DocKey(id string) query.Key {
	return query.NewKey(OpDoc, id)
}

func NotificationsKey(workspaceID string) query.Key {
	return query.NewKey(OpNotifications, workspaceID)
}

func NotificationsUnreadKey(workspaceID string) query.Key {
	return query.NewKey(OpNotificationsUnread, workspaceID)
}

func DashboardsKey(workspaceID string) query.Key {
	return query.NewKey(OpDashboards, workspaceID)
}

func DashboardKey(id string) query.Key {
	return query.NewKey(OpDashboard, id)
}

// WorkspaceScoped returns every key family whose data depends on which
// workspace is active.
func WorkspaceScoped() []query.Key {
	ops := []string{
		OpWorkspaceMembers,
		OpSpaces, OpSpace,
		OpFolders,
		OpLists, OpListsByFolder, OpList,
		OpTags,
		OpDocs, OpDoc,
		OpNotifications, OpNotificationsUnread,
		OpDashboards, OpDashboard,
	}
	keys := make([]query.Key, 0, len(ops))
	for _, op := range ops {
		keys = append(keys, query.NewKey(op))
	}
	return keys
}
