package web

import (
	"log"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
	"github.com/louisbranch/taskspace/internal/services/web/platform/flash"
	"github.com/louisbranch/taskspace/internal/services/web/platform/httpx"
	"github.com/louisbranch/taskspace/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/taskspace/internal/services/web/resource/dashboard"
	"github.com/louisbranch/taskspace/internal/services/web/resource/space"
	"github.com/louisbranch/taskspace/internal/services/web/resource/workspace"
	"golang.org/x/sync/errgroup"
)

// homeView is the workspace landing view model. Sections that fail to load
// render empty and report their error under Errors.
type homeView struct {
	Workspace           workspace.Workspace   `json:"workspace"`
	Spaces              []space.Space         `json:"spaces"`
	Dashboards          []dashboard.Dashboard `json:"dashboards"`
	UnreadNotifications int                   `json:"unreadNotifications"`
	Errors              map[string]string     `json:"errors,omitempty"`
	Notice              *flash.Notice         `json:"notice,omitempty"`
}

func (h *handler) handleHome(w http.ResponseWriter, r *http.Request) {
	workspaceID := strings.TrimSpace(r.PathValue("workspace"))
	_, cache, err := h.sessionCache(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	ctx := r.Context()

	var (
		view       = homeView{Spaces: []space.Space{}, Dashboards: []dashboard.Dashboard{}}
		spaceErr   error
		boardErr   error
		unreadErr  error
		spaces     []space.Space
		dashboards []dashboard.Dashboard
		unread     int
	)
	var g errgroup.Group
	g.Go(func() error {
		current, err := stateValue(h.workspaces.Get(ctx, cache, workspaceID))
		view.Workspace = current
		return err
	})
	g.Go(func() error {
		spaces, spaceErr = stateValue(h.spaces.List(ctx, cache, workspaceID))
		return nil
	})
	g.Go(func() error {
		dashboards, boardErr = stateValue(h.dashboards.List(ctx, cache, workspaceID))
		return nil
	})
	g.Go(func() error {
		count, err := stateValue(h.notifications.UnreadCount(ctx, cache, workspaceID))
		unread, unreadErr = count.Count, err
		return nil
	})
	if err := g.Wait(); err != nil {
		if apperrors.StatusOf(err) == http.StatusNotFound || apperrors.StatusOf(err) == http.StatusForbidden {
			// The cookie points at a workspace this user can no longer open.
			sessioncookie.ClearWorkspace(w, h.cookiePolicy())
		}
		httpx.WriteError(w, err)
		return
	}

	if spaces != nil {
		view.Spaces = spaces
	}
	if dashboards != nil {
		view.Dashboards = dashboards
	}
	view.UnreadNotifications = unread
	for section, err := range map[string]error{"spaces": spaceErr, "dashboards": boardErr, "unreadNotifications": unreadErr} {
		if err == nil {
			continue
		}
		if view.Errors == nil {
			view.Errors = map[string]string{}
		}
		message, ok := apperrors.UserMessage(err)
		if !ok {
			message = http.StatusText(apperrors.HTTPStatus(err))
		}
		view.Errors[section] = message
		log.Printf("home section failed workspace=%s section=%s err=%v", workspaceID, section, err)
	}
	if notice, ok := flash.ReadAndClear(w, r, h.secure); ok {
		view.Notice = &notice
	}
	_ = httpx.WriteJSON(w, http.StatusOK, view)
}
