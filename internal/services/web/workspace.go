package web

import (
	"net/http"
	"strings"

	"github.com/louisbranch/taskspace/internal/services/web/platform/flash"
	"github.com/louisbranch/taskspace/internal/services/web/platform/httpx"
	"github.com/louisbranch/taskspace/internal/services/web/platform/i18n"
	"github.com/louisbranch/taskspace/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/taskspace/internal/services/web/resource/workspace"
	"github.com/louisbranch/taskspace/internal/services/web/routegate"
)

type workspaceSelectionView struct {
	Workspaces []workspace.Workspace `json:"workspaces"`
	Notice     *flash.Notice         `json:"notice,omitempty"`
}

type selectWorkspaceInput struct {
	WorkspaceID string `json:"workspaceId"`
}

// handleWorkspace resumes the profile's active workspace or lists the
// workspaces to choose from.
func (h *handler) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	me, cache, err := h.currentUser(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if active := strings.TrimSpace(me.ActiveWorkspaceID); active != "" {
		sessioncookie.WriteWorkspace(w, h.cookiePolicy(), active)
		httpx.Redirect(w, r, routegate.HomePath(active), http.StatusSeeOther)
		return
	}

	workspaces, err := stateValue(h.workspaces.List(r.Context(), cache))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	view := workspaceSelectionView{Workspaces: workspaces}
	if view.Workspaces == nil {
		view.Workspaces = []workspace.Workspace{}
	}
	if notice, ok := flash.ReadAndClear(w, r, h.secure); ok {
		view.Notice = &notice
	}
	_ = httpx.WriteJSON(w, http.StatusOK, view)
}

// handleSelectWorkspace stores the selection upstream and in the workspace
// cookie, then lands on the workspace home.
func (h *handler) handleSelectWorkspace(w http.ResponseWriter, r *http.Request) {
	loc := localizer(r)
	_, cache, err := h.sessionCache(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	input, err := readSelectWorkspace(r)
	if err != nil {
		flash.Write(w, flash.FromError(loc, err), h.secure)
		httpx.Redirect(w, r, routegate.WorkspacePath, http.StatusSeeOther)
		return
	}
	updated, err := h.users.SetActiveWorkspace(r.Context(), cache, input.WorkspaceID)
	if err != nil {
		flash.Write(w, flash.FromError(loc, err), h.secure)
		httpx.Redirect(w, r, routegate.WorkspacePath, http.StatusSeeOther)
		return
	}

	active := strings.TrimSpace(updated.ActiveWorkspaceID)
	if active == "" {
		active = strings.TrimSpace(input.WorkspaceID)
	}
	sessioncookie.WriteWorkspace(w, h.cookiePolicy(), active)
	flash.Write(w, flash.Success(loc.Text(i18n.KeyWorkspaceSelected, active)), h.secure)
	httpx.Redirect(w, r, routegate.HomePath(active), http.StatusSeeOther)
}

func readSelectWorkspace(r *http.Request) (selectWorkspaceInput, error) {
	var input selectWorkspaceInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := httpx.DecodeJSON(r, &input); err != nil {
			return selectWorkspaceInput{}, err
		}
	} else {
		input.WorkspaceID = r.PostFormValue("workspaceId")
	}
	input.WorkspaceID = strings.TrimSpace(input.WorkspaceID)
	return input, nil
}
