package web

import (
	"net/http"

	"github.com/louisbranch/taskspace/internal/services/web/platform/flash"
	"github.com/louisbranch/taskspace/internal/services/web/platform/httpx"
	"github.com/louisbranch/taskspace/internal/services/web/platform/i18n"
	"github.com/louisbranch/taskspace/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/taskspace/internal/services/web/routegate"
)

// handleLogout forgets the session locally. The upstream API owns the token
// itself; the gateway only expires its cookies and drops its cached reads and
// modal selection.
func (h *handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if session, ok := sessioncookie.ReadSession(r); ok {
		h.sessions.Drop(session)
		h.modals.Clear(session)
	}
	policy := h.cookiePolicy()
	sessioncookie.ClearWorkspace(w, policy)
	sessioncookie.ClearSession(w, policy)
	flash.Write(w, flash.Success(localizer(r).Text(i18n.KeySessionEnded)), h.secure)
	httpx.Redirect(w, r, routegate.LoginPath, http.StatusSeeOther)
}
