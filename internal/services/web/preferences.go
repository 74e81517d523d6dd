package web

import (
	"net/http"

	"github.com/louisbranch/taskspace/internal/services/web/platform/httpx"
	"github.com/louisbranch/taskspace/internal/services/web/preferences"
)

type layoutView struct {
	Page   string                 `json:"page"`
	Layout preferences.GridLayout `json:"layout"`
}

// preferenceStore binds the preference store to the signed-in user's id.
func (h *handler) preferenceStore(r *http.Request) (*preferences.Store, error) {
	me, _, err := h.currentUser(r)
	if err != nil {
		return nil, err
	}
	return preferences.New(h.preferences, me.ID)
}

func (h *handler) handleTheme(w http.ResponseWriter, r *http.Request) {
	store, err := h.preferenceStore(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	theme, err := store.Theme(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, theme)
}

func (h *handler) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	store, err := h.preferenceStore(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	var input preferences.ThemePreference
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, err)
		return
	}
	theme, err := store.SetTheme(r.Context(), input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, theme)
}

func (h *handler) handleLayout(w http.ResponseWriter, r *http.Request) {
	store, err := h.preferenceStore(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	page := r.PathValue("page")
	layout, err := store.Layout(r.Context(), page)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if layout == nil {
		layout = preferences.GridLayout{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, layoutView{Page: page, Layout: layout})
}

func (h *handler) handleSetLayout(w http.ResponseWriter, r *http.Request) {
	store, err := h.preferenceStore(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	var input layoutView
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, err)
		return
	}
	page := r.PathValue("page")
	layout, err := store.SetLayout(r.Context(), page, input.Layout)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, layoutView{Page: page, Layout: layout})
}

func (h *handler) handleResetLayout(w http.ResponseWriter, r *http.Request) {
	store, err := h.preferenceStore(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := store.ResetLayout(r.Context(), r.PathValue("page")); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// modalView reports the open modal of the caller's session.
type modalView struct {
	Modal string `json:"modal"`
	Open  bool   `json:"open"`
}

func (h *handler) handleModal(w http.ResponseWriter, r *http.Request) {
	session, _, err := h.sessionCache(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	modal, open := h.modals.Selected(session)
	_ = httpx.WriteJSON(w, http.StatusOK, modalView{Modal: modal.ID, Open: open})
}

func (h *handler) handleSelectModal(w http.ResponseWriter, r *http.Request) {
	session, _, err := h.sessionCache(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	var input preferences.Modal
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, err)
		return
	}
	modal, err := h.modals.Select(session, input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, modalView{Modal: modal.ID, Open: true})
}

func (h *handler) handleCloseModal(w http.ResponseWriter, r *http.Request) {
	session, _, err := h.sessionCache(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	h.modals.Clear(session)
	w.WriteHeader(http.StatusNoContent)
}
