package web

import (
	"errors"
	"net/http"

	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
	"github.com/louisbranch/taskspace/internal/services/web/platform/i18n"
	"github.com/louisbranch/taskspace/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/resource/user"
)

var errNotReady = errors.New("query is not ready")

// sessionCache returns the caller's session token and query cache.
func (h *handler) sessionCache(r *http.Request) (string, *query.Cache, error) {
	session, ok := sessioncookie.ReadSession(r)
	if !ok {
		return "", nil, apperrors.Application(http.StatusUnauthorized, "sign in to continue")
	}
	return session, h.sessions.For(session), nil
}

// currentUser loads the signed-in profile through the session cache.
func (h *handler) currentUser(r *http.Request) (user.User, *query.Cache, error) {
	_, cache, err := h.sessionCache(r)
	if err != nil {
		return user.User{}, nil, err
	}
	me, err := stateValue(h.users.Me(r.Context(), cache))
	if err != nil {
		return user.User{}, nil, err
	}
	return me, cache, nil
}

func (h *handler) cookiePolicy() sessioncookie.Policy {
	return sessioncookie.Policy{Secure: h.secure}
}

// stateValue unwraps a query result. A failed refetch still yields the last
// successful data.
func stateValue[T any](state query.State[T]) (T, error) {
	switch {
	case state.Status == query.StatusSuccess, state.HasData:
		return state.Data, nil
	case state.Status == query.StatusError:
		var zero T
		return zero, state.Err
	default:
		var zero T
		return zero, errNotReady
	}
}

func localizer(r *http.Request) i18n.Localizer {
	return i18n.For(i18n.ResolveTag(r))
}
