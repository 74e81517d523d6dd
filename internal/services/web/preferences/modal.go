package preferences

import (
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/louisbranch/taskspace/internal/services/web/schema"
)

// DefaultModalIdleTTL is how long a modal selection survives without use.
const DefaultModalIdleTTL = 30 * time.Minute

// Modal is the open modal of one session.
type Modal struct {
	ID string `json:"modal"`
}

// Validate reports whether the modal id is usable.
func (m Modal) Validate() error {
	c := schema.Checker{}
	c.Slug("modal", m.ID)
	return c.Err()
}

// Modals tracks the open modal per session. Selections live in memory only
// and expire with the session's idle TTL.
type Modals struct {
	open *ttlcache.Cache[string, string]
}

// NewModals builds an empty selection table.
func NewModals(idleTTL time.Duration) *Modals {
	if idleTTL <= 0 {
		idleTTL = DefaultModalIdleTTL
	}
	return &Modals{open: ttlcache.New(ttlcache.WithTTL[string, string](idleTTL))}
}

// Select records modal as open for session.
func (m *Modals) Select(session string, modal Modal) (Modal, error) {
	modal.ID = strings.TrimSpace(modal.ID)
	if err := modal.Validate(); err != nil {
		return Modal{}, err
	}
	session = strings.TrimSpace(session)
	if m == nil || session == "" {
		return modal, nil
	}
	m.open.DeleteExpired()
	m.open.Set(session, modal.ID, ttlcache.DefaultTTL)
	return modal, nil
}

// Selected returns the open modal of session, if any.
func (m *Modals) Selected(session string) (Modal, bool) {
	session = strings.TrimSpace(session)
	if m == nil || session == "" {
		return Modal{}, false
	}
	item := m.open.Get(session)
	if item == nil {
		return Modal{}, false
	}
	return Modal{ID: item.Value()}, true
}

// Clear closes the open modal of session.
func (m *Modals) Clear(session string) {
	session = strings.TrimSpace(session)
	if m == nil || session == "" {
		return
	}
	m.open.Delete(session)
}

// Len returns the number of sessions with an open modal.
func (m *Modals) Len() int {
	if m == nil {
		return 0
	}
	m.open.DeleteExpired()
	return m.open.Len()
}
