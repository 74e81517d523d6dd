// Package flash carries one-time notices across a redirect.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
	webi18n "github.com/louisbranch/taskspace/internal/services/web/platform/i18n"
)

// CookieName is the cookie used for one-time notices.
const CookieName = "ts_flash"

// maxMessageLength bounds server-reported text stored in the cookie.
const maxMessageLength = 512

// Kind classifies notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notice is one transient message for the next page render.
type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Success builds a success notice.
func Success(message string) Notice {
	return Notice{Kind: KindSuccess, Message: message}
}

// FromError builds the error notice shown after a failed mutation.
//
// The server-reported message is preferred; otherwise the localized generic
// message is used.
func FromError(loc webi18n.Localizer, err error) Notice {
	if message, ok := apperrors.UserMessage(err); ok {
		return Notice{Kind: KindError, Message: message}
	}
	key := webi18n.KeyGenericError
	if apperrors.Is(err, apperrors.KindTransport) {
		key = webi18n.KeyUnavailable
	}
	return Notice{Kind: KindError, Message: loc.Text(key)}
}

// Write stores a notice cookie for the next page render.
func Write(w http.ResponseWriter, notice Notice, secure bool) {
	if w == nil {
		return
	}
	normalized, ok := normalize(notice)
	if !ok {
		return
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear reads and clears the notice cookie.
func ReadAndClear(w http.ResponseWriter, r *http.Request, secure bool) (Notice, bool) {
	if r == nil {
		return Notice{}, false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return Notice{}, false
	}
	if w != nil {
		Clear(w, secure)
	}
	return decode(cookie.Value)
}

// Clear expires any notice cookie.
func Clear(w http.ResponseWriter, secure bool) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func decode(raw string) (Notice, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Notice{}, false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Notice{}, false
	}
	var notice Notice
	if err := json.Unmarshal(decoded, &notice); err != nil {
		return Notice{}, false
	}
	return normalize(notice)
}

func normalize(notice Notice) (Notice, bool) {
	notice.Message = strings.TrimSpace(notice.Message)
	if notice.Message == "" {
		return Notice{}, false
	}
	if runes := []rune(notice.Message); len(runes) > maxMessageLength {
		notice.Message = string(runes[:maxMessageLength])
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindInfo, KindWarning, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
