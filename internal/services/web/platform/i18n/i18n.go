// Package i18n resolves request languages and localized notice copy.
package i18n

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Notice message keys.
const (
	KeyGenericError      = "notice.error.generic"
	KeyUnavailable       = "notice.error.unavailable"
	KeyWorkspaceSelected = "notice.workspace.selected"
	KeyWorkspaceRequired = "notice.workspace.required"
	KeyPreferencesSaved  = "notice.preferences.saved"
	KeySessionEnded      = "notice.session.ended"
)

var supported = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

var fallbacks = map[string]string{
	KeyGenericError:      "Something went wrong. Please try again.",
	KeyUnavailable:       "The service is unavailable right now. Please try again in a moment.",
	KeyWorkspaceSelected: "Switched to workspace %s.",
	KeyWorkspaceRequired: "Choose a workspace to continue.",
	KeyPreferencesSaved:  "Preferences saved.",
	KeySessionEnded:      "You have been signed out.",
}

// Default returns the default language tag.
func Default() language.Tag {
	return supported[0]
}

// Supported returns the supported language tags.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// ResolveTag picks the best supported language from Accept-Language.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}
	accept := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if accept == "" {
		return Default()
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return Default()
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default()
	}
	return supported[idx]
}

// Localizer prints localized messages for one language.
type Localizer struct {
	printer *message.Printer
}

// For returns a localizer for the given tag, normalized to a supported one.
func For(tag language.Tag) Localizer {
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		idx = 0
	}
	return Localizer{printer: message.NewPrinter(supported[idx])}
}

// Text returns the localized message for key, falling back to the English copy.
func (l Localizer) Text(key string, args ...any) string {
	if l.printer != nil {
		value := strings.TrimSpace(l.printer.Sprintf(key, args...))
		if value != "" && value != key {
			return value
		}
	}
	fallback, ok := fallbacks[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(fallback, args...)
	}
	return fallback
}
