package flash

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
	webi18n "github.com/louisbranch/taskspace/internal/services/web/platform/i18n"
	"golang.org/x/text/language"
)

func TestWriteAndReadAndClearRoundTrip(t *testing.T) {
	t.Parallel()

	writeRR := httptest.NewRecorder()
	Write(writeRR, Success("Preferences saved."), true)
	cookie, err := http.ParseSetCookie(writeRR.Header().Get("Set-Cookie"))
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}
	if !cookie.Secure {
		t.Fatal("expected secure flash cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/acme/home", nil)
	req.AddCookie(cookie)
	readRR := httptest.NewRecorder()
	notice, ok := ReadAndClear(readRR, req, true)
	if !ok {
		t.Fatalf("ReadAndClear() ok = false, want true")
	}
	if notice.Kind != KindSuccess || notice.Message != "Preferences saved." {
		t.Fatalf("notice = %+v", notice)
	}
	if readRR.Header().Get("Set-Cookie") == "" {
		t.Fatalf("expected clear Set-Cookie header")
	}
}

func TestReadAndClearInvalidCookieValueStillClears(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-base64!"})
	rr := httptest.NewRecorder()

	if _, ok := ReadAndClear(rr, req, false); ok {
		t.Fatalf("ReadAndClear() ok = true, want false")
	}
	if rr.Header().Get("Set-Cookie") == "" {
		t.Fatalf("expected clear Set-Cookie header")
	}
}

func TestWriteIgnoresInvalidNotice(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Write(rr, Notice{Kind: "shout", Message: "hi"}, false)
	Write(rr, Notice{Kind: KindInfo, Message: "   "}, false)
	if got := rr.Header().Get("Set-Cookie"); got != "" {
		t.Fatalf("Set-Cookie = %q, want empty", got)
	}
}

func TestNormalizeTruncatesLongMessages(t *testing.T) {
	t.Parallel()

	notice, ok := normalize(Notice{Kind: KindError, Message: strings.Repeat("x", maxMessageLength+10)})
	if !ok {
		t.Fatal("expected notice to normalize")
	}
	if len(notice.Message) != maxMessageLength {
		t.Fatalf("message length = %d, want %d", len(notice.Message), maxMessageLength)
	}
}

func TestFromError(t *testing.T) {
	t.Parallel()

	loc := webi18n.For(language.AmericanEnglish)

	server := FromError(loc, apperrors.Application(http.StatusConflict, "Workspace is archived"))
	if server.Kind != KindError || server.Message != "Workspace is archived" {
		t.Fatalf("server notice = %+v", server)
	}

	generic := FromError(loc, errors.New("boom"))
	if generic.Message != "Something went wrong. Please try again." {
		t.Fatalf("generic notice = %+v", generic)
	}

	transport := FromError(loc, apperrors.Transport(errors.New("dial tcp: refused")))
	if transport.Message != "The service is unavailable right now. Please try again in a moment." {
		t.Fatalf("transport notice = %+v", transport)
	}
}
