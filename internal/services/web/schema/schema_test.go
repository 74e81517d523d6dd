package schema

import (
	"strings"
	"testing"

	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
)

func TestCheckerCollectsEveryFailure(t *testing.T) {
	t.Parallel()

	var check Checker
	check.Name("name", "  ", MaxNameLength)
	check.Color("color", "blue", false)
	check.Slug("slug", "AB")
	err := check.Err()
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("kind = %q, want validation", apperrors.KindOf(err))
	}
	fields := apperrors.FieldsOf(err)
	if len(fields) != 3 {
		t.Fatalf("fields = %+v, want 3", fields)
	}
	want := []string{"name", "color", "slug"}
	for i, field := range fields {
		if field.Field != want[i] {
			t.Fatalf("field %d = %q, want %q", i, field.Field, want[i])
		}
	}
}

func TestCheckerNoFailuresIsNil(t *testing.T) {
	t.Parallel()

	var check Checker
	if got := check.Name("name", "  Roadmap ", MaxNameLength); got != "Roadmap" {
		t.Fatalf("Name() = %q", got)
	}
	if err := check.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		max   int
		ok    bool
	}{
		{value: "Roadmap", max: MaxNameLength, ok: true},
		{value: "", max: MaxNameLength, ok: false},
		{value: strings.Repeat("é", MaxTagNameLength), max: MaxTagNameLength, ok: true},
		{value: strings.Repeat("a", MaxTagNameLength+1), max: MaxTagNameLength, ok: false},
	}
	for _, tc := range tests {
		var check Checker
		check.Name("name", tc.value, tc.max)
		if ok := check.Err() == nil; ok != tc.ok {
			t.Fatalf("Name(%q) ok = %t, want %t", tc.value, ok, tc.ok)
		}
	}
}

func TestColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    string
		required bool
		want     string
		ok       bool
	}{
		{value: "#FFF", want: "#fff", ok: true},
		{value: "#1f2937", want: "#1f2937", ok: true},
		{value: "", ok: true},
		{value: "", required: true, ok: false},
		{value: "#12345", ok: false},
		{value: "red", ok: false},
	}
	for _, tc := range tests {
		var check Checker
		got := check.Color("color", tc.value, tc.required)
		if ok := check.Err() == nil; ok != tc.ok {
			t.Fatalf("Color(%q) ok = %t, want %t", tc.value, ok, tc.ok)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("Color(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	for value, ok := range map[string]bool{
		"acme":                  true,
		"acme-labs-2":           true,
		"ab":                    false,
		"Acme":                  false,
		"acme_labs":             false,
		strings.Repeat("a", 49): false,
		"":                      false,
	} {
		var check Checker
		check.Slug("slug", value)
		if got := check.Err() == nil; got != ok {
			t.Fatalf("Slug(%q) ok = %t, want %t", value, got, ok)
		}
	}
}

func TestEmail(t *testing.T) {
	t.Parallel()

	for value, ok := range map[string]bool{
		"":                   true,
		"ana@example.com":    true,
		"not-an-email":       false,
		"Ana <ana@ex.com>":   false,
		"ana@example.com, b": false,
	} {
		var check Checker
		check.Email("email", value)
		if got := check.Err() == nil; got != ok {
			t.Fatalf("Email(%q) ok = %t, want %t", value, got, ok)
		}
	}
}

func TestUploadAndNumbers(t *testing.T) {
	t.Parallel()

	var check Checker
	check.Upload("file", nil, MaxAvatarBytes)
	check.Upload("file", make([]byte, MaxAvatarBytes+1), MaxAvatarBytes)
	check.Upload("file", []byte("ok"), MaxAvatarBytes)
	check.NonNegative("x", -1)
	check.NonNegative("x", 0)
	check.Positive("w", 0)
	check.Positive("w", 2)
	if got := len(apperrors.FieldsOf(check.Err())); got != 4 {
		t.Fatalf("failures = %d, want 4", got)
	}
}

func TestRequireID(t *testing.T) {
	t.Parallel()

	if id, err := RequireID("id", " s1 "); err != nil || id != "s1" {
		t.Fatalf("RequireID() = %q, %v", id, err)
	}
	if _, err := RequireID("id", ""); !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("RequireID(\"\") err = %v", err)
	}
}

func TestOptionalName(t *testing.T) {
	t.Parallel()

	var check Checker
	if check.OptionalName("name", nil, MaxNameLength) != nil {
		t.Fatal("expected nil for absent value")
	}
	value := " Docs "
	if got := check.OptionalName("name", &value, MaxNameLength); got == nil || *got != "Docs" {
		t.Fatalf("OptionalName() = %v", got)
	}
	empty := ""
	check.OptionalName("name", &empty, MaxNameLength)
	if check.Err() == nil {
		t.Fatal("expected failure for empty update")
	}
}
