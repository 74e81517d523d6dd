package query

import "testing"

func TestKeyStringIsOrderSensitiveAndEscaped(t *testing.T) {
	t.Parallel()

	a := NewKey("lists", "s1", "f1")
	b := NewKey("lists", "f1", "s1")
	if a.String() == b.String() {
		t.Fatalf("expected distinct keys, both %q", a.String())
	}
	if got := NewKey("space", "a/b").String(); got != "space/a%2Fb" {
		t.Fatalf("String() = %q", got)
	}
	if NewKey("space", "a/b").String() == NewKey("space", "a", "b").String() {
		t.Fatal("escaped segment collided with two segments")
	}
}

func TestKeyHasPrefix(t *testing.T) {
	t.Parallel()

	key := NewKey("lists-by-folder", "f1")
	tests := []struct {
		prefix Key
		want   bool
	}{
		{prefix: NewKey("lists-by-folder"), want: true},
		{prefix: NewKey("lists-by-folder", "f1"), want: true},
		{prefix: NewKey("lists-by-folder", "f2"), want: false},
		{prefix: NewKey("lists"), want: false},
		{prefix: NewKey("lists-by-folder", "f1", "x"), want: false},
		{prefix: Key{}, want: false},
	}
	for _, tc := range tests {
		if got := key.HasPrefix(tc.prefix); got != tc.want {
			t.Fatalf("HasPrefix(%v) = %t, want %t", tc.prefix, got, tc.want)
		}
	}
	if !key.Equal(NewKey("lists-by-folder", "f1")) || key.Equal(NewKey("lists-by-folder")) {
		t.Fatal("Equal mismatch")
	}
	if key.Op() != "lists-by-folder" || (Key{}).Op() != "" {
		t.Fatal("Op mismatch")
	}
}

func TestQueryEnabledGate(t *testing.T) {
	t.Parallel()

	fetch := func(_ ctxT, _ []string) (int, error) { return 1, nil }
	base := Define("spaces", fetch)
	tests := []struct {
		name string
		q    Query[int]
		want bool
	}{
		{name: "no params", q: base, want: true},
		{name: "bound", q: base.With("w1"), want: true},
		{name: "empty param", q: base.With(""), want: false},
		{name: "blank param", q: base.With("w1", "  "), want: false},
		{name: "caller gate off", q: base.With("w1").Enabled(false), want: false},
		{name: "gate stays off", q: base.Enabled(false).Enabled(true), want: false},
		{name: "nil fetch", q: Define[int]("x", nil), want: false},
	}
	for _, tc := range tests {
		if got := tc.q.IsEnabled(); got != tc.want {
			t.Fatalf("%s: IsEnabled() = %t, want %t", tc.name, got, tc.want)
		}
	}
	if got := base.With("w1").Key().String(); got != "spaces/w1" {
		t.Fatalf("Key() = %q", got)
	}
}
