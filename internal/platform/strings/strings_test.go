package strings

import (
	"testing"

	kit "jmnedict/internal/platform/testkit"
)

func TestMustString(t *testing.T) {
	if MustString("entries", "name") != "entries" {
		t.Fatal("value not returned")
	}
	kit.MustPanic(t, func() { MustString(" \t", "name") })
}

func TestMustPrefix(t *testing.T) {
	for in, want := range map[string]string{"entries": "/entries", "/meta/": "/meta", " //x// ": "/x"} {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestTruncateUTF8(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"山田山田", 4, "山..."},
		{"山田", 6, "山田"},
		{"abc", 10, "abc"},
		{"abcdef", 3, "abc..."},
		{"abc", 0, "abc"},
	}
	for _, tc := range cases {
		if got := TruncateUTF8(tc.in, tc.max); got != tc.want {
			t.Fatalf("TruncateUTF8(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
