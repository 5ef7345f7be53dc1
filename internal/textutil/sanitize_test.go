package textutil_test

import (
	"testing"

	"cdripper/internal/textutil"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Foo/Bar", "FooBar"},
		{"Title: One", "Title One"},
		{"AC/DC", "ACDC"},
		{"Back in Black?", "Back in Black"},
		{"Vol. 2_final  ", "Vol. 2_final"},
		{"Sigur Rós", "Sigur Rós"},
		{"Sigur Ro\u0301s", "Sigur R\u00f3s"},
		{"", ""},
		{"***", ""},
	}
	for _, tc := range cases {
		if got := textutil.SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := map[string]string{
		"/dev/sr0":  "dev_sr0",
		"  ":        "unknown",
		"Disc-One_": "disc-one",
	}
	for in, want := range cases {
		if got := textutil.SanitizeToken(in); got != want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}
