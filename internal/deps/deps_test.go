package deps

import (
	"errors"
	"testing"
)

func stubLookPath(t *testing.T, installed map[string]string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if path, ok := installed[name]; ok {
			return path, nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestCheckBinaries(t *testing.T) {
	stubLookPath(t, map[string]string{"cdparanoia": "/usr/bin/cdparanoia"})

	results := CheckBinaries([]Requirement{
		{Name: "cdparanoia", Command: " cdparanoia "},
		{Name: "flac", Command: "flac"},
		{Name: "lame", Command: "lame", Optional: true},
		{Name: "oggenc", Command: "  "},
	})

	tests := []struct {
		name      string
		available bool
		missing   bool
		detail    string
	}{
		{"cdparanoia", true, false, ""},
		{"flac", false, true, `binary "flac" not found`},
		{"lame", false, false, `binary "lame" not found`},
		{"oggenc", false, true, "command not configured"},
	}
	if len(results) != len(tests) {
		t.Fatalf("expected %d results, got %d", len(tests), len(results))
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := results[i]
			if got.Name != tt.name || got.Available != tt.available || got.Missing() != tt.missing || got.Detail != tt.detail {
				t.Fatalf("unexpected status %+v", got)
			}
		})
	}
	if results[0].Path != "/usr/bin/cdparanoia" || results[0].Command != "cdparanoia" {
		t.Fatalf("expected trimmed command and resolved path, got %+v", results[0])
	}
}

func TestMissingRequiredAndDescribe(t *testing.T) {
	stubLookPath(t, nil)

	missing := MissingRequired(CheckBinaries([]Requirement{
		{Name: "cdparanoia", Command: "cdparanoia"},
		{Name: "eject", Command: "eject", Optional: true},
		{Name: "flac", Command: "flac"},
	}))
	if len(missing) != 2 {
		t.Fatalf("expected two missing programs, got %+v", missing)
	}
	want := `cdparanoia (binary "cdparanoia" not found), flac (binary "flac" not found)`
	if got := Describe(missing); got != want {
		t.Fatalf("Describe() = %q, want %q", got, want)
	}
	if Describe(nil) != "" {
		t.Fatal("expected empty description for no statuses")
	}
}
