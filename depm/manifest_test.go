package depm_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nynrathod/mylang/depm"
)

// writeManifest writes a manifest file with the given contents into a fresh
// temporary directory and returns its path.
func writeManifest(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doo.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %s", err)
	}

	return path
}

func TestLoadManifest(t *testing.T) {
	t.Run("full manifest", func(t *testing.T) {
		man := depm.LoadManifest(writeManifest(t, `
name = "myapp"
version = "1.2.3"
output = "app"
`))

		if man.Name != "myapp" || man.Version != "1.2.3" || man.Output != "app" {
			t.Errorf("unexpected manifest: %+v", man)
		}
	})

	t.Run("minimal manifest", func(t *testing.T) {
		man := depm.LoadManifest(writeManifest(t, `name = "tool"`))

		if man.Name != "tool" || man.Version != "" || man.Output != "" {
			t.Errorf("unexpected manifest: %+v", man)
		}
	})

	t.Run("unknown keys ignored", func(t *testing.T) {
		man := depm.LoadManifest(writeManifest(t, `
name = "tool"
author = "someone"
`))

		if man.Name != "tool" {
			t.Errorf("unexpected manifest: %+v", man)
		}
	})
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"hello", true},
		{"CamelCase", true},
		{"_internal", true},
		{"a1", true},
		{"x_y_z", true},
		{"", false},
		{"1abc", false},
		{"my-app", false},
		{"a b", false},
		{"dot.name", false},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			if got := depm.IsValidIdentifier(tt.s); got != tt.want {
				t.Errorf("IsValidIdentifier(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}
