package instructions

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	custom := filepath.Join(dir, "instructions.txt")
	if err := os.WriteFile(custom, []byte("\n  You are a pirate.  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	blank := filepath.Join(dir, "blank.txt")
	if err := os.WriteFile(blank, []byte(" \n\t"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cases := []struct {
		name string
		path string
		want string
	}{
		{"file present", custom, "You are a pirate."},
		{"file missing", filepath.Join(dir, "nope.txt"), Default},
		{"empty path", "", Default},
		{"blank file", blank, Default},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Load(tc.path); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDefaultText(t *testing.T) {
	if Default != "You are a helpful assistant." {
		t.Fatalf("unexpected default: %q", Default)
	}
}
