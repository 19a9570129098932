package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestInspectFile(t *testing.T) {
	path := writeTemp(t, "recibos.csv", "a,b\n1,2\n")

	warnings, err := InspectFile(path, 1024)
	if err != nil {
		t.Fatalf("InspectFile() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestInspectFileMissing(t *testing.T) {
	if _, err := InspectFile(filepath.Join(t.TempDir(), "nope.csv"), 1024); err == nil {
		t.Error("InspectFile(missing) error = nil, want error")
	}
}

func TestInspectFileEmpty(t *testing.T) {
	path := writeTemp(t, "empty.csv", "")
	if _, err := InspectFile(path, 1024); err == nil {
		t.Error("InspectFile(empty) error = nil, want error")
	}
}

func TestInspectFileDirectory(t *testing.T) {
	if _, err := InspectFile(t.TempDir(), 1024); err == nil {
		t.Error("InspectFile(directory) error = nil, want error")
	}
}

func TestInspectFileSizeWarning(t *testing.T) {
	path := writeTemp(t, "big.csv", strings.Repeat("x", 64))

	warnings, err := InspectFile(path, 16)
	if err != nil {
		t.Fatalf("InspectFile() error = %v", err)
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "large file") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want large-file warning", warnings)
	}
}

func TestInspectFileUnusualExtension(t *testing.T) {
	path := writeTemp(t, "recibos.dat", "a,b\n")

	warnings, err := InspectFile(path, 1024)
	if err != nil {
		t.Fatalf("InspectFile() error = %v", err)
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "extension") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want extension warning", warnings)
	}
}

func TestIsXLSX(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"recibos.xlsx", true},
		{"RECIBOS.XLSX", true},
		{"recibos.csv", false},
		{"recibos", false},
	}
	for _, tt := range tests {
		if got := IsXLSX(tt.path); got != tt.want {
			t.Errorf("IsXLSX(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
