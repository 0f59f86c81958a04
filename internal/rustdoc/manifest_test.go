package rustdoc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPackageName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "Cargo.toml")
	manifest := `[package]
name = "my-crate"
version = "0.1.0"
edition = "2021"

[dependencies]
serde = "1"
`
	if err := os.WriteFile(manifestPath, []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	name, err := PackageName(manifestPath)
	if err != nil {
		t.Fatalf("PackageName: %v", err)
	}
	if name != "my-crate" {
		t.Errorf("name = %q, want my-crate", name)
	}
}

func TestPackageName_NoPackage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "Cargo.toml")
	// A virtual workspace manifest has no [package] section.
	if err := os.WriteFile(manifestPath, []byte("[workspace]\nmembers = []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := PackageName(manifestPath)
	var parseError *ParseError
	if !errors.As(err, &parseError) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseError.Path != manifestPath {
		t.Errorf("error path = %q, want %q", parseError.Path, manifestPath)
	}
}

func TestPackageName_Missing(t *testing.T) {
	t.Parallel()

	_, err := PackageName(filepath.Join(t.TempDir(), "Cargo.toml"))
	var parseError *ParseError
	if !errors.As(err, &parseError) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestDumpFileName(t *testing.T) {
	t.Parallel()

	if got := DumpFileName("my-crate"); got != "my_crate.json" {
		t.Errorf("DumpFileName = %q, want my_crate.json", got)
	}
	if got := DumpFileName("plain"); got != "plain.json" {
		t.Errorf("DumpFileName = %q, want plain.json", got)
	}
}
