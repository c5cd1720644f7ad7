package asset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestServerReadsFromRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fx.wgsl"), []byte("// shader"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewServer(dir)
	src, err := s.ShaderSource("fx.wgsl")
	if err != nil {
		t.Fatalf("ShaderSource: %v", err)
	}
	if src != "// shader" {
		t.Errorf("ShaderSource = %q", src)
	}
}

func TestServerMissingFileIsNotLoaded(t *testing.T) {
	s := NewServer(t.TempDir())

	_, err := s.ShaderSource("late.wgsl")
	if !errors.Is(err, ErrSourceNotLoaded) {
		t.Fatalf("error = %v, want ErrSourceNotLoaded", err)
	}
}

func TestServerPicksUpLateFile(t *testing.T) {
	dir := t.TempDir()
	s := NewServer(dir)

	if _, err := s.ShaderSource("late.wgsl"); !errors.Is(err, ErrSourceNotLoaded) {
		t.Fatalf("first call error = %v, want ErrSourceNotLoaded", err)
	}

	// The file appears after the first request, as with hot reload.
	if err := os.WriteFile(filepath.Join(dir, "late.wgsl"), []byte("fn main() {}"), 0o600); err != nil {
		t.Fatal(err)
	}
	src, err := s.ShaderSource("late.wgsl")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if src != "fn main() {}" {
		t.Errorf("second call = %q", src)
	}
}

func TestServerPreloadBypassesFilesystem(t *testing.T) {
	s := NewServer("/nonexistent")
	s.Preload("inline.wgsl", "@compute fn main() {}")

	src, err := s.ShaderSource("inline.wgsl")
	if err != nil {
		t.Fatalf("ShaderSource: %v", err)
	}
	if src != "@compute fn main() {}" {
		t.Errorf("ShaderSource = %q", src)
	}
}

func TestServerCachesAfterFirstRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fx.wgsl")
	if err := os.WriteFile(path, []byte("v1"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewServer(dir)
	if _, err := s.ShaderSource("fx.wgsl"); err != nil {
		t.Fatal(err)
	}

	// A later change on disk is not observed; the cache holds the first read.
	if err := os.WriteFile(path, []byte("v2"), 0o600); err != nil {
		t.Fatal(err)
	}
	src, err := s.ShaderSource("fx.wgsl")
	if err != nil {
		t.Fatal(err)
	}
	if src != "v1" {
		t.Errorf("cached source = %q, want v1", src)
	}
}
