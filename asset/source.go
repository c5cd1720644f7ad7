package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrSourceNotLoaded is returned by Server.ShaderSource while a path-based
// source is still loading. The condition is transient; the caller retries
// on a later frame.
var ErrSourceNotLoaded = errors.New("asset: shader source not loaded yet")

// Server resolves shader source by asset path.
//
// Sources are loaded lazily on first request and cached. A load failure is
// cached too, so a bad path is reported once per resolution attempt instead
// of hammering the filesystem every frame.
type Server struct {
	mu   sync.Mutex
	root string
	srcs map[string]sourceEntry
}

type sourceEntry struct {
	source string
	err    error
}

// NewServer creates a source server rooted at the given asset directory.
// An empty root resolves paths relative to the working directory.
func NewServer(root string) *Server {
	return &Server{
		root: root,
		srcs: make(map[string]sourceEntry),
	}
}

// ShaderSource returns the WGSL source for the given asset path.
//
// The first call reads the file synchronously; subsequent calls return the
// cached result. A missing file is reported as ErrSourceNotLoaded and is not
// cached, so a source that appears later (preload, hot reload) is picked up
// on a subsequent call. Other read failures are cached and permanent.
func (s *Server) ShaderSource(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.srcs[path]; ok {
		return e.source, e.err
	}

	data, err := os.ReadFile(filepath.Join(s.root, path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("asset: shader source %q: %w", path, ErrSourceNotLoaded)
		}
		err = fmt.Errorf("asset: load shader source %q: %w", path, err)
		s.srcs[path] = sourceEntry{err: err}
		return "", err
	}

	e := sourceEntry{source: string(data)}
	s.srcs[path] = e
	return e.source, nil
}

// Preload stores shader source for a path without touching the filesystem.
// Useful for embedding shaders and for tests.
func (s *Server) Preload(path, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.srcs[path] = sourceEntry{source: source}
}
