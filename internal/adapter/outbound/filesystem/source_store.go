package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"importmover/internal/domain/errors/domain"
)

const defaultFileMode os.FileMode = 0o644

// SourceStore reads and writes source files under a root directory. Paths
// use forward slashes and are relative to the root unless absolute.
type SourceStore struct {
	root string
}

// NewSourceStore creates a store rooted at root. An empty root means the
// working directory.
func NewSourceStore(root string) *SourceStore {
	if root == "" {
		root = "."
	}
	return &SourceStore{root: root}
}

// Read returns the file's contents.
func (s *SourceStore) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.resolve(path))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSourceRead, err)
	}
	return string(data), nil
}

// Write replaces the file's contents, keeping its permission bits.
func (s *SourceStore) Write(ctx context.Context, path, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := s.resolve(path)
	mode := defaultFileMode
	if info, err := os.Stat(full); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(full, []byte(text), mode); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSourceWrite, err)
	}
	return nil
}

func (s *SourceStore) resolve(path string) string {
	native := filepath.FromSlash(path)
	if filepath.IsAbs(native) {
		return native
	}
	return filepath.Join(s.root, native)
}
