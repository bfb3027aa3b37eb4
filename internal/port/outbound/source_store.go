package outbound

import "context"

// SourceStore reads and writes UTF-8 source files by path.
type SourceStore interface {
	Read(ctx context.Context, path string) (string, error)
	Write(ctx context.Context, path, text string) error
}
