package outbound

import (
	"context"

	"importmover/internal/domain/valueobject"
)

// DecisionReporter renders the human-readable trace of a run.
type DecisionReporter interface {
	// FileVisited is called once per file before its imports are resolved.
	FileVisited(ctx context.Context, path string) error
	// ImportResolved is called once per import, in declaration order.
	ImportResolved(ctx context.Context, record valueobject.ImportRecord, res valueobject.Resolution) error
	// FileRewritten is called after a file's text changed.
	FileRewritten(ctx context.Context, path, before, after string) error
}
