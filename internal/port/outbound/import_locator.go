package outbound

import (
	"context"

	"importmover/internal/domain/valueobject"
)

// ImportLocator parses source text and locates its import declarations.
type ImportLocator interface {
	// LocateImports returns an immutable snapshot of text paired with its
	// import records in declaration order. An import whose source is not a
	// plain string literal, or text that does not parse, yields a
	// *domain.SourceError carrying path, line and column.
	LocateImports(ctx context.Context, path, text string) (valueobject.SourceFile, error)
}
