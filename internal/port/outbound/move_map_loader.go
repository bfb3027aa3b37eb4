package outbound

import (
	"context"

	"importmover/internal/domain/valueobject"
)

// MoveMapLoader reads raw move-map entries from a file.
type MoveMapLoader interface {
	// Load returns entries keyed by original-tree path. Values are returned
	// as written; normalization is the MoveMap's job.
	Load(ctx context.Context, path string) (map[string]valueobject.MoveTarget, error)
}
