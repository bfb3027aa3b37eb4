package inbound

import (
	"context"

	"importmover/internal/application/dto"
)

// ImportRefactorer runs one import rewrite over a source tree.
type ImportRefactorer interface {
	Run(ctx context.Context) (*dto.RunSummary, error)
}
