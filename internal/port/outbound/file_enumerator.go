package outbound

import "context"

// FileEnumerator lists the files a run should visit.
type FileEnumerator interface {
	// Enumerate returns the files matching pattern, sorted, using forward
	// slashes as separators.
	Enumerate(ctx context.Context, pattern string) ([]string, error)
}
