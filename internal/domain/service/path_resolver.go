// Package service holds the pure domain logic for rewriting import paths:
// resolving specifiers against the move-map and splicing edits into source text.
package service

import (
	"path"
	"strings"

	"importmover/internal/domain/valueobject"
)

// candidateSuffixes are appended to a specifier, in priority order, when
// looking it up in the move-map. The empty suffix is the exact match.
var candidateSuffixes = []string{"", "/index.js", "/index.jsx", ".js", ".jsx"} //nolint:gochecknoglobals // fixed lookup order

// PathResolver decides what happens to an import specifier.
type PathResolver struct {
	moveMap *valueobject.MoveMap
}

// NewPathResolver creates a resolver over a built move-map.
func NewPathResolver(moveMap *valueobject.MoveMap) *PathResolver {
	return &PathResolver{moveMap: moveMap}
}

// Resolve decides the fate of specifier imported from a file whose original
// (pre-move) directory is originalDir. Relative specifiers are joined with
// originalDir because map keys are expressed in original-tree coordinates.
func (r *PathResolver) Resolve(specifier, originalDir string) valueobject.Resolution {
	res := valueobject.Resolution{
		Kind:      valueobject.Untouched,
		Specifier: specifier,
	}

	candidate := specifier
	if strings.HasPrefix(specifier, ".") {
		candidate = path.Join(originalDir, specifier)
		res.Relative = true
	}

	key, target, found := r.lookup(candidate)
	if !found {
		return res
	}
	res.Candidate = key

	switch {
	case target.Deleted:
		res.Kind = valueobject.Deleted
	case target.Path == "":
		// An empty destination means nothing to rewrite to.
	default:
		res.Kind = valueobject.Moved
		res.Target = target.Path
	}

	return res
}

// Candidates lists the keys tried for candidate, in lookup order.
func Candidates(candidate string) []string {
	out := make([]string, len(candidateSuffixes))
	for i, suffix := range candidateSuffixes {
		out[i] = candidate + suffix
	}
	return out
}

func (r *PathResolver) lookup(candidate string) (string, valueobject.MoveTarget, bool) {
	for _, key := range Candidates(candidate) {
		if target, ok := r.moveMap.Lookup(key); ok {
			return key, target, true
		}
	}
	return "", valueobject.MoveTarget{}, false
}

// OriginalDir returns the directory of the importing file in original-tree
// coordinates.
func (r *PathResolver) OriginalDir(currentPath string) string {
	return path.Dir(r.moveMap.OriginalLocation(currentPath))
}
