package valueobject

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

// Suffixes stripped from move-map values, in the order they are tried.
const (
	indexJSXSuffix = "/index.jsx"
	indexJSSuffix  = "/index.js"
	jsxExtension   = ".jsx"
	jsExtension    = ".js"
)

// MoveTarget is the destination of one move-map entry: either a path in the
// destination tree or the deletion marker.
type MoveTarget struct {
	Path    string
	Deleted bool
}

// MovedTo returns a target pointing at p.
func MovedTo(p string) MoveTarget {
	return MoveTarget{Path: p}
}

// DeletedTarget returns the deletion marker.
func DeletedTarget() MoveTarget {
	return MoveTarget{Deleted: true}
}

// ReverseCollision describes two map keys whose destinations land on the
// same on-disk path. The later key (in sorted order) wins.
type ReverseCollision struct {
	Location string
	Kept     string
	Dropped  string
}

// MoveMap is the normalized, read-only move-map for a run.
type MoveMap struct {
	entries         map[string]MoveTarget
	reversed        map[string]string
	destinationBase string
	collisions      []ReverseCollision
}

// NewMoveMap normalizes raw entries and builds the reverse index from
// current on-disk location back to original key.
func NewMoveMap(raw map[string]MoveTarget, destinationBase string) (*MoveMap, error) {
	if raw == nil {
		return nil, errors.New("move-map entries cannot be nil")
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	mm := &MoveMap{
		entries:         make(map[string]MoveTarget, len(raw)),
		reversed:        make(map[string]string, len(raw)),
		destinationBase: destinationBase,
	}

	for _, key := range keys {
		target := raw[key]
		if target.Deleted && target.Path != "" {
			return nil, fmt.Errorf("entry %q is both deleted and moved to %q", key, target.Path)
		}

		normalized := target
		normalized.Path = NormalizeImportPath(target.Path)
		mm.entries[key] = normalized

		current := target.Path
		if current == "" {
			current = key
		}
		location := path.Join(destinationBase, current)
		if previous, ok := mm.reversed[location]; ok {
			mm.collisions = append(mm.collisions, ReverseCollision{
				Location: location,
				Kept:     key,
				Dropped:  previous,
			})
		}
		mm.reversed[location] = key
	}

	return mm, nil
}

// NormalizeImportPath strips a trailing /index.jsx, /index.js, .jsx or .js
// from p. Only the first matching suffix is removed.
func NormalizeImportPath(p string) string {
	for _, suffix := range []string{indexJSXSuffix, indexJSSuffix, jsxExtension, jsExtension} {
		if strings.HasSuffix(p, suffix) {
			return p[:len(p)-len(suffix)]
		}
	}
	return p
}

// Lookup returns the normalized target recorded for key.
func (m *MoveMap) Lookup(key string) (MoveTarget, bool) {
	target, ok := m.entries[key]
	return target, ok
}

// OriginalLocation maps a file's current path to its identity in the
// original tree. Files that never moved keep their own path.
func (m *MoveMap) OriginalLocation(current string) string {
	if original, ok := m.reversed[current]; ok {
		return original
	}
	return current
}

// Len returns the number of entries.
func (m *MoveMap) Len() int {
	return len(m.entries)
}

// DestinationBase returns the directory the reverse index is rooted at.
func (m *MoveMap) DestinationBase() string {
	return m.destinationBase
}

// Collisions lists reverse-index conflicts found while building the map.
func (m *MoveMap) Collisions() []ReverseCollision {
	out := make([]ReverseCollision, len(m.collisions))
	copy(out, m.collisions)
	return out
}
