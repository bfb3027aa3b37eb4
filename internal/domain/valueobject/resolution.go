package valueobject

// ResolutionKind tags the outcome of resolving one specifier.
type ResolutionKind int

const (
	Untouched ResolutionKind = iota
	Moved
	Deleted
)

// String returns the lowercase name of the kind.
func (k ResolutionKind) String() string {
	switch k {
	case Moved:
		return "moved"
	case Deleted:
		return "deleted"
	default:
		return "untouched"
	}
}

// MarshalYAML renders the kind by name.
func (k ResolutionKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Resolution is the decision for one import specifier.
type Resolution struct {
	Kind      ResolutionKind
	Specifier string
	// Target is the raw normalized map value for Moved, empty otherwise.
	Target string
	// Candidate is the map key that matched, if any.
	Candidate string
	// Relative reports whether the specifier started with ".".
	Relative bool
}

// IsMoved reports whether the specifier should be rewritten.
func (r Resolution) IsMoved() bool {
	return r.Kind == Moved
}

// IsDeleted reports whether the whole import statement should be removed.
func (r Resolution) IsDeleted() bool {
	return r.Kind == Deleted
}

// Changes reports whether applying the resolution mutates the source.
func (r Resolution) Changes() bool {
	return r.Kind != Untouched
}
