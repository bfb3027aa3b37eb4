package valueobject

import (
	"errors"
	"fmt"
)

// ImportRecord is one import declaration located in a source snapshot.
// Offsets are byte offsets into the exact text the record was located in.
type ImportRecord struct {
	Specifier      string
	SpecifierStart int
	SpecifierEnd   int
	StatementStart int
	StatementEnd   int
	// Line is 1-based, Column is a 0-based byte offset; both point at the
	// specifier literal.
	Line   int
	Column int
}

// Validate checks the record's ranges against a text of length textLen.
func (r ImportRecord) Validate(textLen int) error {
	if r.StatementStart < 0 || r.StatementStart > r.StatementEnd || r.StatementEnd > textLen {
		return fmt.Errorf("statement range [%d,%d) outside text of length %d",
			r.StatementStart, r.StatementEnd, textLen)
	}
	if r.SpecifierStart > r.SpecifierEnd {
		return errors.New("specifier range is inverted")
	}
	if r.SpecifierStart < r.StatementStart || r.SpecifierEnd > r.StatementEnd {
		return fmt.Errorf("specifier range [%d,%d) outside statement range [%d,%d)",
			r.SpecifierStart, r.SpecifierEnd, r.StatementStart, r.StatementEnd)
	}
	return nil
}

// SourceFile pairs an immutable text snapshot with the import records
// located in exactly that text.
type SourceFile struct {
	path    string
	text    string
	imports []ImportRecord
}

// NewSourceFile validates every record against text.
func NewSourceFile(path, text string, imports []ImportRecord) (SourceFile, error) {
	for i, rec := range imports {
		if err := rec.Validate(len(text)); err != nil {
			return SourceFile{}, fmt.Errorf("import %d (%q) in %s: %w", i, rec.Specifier, path, err)
		}
	}

	owned := make([]ImportRecord, len(imports))
	copy(owned, imports)

	return SourceFile{path: path, text: text, imports: owned}, nil
}

// Path returns the file path the snapshot was read from.
func (f SourceFile) Path() string {
	return f.path
}

// Text returns the original text.
func (f SourceFile) Text() string {
	return f.text
}

// Imports returns a copy of the records in declaration order.
func (f SourceFile) Imports() []ImportRecord {
	out := make([]ImportRecord, len(f.imports))
	copy(out, f.imports)
	return out
}

// ImportCount returns the number of located imports.
func (f SourceFile) ImportCount() int {
	return len(f.imports)
}
