package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"importmover/internal/domain/errors/domain"
	"importmover/internal/domain/valueobject"
)

// blankLinePattern matches a line left with only spaces, tabs and an
// optional single-line comment after an import statement was removed.
var blankLinePattern = regexp.MustCompile(`^[ \t]*(?://.*)?$`) //nolint:gochecknoglobals // compiled once

// Edit pairs a located import with the decision made for it.
type Edit struct {
	Record     valueobject.ImportRecord
	Resolution valueobject.Resolution
}

// SourceEditor produces rewritten source text from a snapshot and its edits.
type SourceEditor struct{}

// NewSourceEditor creates a SourceEditor.
func NewSourceEditor() *SourceEditor {
	return &SourceEditor{}
}

// Rewrite applies resolutions, given in the same order as file.Imports(),
// to the file's original text and returns the new text.
func (e *SourceEditor) Rewrite(file valueobject.SourceFile, resolutions []valueobject.Resolution) (string, error) {
	imports := file.Imports()
	if len(imports) != len(resolutions) {
		return "", fmt.Errorf("%w: %d imports but %d resolutions in %s",
			domain.ErrInvalidEdit, len(imports), len(resolutions), file.Path())
	}

	edits := make([]Edit, len(imports))
	for i := range imports {
		edits[i] = Edit{Record: imports[i], Resolution: resolutions[i]}
	}

	out, err := e.ApplyEdits(file.Text(), edits)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file.Path(), err)
	}
	return out, nil
}

// ApplyEdits applies edits to text, last statement first, so that offsets
// of statements not yet visited stay valid. The edits slice is not modified.
func (e *SourceEditor) ApplyEdits(text string, edits []Edit) (string, error) {
	if err := validateEdits(text, edits); err != nil {
		return "", err
	}
	return applyInOrder(text, descending(edits))
}

// descending returns a copy of edits sorted by decreasing statement start.
func descending(edits []Edit) []Edit {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Record.StatementStart > sorted[j].Record.StatementStart
	})
	return sorted
}

func validateEdits(text string, edits []Edit) error {
	for _, ed := range edits {
		if err := ed.Record.Validate(len(text)); err != nil {
			return fmt.Errorf("%w: import %q: %v", domain.ErrInvalidEdit, ed.Record.Specifier, err)
		}
	}

	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Record.StatementStart < ordered[j].Record.StatementStart
	})
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1].Record, ordered[i].Record
		if cur.StatementStart < prev.StatementEnd {
			return fmt.Errorf("%w: import %q overlaps import %q",
				domain.ErrInvalidEdit, cur.Specifier, prev.Specifier)
		}
	}
	return nil
}

// applyInOrder splices each edit into text in the order given. Callers must
// pass edits in descending statement order; any other order reads stale offsets.
func applyInOrder(text string, edits []Edit) (string, error) {
	for _, ed := range edits {
		rec := ed.Record
		switch ed.Resolution.Kind {
		case valueobject.Moved:
			if rec.SpecifierEnd > len(text) {
				return "", fmt.Errorf("%w: specifier %q ends past text", domain.ErrInvalidEdit, rec.Specifier)
			}
			quoted, err := quoteSpecifier(ed.Resolution.Target)
			if err != nil {
				return "", err
			}
			text = text[:rec.SpecifierStart] + quoted + text[rec.SpecifierEnd:]
		case valueobject.Deleted:
			if rec.StatementEnd > len(text) {
				return "", fmt.Errorf("%w: statement %q ends past text", domain.ErrInvalidEdit, rec.Specifier)
			}
			text = deleteStatement(text, rec.StatementStart, rec.StatementEnd)
		case valueobject.Untouched:
		}
	}
	return text, nil
}

// deleteStatement removes [start, end) and then drops the containing line
// if nothing but whitespace or a line comment remains on it.
func deleteStatement(text string, start, end int) string {
	text = text[:start] + text[end:]

	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := len(text)
	if i := strings.IndexByte(text[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
	}

	line := strings.TrimSuffix(text[lineStart:lineEnd], "\r")
	if !blankLinePattern.MatchString(line) {
		return text
	}

	if lineEnd < len(text) {
		return text[:lineStart] + text[lineEnd+1:]
	}
	return text[:lineStart]
}

// quoteSpecifier renders s as a double-quoted string literal the way
// JSON.stringify does, leaving <, > and & unescaped.
func quoteSpecifier(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("quote specifier %q: %w", s, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
