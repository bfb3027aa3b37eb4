// Package domain provides domain-specific error definitions and utilities.
package domain

import (
	"errors"
	"fmt"
)

// Move-map errors.
var (
	ErrMoveMapRead    = errors.New("move-map could not be read")
	ErrMoveMapParse   = errors.New("move-map is not valid")
	ErrInvalidMoveMap = errors.New("move-map entry is invalid")
)

// Source file errors.
var (
	ErrEnumerate             = errors.New("source files could not be enumerated")
	ErrSourceRead            = errors.New("source file could not be read")
	ErrSourceWrite           = errors.New("source file could not be written")
	ErrParseSource           = errors.New("source file could not be parsed")
	ErrSyntax                = errors.New("syntax error")
	ErrNonStringImportSource = errors.New("import source is not a string literal")
)

// Editing errors.
var (
	ErrInvalidEdit = errors.New("invalid edit")
)

// SourceError reports a parse failure at a position in a source file.
// Line is 1-based and Column is a 0-based byte offset within the line.
type SourceError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%v (%s:%d:%d)", e.Err, e.Path, e.Line, e.Column)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is reports every SourceError as a parse failure in addition to its cause.
func (e *SourceError) Is(target error) bool {
	return target == ErrParseSource
}
