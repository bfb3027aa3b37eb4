package treesitter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"importmover/internal/application/common/slogger"
	"importmover/internal/domain/errors/domain"
	"importmover/internal/domain/valueobject"

	"github.com/alexaandru/go-sitter-forest/javascript"
	tree_sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Node types of the JavaScript grammar the locator relies on.
const (
	nodeImportStatement = "import_statement"
	nodeString          = "string"
	nodeStringFragment  = "string_fragment"
	nodeEscapeSequence  = "escape_sequence"
	nodeTemplateString  = "template_string"
	nodeError           = "ERROR"
	fieldSource         = "source"
	maxSnippetLength    = 50
)

// ImportLocator finds ES import declarations with tree-sitter's JavaScript
// grammar, which accepts JSX, class fields and decorators.
type ImportLocator struct {
	mu     sync.Mutex
	parser *tree_sitter.Parser
}

// NewImportLocator creates a locator with its own parser.
func NewImportLocator() (*ImportLocator, error) {
	parser := tree_sitter.NewParser()
	jsLang := tree_sitter.NewLanguage(javascript.GetLanguage())

	if !parser.SetLanguage(jsLang) {
		return nil, errors.New("failed to set JavaScript language in tree-sitter parser")
	}

	return &ImportLocator{parser: parser}, nil
}

// LocateImports parses text and returns it paired with its top-level import
// declarations in source order.
func (l *ImportLocator) LocateImports(ctx context.Context, path, text string) (valueobject.SourceFile, error) {
	start := time.Now()
	source := []byte(text)

	l.mu.Lock()
	tree, err := l.parser.ParseString(ctx, nil, source)
	l.mu.Unlock()
	if err != nil {
		return valueobject.SourceFile{}, &domain.SourceError{
			Path: path,
			Line: 1,
			Err:  fmt.Errorf("%w: %v", domain.ErrSyntax, err),
		}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return valueobject.SourceFile{}, syntaxError(path, root, source)
	}

	var records []valueobject.ImportRecord
	for i := range root.ChildCount() {
		child := root.Child(i)
		if child.Type() != nodeImportStatement {
			continue
		}

		record, err := importRecord(path, child, source)
		if err != nil {
			return valueobject.SourceFile{}, err
		}
		records = append(records, record)
	}

	file, err := valueobject.NewSourceFile(path, text, records)
	if err != nil {
		return valueobject.SourceFile{}, fmt.Errorf("%w: %v", domain.ErrParseSource, err)
	}

	slogger.Debug(ctx, "Located import declarations", slogger.Fields{
		"path":          path,
		"imports_count": len(records),
		"source_length": len(source),
		"duration":      time.Since(start).String(),
	})

	return file, nil
}

// importRecord converts one import_statement node. The source must be a
// plain string literal.
func importRecord(path string, statement tree_sitter.Node, source []byte) (valueobject.ImportRecord, error) {
	literal := sourceNode(statement)
	if literal.IsNull() || literal.Type() != nodeString {
		at := statement
		if !literal.IsNull() {
			at = literal
		}
		return valueobject.ImportRecord{}, locatedError(path, at, domain.ErrNonStringImportSource)
	}

	specifier, err := stringValue(literal, source)
	if err != nil {
		return valueobject.ImportRecord{}, locatedError(path, literal, fmt.Errorf("%w: %v", domain.ErrSyntax, err))
	}

	return valueobject.ImportRecord{
		Specifier:      specifier,
		SpecifierStart: int(literal.StartByte()),
		SpecifierEnd:   int(literal.EndByte()),
		StatementStart: int(statement.StartByte()),
		StatementEnd:   int(statement.EndByte()),
		Line:           int(literal.StartPoint().Row) + 1,
		Column:         int(literal.StartPoint().Column),
	}, nil
}

// sourceNode returns the statement's source field, looking one level down
// for grammars that keep the from clause as a visible node.
func sourceNode(statement tree_sitter.Node) tree_sitter.Node {
	if src := statement.ChildByFieldName(fieldSource); !src.IsNull() {
		return src
	}
	for i := range statement.ChildCount() {
		child := statement.Child(i)
		if child.Type() == nodeString {
			return child
		}
		if src := child.ChildByFieldName(fieldSource); !src.IsNull() {
			return src
		}
	}
	return tree_sitter.Node{}
}

// stringValue returns the cooked value of a string literal node.
func stringValue(literal tree_sitter.Node, source []byte) (string, error) {
	raw := literal.Content(source)
	quote := byte('"')
	if raw != "" {
		quote = raw[0]
	}

	var b strings.Builder
	for i := range literal.ChildCount() {
		child := literal.Child(i)
		switch child.Type() {
		case nodeStringFragment:
			b.WriteString(child.Content(source))
		case nodeEscapeSequence:
			cooked, err := unescape(child.Content(source), quote)
			if err != nil {
				return "", err
			}
			b.WriteString(cooked)
		}
	}
	return b.String(), nil
}

// unescape cooks a single JavaScript escape sequence.
func unescape(seq string, quote byte) (string, error) {
	switch {
	case seq == "\\\n" || seq == "\\\r\n" || seq == "\\\r":
		return "", nil
	case strings.HasPrefix(seq, `\u{`) && strings.HasSuffix(seq, "}"):
		code, err := strconv.ParseUint(seq[3:len(seq)-1], 16, 32)
		if err != nil {
			return "", fmt.Errorf("invalid escape %q: %w", seq, err)
		}
		return string(rune(code)), nil
	case seq == `\0`:
		return "\x00", nil
	}

	value, _, tail, err := strconv.UnquoteChar(seq, quote)
	if err != nil || tail != "" {
		// JavaScript keeps the character of an unknown escape.
		return strings.TrimPrefix(seq, `\`), nil //nolint:nilerr // lenient by language rules
	}
	return string(value), nil
}

// syntaxError locates the first ERROR or MISSING node under root. An import
// whose source is a template literal fails to parse as a declaration, so such
// errors are reported as non-string sources.
func syntaxError(path string, root tree_sitter.Node, source []byte) error {
	errNode := findFirstErrorNode(root)
	if errNode.IsNull() {
		return &domain.SourceError{Path: path, Line: 1, Err: domain.ErrSyntax}
	}

	snippet := errNode.Content(source)
	if strings.HasPrefix(strings.TrimSpace(snippet), "import") &&
		(hasDescendant(errNode, nodeTemplateString) || strings.Contains(restOfLine(source, errNode.StartByte()), "`")) {
		return locatedError(path, errNode, domain.ErrNonStringImportSource)
	}

	if len(snippet) > maxSnippetLength {
		snippet = snippet[:maxSnippetLength] + "..."
	}
	if errNode.IsMissing() {
		return locatedError(path, errNode, fmt.Errorf("%w: missing %s", domain.ErrSyntax, errNode.Type()))
	}
	return locatedError(path, errNode, fmt.Errorf("%w: unexpected %q", domain.ErrSyntax, snippet))
}

func restOfLine(source []byte, offset uint) string {
	if int(offset) >= len(source) {
		return ""
	}
	rest := string(source[offset:])
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func findFirstErrorNode(node tree_sitter.Node) tree_sitter.Node {
	if node.Type() == nodeError || node.IsMissing() {
		return node
	}

	for i := range node.ChildCount() {
		if errNode := findFirstErrorNode(node.Child(i)); !errNode.IsNull() {
			return errNode
		}
	}

	return tree_sitter.Node{}
}

func hasDescendant(node tree_sitter.Node, nodeType string) bool {
	for i := range node.ChildCount() {
		child := node.Child(i)
		if child.Type() == nodeType || hasDescendant(child, nodeType) {
			return true
		}
	}
	return false
}

func locatedError(path string, node tree_sitter.Node, err error) *domain.SourceError {
	return &domain.SourceError{
		Path:   path,
		Line:   int(node.StartPoint().Row) + 1,
		Column: int(node.StartPoint().Column),
		Err:    err,
	}
}
