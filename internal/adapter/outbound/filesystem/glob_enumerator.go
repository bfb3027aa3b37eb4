// Package filesystem implements file enumeration and source storage on the
// local disk.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"importmover/internal/application/common/slogger"
	"importmover/internal/domain/errors/domain"

	"github.com/bmatcuk/doublestar/v4"
)

// GlobEnumerator lists regular files matching a glob relative to a root
// directory. Patterns use doublestar syntax; the extglob groups @(a|b),
// +(a|b) and ?(a|b) are accepted and rewritten to brace alternatives.
type GlobEnumerator struct {
	root string
}

// NewGlobEnumerator creates an enumerator rooted at root. An empty root
// means the working directory.
func NewGlobEnumerator(root string) *GlobEnumerator {
	if root == "" {
		root = "."
	}
	return &GlobEnumerator{root: root}
}

// Enumerate returns matching files sorted lexically, with forward slashes.
func (g *GlobEnumerator) Enumerate(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	translated, err := TranslateExtglob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEnumerate, err)
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(translated)) {
		return nil, fmt.Errorf("%w: invalid pattern %q", domain.ErrEnumerate, pattern)
	}

	var matches []string
	if filepath.IsAbs(translated) {
		matches, err = doublestar.FilepathGlob(translated, doublestar.WithFilesOnly())
		for i := range matches {
			matches[i] = filepath.ToSlash(matches[i])
		}
	} else {
		relative := strings.TrimPrefix(filepath.ToSlash(translated), "./")
		matches, err = doublestar.Glob(os.DirFS(g.root), relative, doublestar.WithFilesOnly())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", domain.ErrEnumerate, pattern, err)
	}

	sort.Strings(matches)

	slogger.Debug(ctx, "Enumerated source files", slogger.Fields3(
		"pattern", pattern,
		"translated", translated,
		"matches", len(matches),
	))
	return matches, nil
}

// TranslateExtglob rewrites @(a|b), +(a|b) and ?(a|b) groups into the
// brace form {a,b} understood by doublestar. ?(...) gains an empty
// alternative. *(...) and !(...) have no brace equivalent and are rejected.
func TranslateExtglob(pattern string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if !isExtglobOperator(c) || i+1 >= len(pattern) || pattern[i+1] != '(' {
			b.WriteByte(c)
			continue
		}

		end := strings.IndexByte(pattern[i+2:], ')')
		if end < 0 {
			return "", fmt.Errorf("unterminated extglob group in %q", pattern)
		}
		body := pattern[i+2 : i+2+end]

		switch c {
		case '*', '!':
			return "", fmt.Errorf("unsupported extglob %c(...) in %q", c, pattern)
		case '?':
			b.WriteString("{," + strings.ReplaceAll(body, "|", ",") + "}")
		default:
			b.WriteString("{" + strings.ReplaceAll(body, "|", ",") + "}")
		}
		i += 2 + end
	}
	return b.String(), nil
}

func isExtglobOperator(c byte) bool {
	return c == '@' || c == '+' || c == '?' || c == '*' || c == '!'
}
