package treesitter

import (
	"context"
	"errors"
	"testing"

	"importmover/internal/domain/errors/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocator(t *testing.T) *ImportLocator {
	t.Helper()
	locator, err := NewImportLocator()
	require.NoError(t, err)
	return locator
}

func TestImportLocator_LocateImports(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		specifiers []string
	}{
		{
			name:       "no imports",
			source:     "const a = 1;\nexport default a;\n",
			specifiers: []string{},
		},
		{
			name: "default, named, namespace and side-effect imports in order",
			source: "import a from './a';\n" +
				"import { b, c as d } from \"../b/index.js\";\n" +
				"import * as e from 'lib/e';\n" +
				"import './styles';\n",
			specifiers: []string{"./a", "../b/index.js", "lib/e", "./styles"},
		},
		{
			name: "jsx component",
			source: "import React from 'react';\n" +
				"import Button from './Button';\n" +
				"export default function App() { return <div><Button label=\"ok\" /></div>; }\n",
			specifiers: []string{"react", "./Button"},
		},
		{
			name: "class fields and decorators",
			source: "import { observable } from 'mobx';\n" +
				"import Store from './store';\n" +
				"class Todo {\n  @observable title = '';\n  static count = 0;\n}\n",
			specifiers: []string{"mobx", "./store"},
		},
		{
			name:       "imports after code are still found",
			source:     "const x = 1;\nimport late from './late';\n",
			specifiers: []string{"./late"},
		},
		{
			name:       "dynamic import is not a declaration",
			source:     "import a from './a';\nconst lazy = () => import('./lazy');\n",
			specifiers: []string{"./a"},
		},
		{
			name:       "escaped characters are cooked",
			source:     "import a from './we\\'ird';\nimport b from \"./tab\\u0041\";\n",
			specifiers: []string{"./we'ird", "./tabA"},
		},
		{
			name:       "multi-line named import",
			source:     "import {\n  one,\n  two,\n} from './numbers';\n",
			specifiers: []string{"./numbers"},
		},
	}

	locator := newTestLocator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := locator.LocateImports(context.Background(), "src/file.js", tt.source)
			require.NoError(t, err)

			assert.Equal(t, "src/file.js", file.Path())
			assert.Equal(t, tt.source, file.Text())

			got := make([]string, 0, file.ImportCount())
			for _, rec := range file.Imports() {
				got = append(got, rec.Specifier)
			}
			assert.Equal(t, tt.specifiers, got)
		})
	}
}

func TestImportLocator_Offsets(t *testing.T) {
	source := "// header\nimport a from './a';\n  import b from \"b\"\n"

	file, err := newTestLocator(t).LocateImports(context.Background(), "x.js", source)
	require.NoError(t, err)
	require.Equal(t, 2, file.ImportCount())

	first, second := file.Imports()[0], file.Imports()[1]

	assert.Equal(t, "import a from './a';", source[first.StatementStart:first.StatementEnd])
	assert.Equal(t, "'./a'", source[first.SpecifierStart:first.SpecifierEnd])
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, 14, first.Column)

	assert.Equal(t, `"b"`, source[second.SpecifierStart:second.SpecifierEnd])
	assert.Equal(t, 3, second.Line)
	assert.Equal(t, len("// header\nimport a from './a';\n  "), second.StatementStart)
	assert.Equal(t, `import b from "b"`, source[second.StatementStart:second.StatementEnd])
}

func TestImportLocator_NonStringSource(t *testing.T) {
	source := "import a from `./a`;\nimport b from './b';\n"

	file, err := newTestLocator(t).LocateImports(context.Background(), "bad.js", source)
	require.Error(t, err)
	assert.Equal(t, 0, file.ImportCount())
	assert.True(t, errors.Is(err, domain.ErrParseSource))

	var sourceErr *domain.SourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, "bad.js", sourceErr.Path)
	assert.Equal(t, 1, sourceErr.Line)
	assert.Contains(t, err.Error(), "bad.js:1:")
}

func TestImportLocator_SyntaxError(t *testing.T) {
	source := "import a from './a';\n\nfunction broken( {\n"

	_, err := newTestLocator(t).LocateImports(context.Background(), "broken.js", source)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParseSource)

	var sourceErr *domain.SourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, "broken.js", sourceErr.Path)
	assert.GreaterOrEqual(t, sourceErr.Line, 3)
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		seq   string
		quote byte
		want  string
	}{
		{`\n`, '\'', "\n"},
		{`\'`, '\'', "'"},
		{`\"`, '\'', `"`},
		{`\\`, '"', `\`},
		{`\x41`, '"', "A"},
		{`\u00e9`, '"', "é"},
		{`\u{1F600}`, '"', "😀"},
		{`\0`, '"', "\x00"},
		{`\q`, '"', "q"},
		{"\\\n", '"', ""},
	}

	for _, tt := range tests {
		t.Run(tt.seq, func(t *testing.T) {
			got, err := unescape(tt.seq, tt.quote)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
