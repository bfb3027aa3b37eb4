package service

import (
	"strings"
	"testing"

	"importmover/internal/domain/errors/domain"
	"importmover/internal/domain/valueobject"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordFor locates statement inside text and the quoted specifier inside
// the statement, the way the import locator reports them.
func recordFor(t *testing.T, text, statement, quotedSpecifier string) valueobject.ImportRecord {
	t.Helper()
	stmtStart := strings.Index(text, statement)
	require.GreaterOrEqual(t, stmtStart, 0, "statement %q not found", statement)
	specOffset := strings.Index(statement, quotedSpecifier)
	require.GreaterOrEqual(t, specOffset, 0, "specifier %q not found", quotedSpecifier)

	return valueobject.ImportRecord{
		Specifier:      quotedSpecifier[1 : len(quotedSpecifier)-1],
		SpecifierStart: stmtStart + specOffset,
		SpecifierEnd:   stmtStart + specOffset + len(quotedSpecifier),
		StatementStart: stmtStart,
		StatementEnd:   stmtStart + len(statement),
	}
}

func moved(target string) valueobject.Resolution {
	return valueobject.Resolution{Kind: valueobject.Moved, Target: target}
}

func deleted() valueobject.Resolution {
	return valueobject.Resolution{Kind: valueobject.Deleted}
}

func untouched() valueobject.Resolution {
	return valueobject.Resolution{Kind: valueobject.Untouched}
}

func TestSourceEditor_NoImportsLeavesTextIdentical(t *testing.T) {
	editor := NewSourceEditor()
	texts := []string{
		"",
		"const a = 1;\n",
		"// only a comment\n\n\nexport default function () {}\r\n",
		"const s = `import x from \"./y\"`;",
	}

	for _, text := range texts {
		got, err := editor.ApplyEdits(text, nil)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestSourceEditor_ApplyEdits(t *testing.T) {
	type edit struct {
		statement string
		specifier string
		res       valueobject.Resolution
	}

	tests := []struct {
		name  string
		text  string
		edits []edit
		want  string
	}{
		{
			name:  "moved specifier replaced verbatim",
			text:  "import b from \"./b\";\nconsole.log(b);\n",
			edits: []edit{{`import b from "./b";`, `"./b"`, moved("c/d")}},
			want:  "import b from \"c/d\";\nconsole.log(b);\n",
		},
		{
			name:  "single quoted specifier becomes double quoted",
			text:  "import b from './b';\n",
			edits: []edit{{`import b from './b';`, `'./b'`, moved("c/d")}},
			want:  "import b from \"c/d\";\n",
		},
		{
			name:  "side effect import moved",
			text:  "import \"./styles\";\n",
			edits: []edit{{`import "./styles";`, `"./styles"`, moved("theme/styles")}},
			want:  "import \"theme/styles\";\n",
		},
		{
			name:  "untouched import left alone",
			text:  "import React from \"react\";\n",
			edits: []edit{{`import React from "react";`, `"react"`, untouched()}},
			want:  "import React from \"react\";\n",
		},
		{
			name: "deleted statement removes its whole line",
			text: "import a from \"./a\";\nimport b from \"./b\";\nb();\n",
			edits: []edit{
				{`import a from "./a";`, `"./a"`, untouched()},
				{`import b from "./b";`, `"./b"`, deleted()},
			},
			want: "import a from \"./a\";\nb();\n",
		},
		{
			name:  "deleted statement with trailing comment removes the line",
			text:  "import b from \"./b\"; // legacy\nrun();\n",
			edits: []edit{{`import b from "./b";`, `"./b"`, deleted()}},
			want:  "run();\n",
		},
		{
			name:  "deleted statement sharing a line with code keeps the code",
			text:  "import b from \"./b\"; run();\n",
			edits: []edit{{`import b from "./b";`, `"./b"`, deleted()}},
			want:  " run();\n",
		},
		{
			name:  "deleted statement on last line without newline",
			text:  "run();\nimport b from \"./b\";",
			edits: []edit{{`import b from "./b";`, `"./b"`, deleted()}},
			want:  "run();\n",
		},
		{
			name:  "deleted statement with CRLF line ending",
			text:  "import b from \"./b\";\r\nrun();\r\n",
			edits: []edit{{`import b from "./b";`, `"./b"`, deleted()}},
			want:  "run();\r\n",
		},
		{
			name:  "deleted indented statement",
			text:  "  \timport b from \"./b\";\nrun();\n",
			edits: []edit{{`import b from "./b";`, `"./b"`, deleted()}},
			want:  "run();\n",
		},
		{
			name:  "deleted multi-line statement",
			text:  "import {\n  a,\n  b\n} from \"./b\";\nrun();\n",
			edits: []edit{{"import {\n  a,\n  b\n} from \"./b\";", `"./b"`, deleted()}},
			want:  "run();\n",
		},
		{
			name: "two deletions on one line collapse the line",
			text: "import a from \"./a\"; import b from \"./b\";\nrun();\n",
			edits: []edit{
				{`import a from "./a";`, `"./a"`, deleted()},
				{`import b from "./b";`, `"./b"`, deleted()},
			},
			want: "run();\n",
		},
		{
			name:  "moved target with quotes is escaped",
			text:  "import q from \"./q\";\n",
			edits: []edit{{`import q from "./q";`, `"./q"`, moved(`we"ird\path`)}},
			want:  "import q from \"we\\\"ird\\\\path\";\n",
		},
		{
			name:  "moved target keeps html characters",
			text:  "import q from \"./q\";\n",
			edits: []edit{{`import q from "./q";`, `"./q"`, moved("a&b<c>")}},
			want:  "import q from \"a&b<c>\";\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edits := make([]Edit, len(tt.edits))
			for i, e := range tt.edits {
				edits[i] = Edit{Record: recordFor(t, tt.text, e.statement, e.specifier), Resolution: e.res}
			}

			got, err := NewSourceEditor().ApplyEdits(tt.text, edits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

const threeImports = "import a from \"./a\";\n" +
	"import b from \"./b\";\n" +
	"import c from \"./c\";\n" +
	"run(a, c);\n"

func threeImportEdits(t *testing.T) []Edit {
	t.Helper()
	return []Edit{
		{Record: recordFor(t, threeImports, `import a from "./a";`, `"./a"`), Resolution: moved("lib/alpha")},
		{Record: recordFor(t, threeImports, `import b from "./b";`, `"./b"`), Resolution: deleted()},
		{Record: recordFor(t, threeImports, `import c from "./c";`, `"./c"`), Resolution: moved("x")},
	}
}

func TestSourceEditor_AppliesEditsInDescendingOrder(t *testing.T) {
	want := "import a from \"lib/alpha\";\n" +
		"import c from \"x\";\n" +
		"run(a, c);\n"

	edits := threeImportEdits(t)
	got, err := NewSourceEditor().ApplyEdits(threeImports, edits)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Input order must not matter and must not be changed.
	reversed := []Edit{edits[2], edits[0], edits[1]}
	got, err = NewSourceEditor().ApplyEdits(threeImports, reversed)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "./c", reversed[0].Record.Specifier)
	assert.Equal(t, "./a", reversed[1].Record.Specifier)
}

// Regression: splicing in declaration order reads offsets that earlier
// edits have already shifted.
func TestSourceEditor_AscendingOrderCorruptsText(t *testing.T) {
	want := "import a from \"lib/alpha\";\n" +
		"import c from \"x\";\n" +
		"run(a, c);\n"

	got, err := applyInOrder(threeImports, threeImportEdits(t))
	assert.True(t, err != nil || got != want,
		"ascending application unexpectedly produced the correct text")

	got, err = applyInOrder(threeImports, descending(threeImportEdits(t)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSourceEditor_RejectsInvalidEdits(t *testing.T) {
	text := "import a from \"./a\";\n"
	rec := recordFor(t, text, `import a from "./a";`, `"./a"`)

	tests := []struct {
		name  string
		edits []Edit
	}{
		{
			name: "statement beyond text",
			edits: []Edit{{
				Record:     valueobject.ImportRecord{Specifier: "x", SpecifierStart: 0, SpecifierEnd: 3, StatementStart: 0, StatementEnd: 100},
				Resolution: deleted(),
			}},
		},
		{
			name: "overlapping statements",
			edits: []Edit{
				{Record: rec, Resolution: deleted()},
				{Record: rec, Resolution: moved("z")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSourceEditor().ApplyEdits(text, tt.edits)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidEdit)
		})
	}
}

func TestSourceEditor_Rewrite(t *testing.T) {
	text := "import b from \"./b\";\nimport gone from \"./gone\";\nb();\n"
	file, err := valueobject.NewSourceFile("javascripts/a/x.js", text, []valueobject.ImportRecord{
		recordFor(t, text, `import b from "./b";`, `"./b"`),
		recordFor(t, text, `import gone from "./gone";`, `"./gone"`),
	})
	require.NoError(t, err)

	got, err := NewSourceEditor().Rewrite(file, []valueobject.Resolution{moved("c/d"), deleted()})
	require.NoError(t, err)
	assert.Equal(t, "import b from \"c/d\";\nb();\n", got)
	assert.Equal(t, text, file.Text(), "the snapshot must not change")

	_, err = NewSourceEditor().Rewrite(file, []valueobject.Resolution{moved("c/d")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidEdit)
}
