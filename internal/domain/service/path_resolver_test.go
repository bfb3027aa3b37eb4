package service

import (
	"testing"

	"importmover/internal/domain/valueobject"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, raw map[string]valueobject.MoveTarget) *PathResolver {
	t.Helper()
	mm, err := valueobject.NewMoveMap(raw, "javascripts")
	require.NoError(t, err)
	return NewPathResolver(mm)
}

func TestPathResolver_Resolve(t *testing.T) {
	resolver := newTestResolver(t, map[string]valueobject.MoveTarget{
		"a/b":               valueobject.MovedTo("c/d"),
		"a/gone":            valueobject.DeletedTarget(),
		"a/kept":            valueobject.MovedTo(""),
		"x":                 valueobject.MovedTo("from-exact"),
		"x.js":              valueobject.MovedTo("from-js"),
		"lib/util/index.js": valueobject.MovedTo("helpers/util/index.js"),
		"lib/view.jsx":      valueobject.MovedTo("ui/view.jsx"),
		"m/index.js":        valueobject.MovedTo("from-index"),
		"m.js":              valueobject.MovedTo("from-extension"),
		"widgets/index.jsx": valueobject.DeletedTarget(),
	})

	tests := []struct {
		name        string
		specifier   string
		originalDir string
		want        valueobject.Resolution
	}{
		{
			name:        "relative specifier moved",
			specifier:   "./b",
			originalDir: "a",
			want: valueobject.Resolution{
				Kind: valueobject.Moved, Specifier: "./b", Target: "c/d", Candidate: "a/b", Relative: true,
			},
		},
		{
			name:        "relative specifier deleted",
			specifier:   "./gone",
			originalDir: "a",
			want: valueobject.Resolution{
				Kind: valueobject.Deleted, Specifier: "./gone", Candidate: "a/gone", Relative: true,
			},
		},
		{
			name:        "empty destination leaves import untouched",
			specifier:   "./kept",
			originalDir: "a",
			want: valueobject.Resolution{
				Kind: valueobject.Untouched, Specifier: "./kept", Candidate: "a/kept", Relative: true,
			},
		},
		{
			name:        "exact key wins over .js key",
			specifier:   "x",
			originalDir: "anything",
			want: valueobject.Resolution{
				Kind: valueobject.Moved, Specifier: "x", Target: "from-exact", Candidate: "x",
			},
		},
		{
			name:        "index.js candidate wins over .js candidate",
			specifier:   "m",
			originalDir: ".",
			want: valueobject.Resolution{
				Kind: valueobject.Moved, Specifier: "m", Target: "from-index", Candidate: "m/index.js",
			},
		},
		{
			name:        "parent relative specifier finds index.js key",
			specifier:   "../lib/util",
			originalDir: "pages",
			want: valueobject.Resolution{
				Kind: valueobject.Moved, Specifier: "../lib/util", Target: "helpers/util", Candidate: "lib/util/index.js", Relative: true,
			},
		},
		{
			name:        "non-relative specifier finds .jsx key",
			specifier:   "lib/view",
			originalDir: "pages",
			want: valueobject.Resolution{
				Kind: valueobject.Moved, Specifier: "lib/view", Target: "ui/view", Candidate: "lib/view.jsx",
			},
		},
		{
			name:        "index.jsx key deleted",
			specifier:   "./widgets",
			originalDir: ".",
			want: valueobject.Resolution{
				Kind: valueobject.Deleted, Specifier: "./widgets", Candidate: "widgets/index.jsx", Relative: true,
			},
		},
		{
			name:        "package specifier untouched",
			specifier:   "react",
			originalDir: "a",
			want:        valueobject.Resolution{Kind: valueobject.Untouched, Specifier: "react"},
		},
		{
			name:        "already rewritten destination untouched",
			specifier:   "c/d",
			originalDir: "a",
			want:        valueobject.Resolution{Kind: valueobject.Untouched, Specifier: "c/d"},
		},
		{
			name:        "empty specifier untouched",
			specifier:   "",
			originalDir: "a",
			want:        valueobject.Resolution{Kind: valueobject.Untouched, Specifier: ""},
		},
		{
			name:        "relative specifier resolved against wrong directory misses",
			specifier:   "./b",
			originalDir: "c",
			want:        valueobject.Resolution{Kind: valueobject.Untouched, Specifier: "./b", Relative: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Resolve(tt.specifier, tt.originalDir))
		})
	}
}

func TestPathResolver_OriginalDir(t *testing.T) {
	resolver := newTestResolver(t, map[string]valueobject.MoveTarget{
		"pages/home.js": valueobject.MovedTo("views/home/index.js"),
		"root.js":       valueobject.MovedTo("app/root.js"),
	})

	assert.Equal(t, "pages", resolver.OriginalDir("javascripts/views/home/index.js"))
	assert.Equal(t, ".", resolver.OriginalDir("javascripts/app/root.js"))
	assert.Equal(t, "javascripts/misc", resolver.OriginalDir("javascripts/misc/other.js"))
}

func TestPathResolver_UsesOriginalNotCurrentDirectory(t *testing.T) {
	resolver := newTestResolver(t, map[string]valueobject.MoveTarget{
		"a/x.js": valueobject.MovedTo("z/x.js"),
		"a/b":    valueobject.MovedTo("c/d"),
	})

	dir := resolver.OriginalDir("javascripts/z/x.js")
	require.Equal(t, "a", dir)

	res := resolver.Resolve("./b", dir)
	assert.Equal(t, valueobject.Moved, res.Kind)
	assert.Equal(t, "c/d", res.Target)
}

func TestCandidates(t *testing.T) {
	assert.Equal(t,
		[]string{"a/b", "a/b/index.js", "a/b/index.jsx", "a/b.js", "a/b.jsx"},
		Candidates("a/b"),
	)
}
