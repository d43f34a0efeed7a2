package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	for _, tc := range []struct {
		pattern, name string
		ok            bool
	}{
		{"**/*.sig", "a.sig", true},
		{"**/*.sig", "src/ui/a.sig", true},
		{"**/*.sig", "a.js", false},
		{"src/*.sig", "src/a.sig", true},
		{"src/*.sig", "src/ui/a.sig", false},
		{"src/**/button.sig", "src/button.sig", true},
		{"src/**/button.sig", "src/a/b/button.sig", true},
		{"node_modules/**", "node_modules/", true},
		{"node_modules/**", "node_modules/pkg/a.sig", true},
		{"node_modules/**", "src/node_modules/a.sig", false},
	} {
		assert.Equal(t, tc.ok, match(tc.pattern, tc.name), "%s ~ %s", tc.pattern, tc.name)
	}
}

func TestSources(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{
		"app.sig",
		"readme.md",
		"ui/button.sig",
		"node_modules/lib/skip.sig",
	} {
		full := filepath.Join(dir, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}

	files, err := sources([]string{dir}, []string{"**/*.sig"}, []string{"node_modules/**"})
	require.NoError(t, err)

	var got []string
	for _, f := range files {
		assert.Equal(t, dir, f.Root)
		rel, _ := filepath.Rel(dir, f.Path)
		got = append(got, filepath.ToSlash(rel))
	}
	assert.ElementsMatch(t, []string{"app.sig", "ui/button.sig"}, got)

	t.Run("explicit files bypass patterns", func(t *testing.T) {
		skip := filepath.Join(dir, "node_modules", "lib", "skip.sig")
		files, err := sources([]string{skip, skip}, []string{"**/*.sig"}, []string{"node_modules/**"})
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, filepath.Dir(skip), files[0].Root)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := sources([]string{filepath.Join(dir, "nope")}, nil, nil)
		assert.Error(t, err)
	})
}

func TestOutput(t *testing.T) {
	assert.Equal(t, filepath.Join("dist", "ui", "button.js"), output("dist", "src", filepath.Join("src", "ui", "button.sig")))
	assert.Equal(t, filepath.Join("dist", "app.js"), output("dist", "src", "app.sig"))
}
