package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load(New(""))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file in working directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		write(t, dir, "sigc.yaml", `
compiler:
  prefix: app
build:
  out_dir: public/js
  include:
    - "src/**/*.sig"
watch:
  debounce: 250ms
log:
  level: debug
`)

		cfg, err := Load(New(""))
		require.NoError(t, err)
		assert.Equal(t, "app", cfg.Compiler.Prefix)
		assert.Equal(t, "sig/runtime", cfg.Compiler.RuntimePath)
		assert.Equal(t, "public/js", cfg.Build.OutDir)
		assert.Equal(t, []string{"src/**/*.sig"}, cfg.Build.Include)
		assert.Equal(t, []string{"node_modules/**", ".git/**"}, cfg.Build.Exclude)
		assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("explicit file", func(t *testing.T) {
		p := write(t, t.TempDir(), "custom.yaml", "compiler:\n  runtime_path: ./runtime.js\n")

		cfg, err := Load(New(p))
		require.NoError(t, err)
		assert.Equal(t, "./runtime.js", cfg.Compiler.RuntimePath)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(New(filepath.Join(t.TempDir(), "nope.yaml")))
		assert.ErrorContains(t, err, "reading config")
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		write(t, dir, "sigc.yaml", "compiler:\n  prefix: app\n")
		t.Setenv("SIGC_COMPILER_PREFIX", "env")
		t.Setenv("SIGC_LOG_FORMAT", "json")
		t.Setenv("SIGC_BUILD_EXCLUDE", "vendor/** tmp/**")

		cfg, err := Load(New(""))
		require.NoError(t, err)
		assert.Equal(t, "env", cfg.Compiler.Prefix)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, []string{"vendor/**", "tmp/**"}, cfg.Build.Exclude)
	})

	t.Run("invalid file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		write(t, dir, "sigc.yaml", "log:\n  level: loud\n")

		_, err := Load(New(""))
		assert.ErrorIs(t, err, ErrInvalidLevel)
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Compiler.Prefix = "My-App"
	cfg.Log.Format = "xml"
	cfg.Build.Include = []string{"[a-"}
	cfg.Watch.Debounce = -time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPrefix)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.NotErrorIs(t, err, ErrInvalidLevel)
	assert.ErrorContains(t, err, "debounce")
}

func TestValidPrefix(t *testing.T) {
	for p, ok := range map[string]bool{
		"x":     true,
		"app2":  true,
		"":      false,
		"2app":  false,
		"my-el": false,
		"App":   false,
	} {
		assert.Equal(t, ok, validPrefix(p), p)
	}
}
