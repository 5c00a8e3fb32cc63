package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pico/internal/lexer"
)

func writeManifest(t *testing.T, dir, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifestName), []byte(text), 0o600))
}

func TestManifestDiscoveredUpward(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[check]
engine = "automaton"
extension = ".pc"
jobs = 3
max_diagnostics = 0
cache = false

[output]
format = "short"
color = "off"
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	m, ok, err := loadProjectManifest(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, root, m.Root)
	assert.Equal(t, "automaton", m.Config.Check.Engine)
	assert.Equal(t, ".pc", m.Config.Check.Extension)
	assert.Equal(t, 3, m.Config.Check.Jobs)
	require.NotNil(t, m.Config.Check.MaxDiagnostics)
	assert.Equal(t, 0, *m.Config.Check.MaxDiagnostics)
	require.NotNil(t, m.Config.Check.Cache)
	assert.False(t, *m.Config.Check.Cache)
	assert.Equal(t, "short", m.Config.Output.Format)
}

func TestManifestAbsent(t *testing.T) {
	m, ok, err := loadProjectManifest(t.TempDir())
	require.NoError(t, err)
	if ok {
		// выше temp-директории нашёлся чужой pico.toml
		t.Skipf("unrelated manifest found at %s", m.Path)
	}
	assert.Nil(t, m)
}

func TestManifestValidation(t *testing.T) {
	cases := map[string]string{
		"bad engine":    "[check]\nengine = \"regex\"\n",
		"bad extension": "[check]\nextension = \"pico\"\n",
		"negative jobs": "[check]\njobs = -1\n",
		"unknown key":   "[check]\nengines = \"hand\"\n",
		"bad format":    "[output]\nformat = \"xml\"\n",
		"not toml":      "[check\n",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, text)
			_, ok, err := loadProjectManifest(dir)
			assert.True(t, ok)
			assert.Error(t, err)
		})
	}
}

func TestManifestFeedsCheckSettings(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[check]\nengine = \"automaton\"\njobs = 2\n[output]\nformat = \"json\"\n")
	m, _, err := loadProjectManifest(dir)
	require.NoError(t, err)

	root, _ := newRootCmd()
	check, _, err := root.Find([]string{"check"})
	require.NoError(t, err)
	require.NoError(t, check.ParseFlags([]string{"--format=short"}))

	s, err := readCheckSettings(check, m)
	require.NoError(t, err)
	assert.Equal(t, lexer.EngineAutomaton, s.opts.Engine)
	assert.Equal(t, 2, s.opts.Jobs)
	assert.Equal(t, formatShort, s.format, "flags override the manifest")
	assert.True(t, s.cache)
}
