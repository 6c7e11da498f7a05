package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadWithImports_MissingFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	doc, err := LoadWithImports(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), doc.Config)
}

func TestLoadWithImports_MainDocumentWinsOverImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extra.toml", "[general]\nlog_level = \"warn\"\n")
	writeFile(t, dir, "config.toml", "imports = [\"@extra\"]\n[general]\nlog_level = \"debug\"\n")

	doc, err := LoadWithImports(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", doc.Config.General.LogLevel)
}

func TestLoadWithImports_ImportSuppliesFieldsMainOmits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extra.toml", "[modules.clock]\nenabled = false\nformat = \"%H\"\n")
	writeFile(t, dir, "config.toml", "imports = [\"@extra\"]\n[general]\nlog_level = \"debug\"\n")

	doc, err := LoadWithImports(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	require.NotNil(t, doc.Config.Modules.Clock)
	assert.False(t, doc.Config.Modules.Clock.Enabled)
	assert.Equal(t, "%H", doc.Config.Modules.Clock.Format)
}

func TestLoadWithImports_MissingExtensionDefaultsToToml(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "extra.toml", "[general]\nlog_level = \"warn\"\n")
	writeFile(t, dir, "config.toml", "imports = [\"@extra\"]\n")

	doc, err := LoadWithImports(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "warn", doc.Config.General.LogLevel)
}

func TestLoadWithImports_RejectsImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.toml", "imports = [\"@b\"]\n")
	writeFile(t, dir, "b.toml", "imports = [\"@a\"]\n")

	_, err := LoadWithImports(filepath.Join(dir, "a.toml"))
	assert.ErrorIs(t, err, ErrImportCycle)
}

func TestEnsureImport_AppendsOnceAndDeduplicates(t *testing.T) {
	doc := table{}
	doc = ensureImport(doc, "runtime")
	doc = ensureImport(doc, "runtime")

	raw := doc[importsKey].([]any)
	assert.Equal(t, []any{"@runtime"}, raw)
}
