package typesxml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogResolvePrefersPublicOverSystem(t *testing.T) {
	c := NewCatalog()
	c.Add(true, "-//X//Y", "/from-public.dtd")
	c.Add(false, "sys.dtd", "/from-system.dtd")

	path, ok := c.Resolve("-//X//Y", "sys.dtd")
	require.True(t, ok)
	assert.Equal(t, "/from-public.dtd", path)
}

func TestCatalogResolveFallsBackToSystem(t *testing.T) {
	c := NewCatalog()
	c.Add(false, "sys.dtd", "/from-system.dtd")

	path, ok := c.Resolve("", "sys.dtd")
	require.True(t, ok)
	assert.Equal(t, "/from-system.dtd", path)
}

func TestCatalogResolveNoMatch(t *testing.T) {
	c := NewCatalog()
	_, ok := c.Resolve("missing", "missing.dtd")
	assert.False(t, ok)
}

func TestLoadCatalogFileParsesPublicAndSystemLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.txt")
	content := "# comment\n\nPUBLIC \"-//X//Y\" \"x.dtd\"\nSYSTEM \"y.dtd\" \"y-resolved.dtd\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadCatalogFile(path)
	require.NoError(t, err)

	resolved, ok := c.Resolve("-//X//Y", "")
	require.True(t, ok)
	assert.Equal(t, "x.dtd", resolved)

	resolved, ok = c.Resolve("", "y.dtd")
	require.True(t, ok)
	assert.Equal(t, "y-resolved.dtd", resolved)
}

func TestLoadCatalogFileRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.txt")
	require.NoError(t, os.WriteFile(path, []byte("BOGUS entry\n"), 0o644))

	_, err := LoadCatalogFile(path)
	assert.Error(t, err)
}
