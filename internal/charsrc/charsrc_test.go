package charsrc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, src Source) string {
	t.Helper()
	var b strings.Builder
	for src.DataAvailable() {
		chunk, err := src.Read()
		require.NoError(t, err)
		if chunk == "" {
			break
		}
		b.WriteString(chunk)
	}
	return b.String()
}

func TestNewStringNormalizesLineEndings(t *testing.T) {
	src := NewString("doc.xml", "a\r\nb\rc\nd")
	assert.Equal(t, "a\nb\nc\nd", readAll(t, src))
	assert.Equal(t, "UTF-8", src.DeclaredEncoding())
	assert.Equal(t, "doc.xml", src.SystemID())
}

func TestNewFileDetectsUTF8BOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("<root/>")...)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	src, err := NewFile(path, "")
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "<root/>", readAll(t, src))
	assert.Equal(t, "UTF-8", src.DeclaredEncoding())
}

func TestNewFileDetectsUTF16LEBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")

	text := "<root/>"
	var buf []byte
	buf = append(buf, 0xFF, 0xFE)
	for _, r := range text {
		buf = append(buf, byte(r), 0x00)
	}
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	src, err := NewFile(path, "")
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, text, readAll(t, src))
	assert.Equal(t, "UTF-16LE", src.DeclaredEncoding())
}

func TestNewFileMissingReturnsError(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "missing.xml"), "")
	assert.Error(t, err)
}

func TestNewFileRejectsUnsupportedDeclaredEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte("<root/>"), 0o644))

	_, err := NewFile(path, "not-a-real-charset")
	assert.Error(t, err)
	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte("<root/>"), 0o644))

	src, err := NewFile(path, "")
	require.NoError(t, err)
	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
}
