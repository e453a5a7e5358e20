package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager(filepath.Join(dir, "nested", "output.txt"), "", "")

	path, err := fm.WriteOutput([]byte("receipt"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "receipt", string(data))

	_, err = fm.WriteOutput([]byte("second"))
	require.NoError(t, err)
	data, _ = os.ReadFile(path)
	assert.Equal(t, "second", string(data))
}

func TestWriteOutput_NoFile(t *testing.T) {
	_, err := NewFileManager("", "", "").WriteOutput([]byte("x"))
	assert.Error(t, err)
}

func TestArchiveDocument(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager(filepath.Join(dir, "output.txt"), filepath.Join(dir, "archive"), "")
	fm.UseTimestampSubdirs = true
	fm.now = func() time.Time { return time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC) }

	src, err := fm.WriteOutput([]byte("receipt"))
	require.NoError(t, err)

	archived, err := fm.ArchiveDocument(src, "0001")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "archive", "2024", "01", "15"), filepath.Dir(archived))
	assert.True(t, strings.HasPrefix(filepath.Base(archived), "0001_20240115_143022_"))
	assert.True(t, FileExists(archived))
	assert.True(t, FileExists(src))
}

func TestArchiveDocument_Disabled(t *testing.T) {
	fm := NewFileManager("output.txt", "", "")
	path, err := fm.ArchiveDocument("output.txt", "1")
	assert.NoError(t, err)
	assert.Empty(t, path)
}

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	a := GenerateOutputFileName("{key}_{date}_{uuid}", map[string]string{"key": "a/b"}, now)
	b := GenerateOutputFileName("{key}_{date}_{uuid}", map[string]string{"key": "a/b"}, now)

	assert.True(t, strings.HasPrefix(a, "a_b_20240115_"))
	assert.True(t, strings.HasSuffix(a, ".txt"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, "receipt_143022.txt", GenerateOutputFileName("receipt_{time}.txt", nil, now))
}

func TestCleanOldArchives(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.txt")
	fresh := filepath.Join(dir, "fresh.txt")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0644))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	removed, err := CleanOldArchives(dir, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, FileExists(old))
	assert.True(t, FileExists(fresh))

	removed, err = CleanOldArchives("", time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, removed)
}
