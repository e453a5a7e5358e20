package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExport(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))
	return path
}

func TestCandidates(t *testing.T) {
	r := New("/tmp", "S11", 3, ".txt")

	assert.Equal(t, []string{
		filepath.Join("/tmp", "S11", "42.txt"),
		filepath.Join("/tmp", "S11.1", "42.txt"),
		filepath.Join("/tmp", "S11.2", "42.txt"),
	}, r.Candidates("42"))
}

func TestNew_Defaults(t *testing.T) {
	r := New("", "", 0, "")

	assert.Equal(t, os.TempDir(), r.TempDir)
	assert.Equal(t, DefaultBaseDir, r.BaseDir)
	assert.Equal(t, DefaultMaxProbes, r.MaxProbes)
	assert.Equal(t, DefaultExtension, r.Extension)
}

func TestResolve(t *testing.T) {
	t.Run("un-suffixed directory wins", func(t *testing.T) {
		tmp := t.TempDir()
		want := writeExport(t, filepath.Join(tmp, "S11"), "7.txt")
		writeExport(t, filepath.Join(tmp, "S11.1"), "7.txt")

		got, err := New(tmp, "S11", 10, ".txt").Resolve("7")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("falls through to suffixed directory", func(t *testing.T) {
		tmp := t.TempDir()
		want := writeExport(t, filepath.Join(tmp, "S11.4"), "7.txt")
		writeExport(t, filepath.Join(tmp, "S11.6"), "7.txt")

		got, err := New(tmp, "S11", 10, ".txt").Resolve("7")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("beyond the probe bound is not found", func(t *testing.T) {
		tmp := t.TempDir()
		writeExport(t, filepath.Join(tmp, "S11.3"), "7.txt")

		_, err := New(tmp, "S11", 3, ".txt").Resolve("7")
		assert.ErrorIs(t, err, ErrInputNotFound)
	})

	t.Run("directory named like the export is skipped", func(t *testing.T) {
		tmp := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(tmp, "S11", "7.txt"), 0755))
		want := writeExport(t, filepath.Join(tmp, "S11.1"), "7.txt")

		got, err := New(tmp, "S11", 10, ".txt").Resolve("7")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing key exhausts the bound", func(t *testing.T) {
		_, err := New(t.TempDir(), "S11", 10, ".txt").Resolve("nope")
		assert.ErrorIs(t, err, ErrInputNotFound)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := New(t.TempDir(), "S11", 10, ".txt").Resolve("")
		assert.ErrorIs(t, err, ErrInputNotFound)
	})
}
