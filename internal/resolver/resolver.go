// =============================================================================
// POS Receipt Converter - Input Resolver
// =============================================================================
//
// The POS writes each export into a numbered spill directory under the system
// temp directory. When the primary directory is busy it falls over to
// "<base>.1", "<base>.2", and so on. The resolver probes those locations in
// order and returns the first file that exists for a receipt key.
//
// PROBE ORDER (base "S11", 10 probes):
//   <temp>/S11/<key>.txt
//   <temp>/S11.1/<key>.txt
//   ...
//   <temp>/S11.9/<key>.txt
//
// =============================================================================

package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInputNotFound is returned when no probed location holds the export.
var ErrInputNotFound = errors.New("input file not found")

// Default probe settings.
const (
	DefaultBaseDir   = "S11"
	DefaultMaxProbes = 10
	DefaultExtension = ".txt"
)

// Resolver locates the export file for a receipt key.
type Resolver struct {
	// TempDir is the directory holding the spill directories.
	// Default: os.TempDir()
	TempDir string

	// BaseDir is the un-suffixed spill directory name.
	BaseDir string

	// MaxProbes bounds the number of locations tried, the un-suffixed one
	// included.
	MaxProbes int

	// Extension is appended to the receipt key to form the file name.
	Extension string
}

// New creates a Resolver, filling unset values with the defaults.
func New(tempDir, baseDir string, maxProbes int, extension string) *Resolver {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if maxProbes <= 0 {
		maxProbes = DefaultMaxProbes
	}
	if extension == "" {
		extension = DefaultExtension
	}

	return &Resolver{
		TempDir:   tempDir,
		BaseDir:   baseDir,
		MaxProbes: maxProbes,
		Extension: extension,
	}
}

// Candidates returns every location probed for key, in probe order.
func (r *Resolver) Candidates(key string) []string {
	paths := make([]string, 0, r.MaxProbes)
	for i := 0; i < r.MaxProbes; i++ {
		dir := r.BaseDir
		if i > 0 {
			dir = fmt.Sprintf("%s.%d", r.BaseDir, i)
		}
		paths = append(paths, filepath.Join(r.TempDir, dir, key+r.Extension))
	}
	return paths
}

// Resolve returns the first candidate that is a regular file.
//
// RETURNS:
//   - The resolved path.
//   - ErrInputNotFound (wrapped with the key) when every probe misses.
func (r *Resolver) Resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty receipt key", ErrInputNotFound)
	}

	for _, path := range r.Candidates(key) {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: %s (tried %d locations under %s)",
		ErrInputNotFound, key, r.MaxProbes, filepath.Join(r.TempDir, r.BaseDir))
}
