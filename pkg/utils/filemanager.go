// =============================================================================
// POS Receipt Converter - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a converted receipt:
//   - Writing the rendered receipt to the backup output file
//   - Archiving a copy under a unique, placeholder-based name
//   - Pruning archives older than the retention window
//   - Small file helpers
//
// ARCHIVAL STRATEGY:
//   - The backup output file is overwritten on every run
//   - Archive copies are never overwritten (names carry a UUID)
//   - Archives can be kept in date-based subdirectories (YYYY/MM/DD)
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles persistence of rendered receipts.
type FileManager struct {
	// OutputFile is the backup file rewritten with every receipt.
	OutputFile string

	// ArchiveDir receives a uniquely named copy of each receipt.
	// Empty disables archiving.
	ArchiveDir string

	// ArchiveNameFormat names archive copies. See GenerateOutputFileName.
	ArchiveNameFormat string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: archive/2024/01/15/0001_20240115_143022_<uuid>.txt
	UseTimestampSubdirs bool

	// now is the clock used for names and subdirectories.
	now func() time.Time
}

// NewFileManager creates a FileManager.
func NewFileManager(outputFile, archiveDir, archiveNameFormat string) *FileManager {
	if archiveNameFormat == "" {
		archiveNameFormat = "{key}_{timestamp}_{uuid}.txt"
	}
	return &FileManager{
		OutputFile:        outputFile,
		ArchiveDir:        archiveDir,
		ArchiveNameFormat: archiveNameFormat,
		now:               time.Now,
	}
}

// =============================================================================
// BACKUP OUTPUT
// =============================================================================

// WriteOutput writes the receipt to the backup output file, creating its
// directory if needed.
//
// RETURNS:
//   - The path written.
//   - An error if the file cannot be written.
func (fm *FileManager) WriteOutput(document []byte) (string, error) {
	if fm.OutputFile == "" {
		return "", fmt.Errorf("no output file configured")
	}

	if dir := filepath.Dir(fm.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(fm.OutputFile, document, 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}

	return fm.OutputFile, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveDocument copies the written output file into the archive.
//
// PARAMETERS:
//   - sourcePath: The backup file to copy.
//   - key: The receipt key, used for the {key} placeholder.
//
// RETURNS:
//   - The archive path, or "" when archiving is disabled.
//   - An error if archival fails.
func (fm *FileManager) ArchiveDocument(sourcePath, key string) (string, error) {
	if fm.ArchiveDir == "" {
		return "", nil
	}

	name := GenerateOutputFileName(fm.ArchiveNameFormat, map[string]string{"key": key}, fm.now())
	archivePath := fm.getArchivePath(name)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := copyFile(sourcePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file name.
func (fm *FileManager) getArchivePath(fileName string) string {
	if fm.UseTimestampSubdirs {
		now := fm.now()
		return filepath.Join(
			fm.ArchiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
			fileName,
		)
	}

	return filepath.Join(fm.ArchiveDir, fileName)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique archive file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Date (YYYYMMDD)
//               {time}      - Time (HHMMSS)
//               {key}       - Receipt key
//   - params: Additional placeholder values.
//   - now: The time used for the date placeholders.
//
// EXAMPLE:
//   format: "{key}_{timestamp}_{uuid}.txt"
//   params: {"key": "0001"}
//   output: "0001_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.txt"
func GenerateOutputFileName(format string, params map[string]string, now time.Time) string {
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = sanitizeName(value)
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), ".txt") {
		result += ".txt"
	}

	return result
}

// sanitizeName keeps path separators out of placeholder values.
func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, s)
}

// =============================================================================
// RETENTION
// =============================================================================

// CleanOldArchives removes archive files older than maxAge.
//
// RETURNS:
//   - The number of files removed.
//   - An error if cleaning fails.
func CleanOldArchives(archiveDir string, maxAge time.Duration) (int, error) {
	if archiveDir == "" || maxAge <= 0 {
		return 0, nil
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(archiveDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}

		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean archives: %w", err)
	}

	return removed, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
