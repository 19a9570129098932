// =============================================================================
// Receipt Normalizer - Input File Inspection
// =============================================================================
//
// This module performs the file-level checks that run before any row is
// processed. Problems split into two tiers:
//   - fatal:   missing or empty file; the run aborts with one error
//   - warning: oversized file or unusual extension; the run proceeds and
//              the warning is attached to the pipeline result
//
// The engine never writes files; everything here is read-only inspection.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// expectedExtensions are the input extensions that do not draw a warning.
var expectedExtensions = map[string]bool{
	".csv":  true,
	".txt":  true,
	".xlsx": true,
}

// InspectFile validates existence and size of the input file.
//
// PARAMETERS:
//   - path: the input file supplied by the caller.
//   - maxSizeBytes: the size-warning threshold.
//
// RETURNS:
//   - A slice of warnings (may be empty).
//   - An error for fatal conditions: the file does not exist, cannot be
//     statted, or is empty.
func InspectFile(path string, maxSizeBytes int64) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if info.Size() == 0 {
		return nil, fmt.Errorf("file is empty: %s", path)
	}

	var warnings []string

	if maxSizeBytes > 0 && info.Size() > maxSizeBytes {
		warnings = append(warnings, fmt.Sprintf(
			"large file detected (%.1f MB) - processing may be slow",
			float64(info.Size())/1024/1024))
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !expectedExtensions[ext] {
		warnings = append(warnings, fmt.Sprintf(
			"unusual file extension '%s' - expected .csv", ext))
	}

	return warnings, nil
}

// IsXLSX reports whether the path points at an Excel workbook, which selects
// the workbook reader instead of the delimited-text reader.
func IsXLSX(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".xlsx"
}
