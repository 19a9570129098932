// =============================================================================
// Receipt Normalizer - Delimited File Reader
// =============================================================================
//
// This module reads a landlord-supplied delimited text file in a single pass
// and hands the engine a header list plus ordered raw rows. It deals with the
// messy outer layer of the input so the rest of the pipeline never has to:
//   - Encoding: UTF-8 (with or without BOM), falling back to Windows-1252
//     when the bytes are not valid UTF-8
//   - Delimiter: auto-detected among comma, semicolon, tab and pipe
//   - Quoting: lenient, since landlord exports rarely follow strict CSV rules
//
// The raw bytes are not retained after the initial read; the caller gets
// O(rows) of parsed cells and nothing else.
//
// =============================================================================

package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/recibos-tools/receipt-normalizer/internal/types"
)

// delimiterCandidates are the separators considered during detection,
// in preference order for ties.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// =============================================================================
// INPUT STRUCTURE
// =============================================================================

// Input is the parsed content of one file: the header line plus every
// non-empty data row, in file order.
type Input struct {
	// Headers contains the trimmed column headers from the first line.
	Headers []string

	// Rows contains the data rows. Row numbers are 1-based from the first
	// data line; all-empty lines are skipped but still consume a number so
	// reported rows stay aligned with the file.
	Rows []types.RawRow

	// Delimiter is the separator the detector settled on.
	Delimiter rune

	// Encoding names the encoding the bytes were decoded with
	// ("utf-8" or "windows-1252").
	Encoding string

	// SourceFile is the path the input came from.
	SourceFile string
}

// =============================================================================
// CSV READING
// =============================================================================

// ReadCSV reads and parses a delimited text file.
//
// RETURNS:
//   - The parsed Input.
//   - An error if the file cannot be read, is empty, or has no header line.
func ReadCSV(path string, data []byte) (*Input, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	text, encoding := decodeBytes(data)

	delimiter := detectDelimiter(text)

	csvReader := csv.NewReader(strings.NewReader(text))
	configureReader(csvReader, delimiter)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited data: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("file has no header line")
	}

	headers := cleanHeaders(allRows[0])

	input := &Input{
		Headers:    headers,
		Delimiter:  delimiter,
		Encoding:   encoding,
		SourceFile: path,
	}

	// Data rows are numbered from 1 starting at the line after the header.
	for i, row := range allRows[1:] {
		if isRowEmpty(row) {
			continue
		}
		input.Rows = append(input.Rows, buildRow(i+1, headers, row))
	}

	return input, nil
}

// configureReader applies the lenient settings landlord exports need.
func configureReader(r *csv.Reader, delimiter rune) {
	r.Comma = delimiter

	// Rows with a missing trailing cell are common; pad instead of failing.
	r.FieldsPerRecord = -1

	// Quotes that don't follow strict CSV rules.
	r.LazyQuotes = true

	// With a tab delimiter, TrimLeadingSpace reads the tab that terminates
	// an empty cell as leading space of the next one and shifts every later
	// column. Cells are trimmed in buildRow regardless.
	r.TrimLeadingSpace = delimiter != '\t'
}

// buildRow converts one record into a RawRow, padding missing trailing cells
// with empty values so every row is addressable by every header.
func buildRow(rowNumber int, headers []string, record []string) types.RawRow {
	cells := make([]types.Cell, len(headers))
	for i, header := range headers {
		value := ""
		if i < len(record) {
			value = strings.TrimSpace(record[i])
		}
		cells[i] = types.Cell{Header: header, Value: value}
	}
	return types.RawRow{RowNumber: rowNumber, Cells: cells}
}

// cleanHeaders trims headers and names any blank ones by position, so a
// blank column can still be referenced in error messages.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// ENCODING DETECTION
// =============================================================================

// decodeBytes decodes the raw file bytes into a string.
//
// DETECTION STRATEGY (simple fallback, no external detector):
//  1. Strip a UTF-8 BOM if present.
//  2. If the bytes are valid UTF-8, use them as-is.
//  3. Otherwise decode as Windows-1252, which covers the Latin-1-family
//     exports produced by older Portuguese spreadsheet tools.
func decodeBytes(data []byte) (string, string) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if utf8.Valid(data) {
		return string(data), "utf-8"
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		// Windows-1252 decoding cannot actually fail (every byte maps),
		// but fall back to a lossy UTF-8 interpretation just in case.
		return string(data), "utf-8"
	}
	return string(decoded), "windows-1252"
}

// =============================================================================
// DELIMITER DETECTION
// =============================================================================

// detectDelimiter picks the candidate separator occurring most often on the
// header line, counting only occurrences outside double quotes. Comma wins
// ties, matching the candidate order.
func detectDelimiter(text string) rune {
	headerLine := text
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		headerLine = text[:idx]
	}

	best := ','
	bestCount := 0
	for _, candidate := range delimiterCandidates {
		count := countUnquoted(headerLine, candidate)
		if count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

// countUnquoted counts occurrences of sep outside double-quoted sections.
func countUnquoted(line string, sep rune) int {
	count := 0
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == sep && !inQuotes:
			count++
		}
	}
	return count
}
