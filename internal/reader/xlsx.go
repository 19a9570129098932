// =============================================================================
// Receipt Normalizer - XLSX Workbook Reader
// =============================================================================
//
// Some landlords send Excel workbooks instead of CSV exports. This module
// reads the first sheet of a .xlsx file into the same header+rows shape the
// delimited reader produces, so the rest of the pipeline is format-agnostic.
//
// Only plain tabular sheets are supported: first row is the header, every
// following non-empty row is data. Workbook-specific cleverness (merged
// cells, cross-column heuristics) is out of scope here.
//
// =============================================================================

package reader

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first sheet of an Excel workbook.
//
// RETURNS:
//   - The parsed Input, shaped exactly like a delimited-file read.
//   - An error if the workbook cannot be opened or has no usable sheet.
func ReadXLSX(path string) (*Input, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	allRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheet, err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("sheet '%s' has no header line", sheet)
	}

	headers := cleanHeaders(allRows[0])

	input := &Input{
		Headers:    headers,
		Encoding:   "utf-8",
		SourceFile: path,
	}

	for i, row := range allRows[1:] {
		if isRowEmpty(row) {
			continue
		}
		input.Rows = append(input.Rows, buildRow(i+1, headers, row))
	}

	return input, nil
}
