// =============================================================================
// Receipt Normalizer - Shared Types
// =============================================================================
//
// This package contains the shared domain and result types used across the
// pipeline modules. Types defined here are used by:
//   - mapping (column resolution)
//   - fields (per-field parsing)
//   - engine (row validation / orchestration)
//   - insights (dataset aggregation)
//
// Everything in this package is a plain value type. Records and outcomes are
// never mutated after they are produced by the engine.
//
// =============================================================================

package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CANONICAL FIELDS
// =============================================================================

// CanonicalField identifies one of the six logical columns every accepted
// receipt record populates. The string values double as the stable names
// used in mapping profiles, reports and log output.
type CanonicalField string

const (
	FieldContractID  CanonicalField = "contractId"
	FieldFromDate    CanonicalField = "fromDate"
	FieldToDate      CanonicalField = "toDate"
	FieldReceiptType CanonicalField = "receiptType"
	FieldValue       CanonicalField = "value"
	FieldPaymentDate CanonicalField = "paymentDate"
)

// AllFields lists every canonical field in resolution order: required fields
// first, so they get first claim on headers during fuzzy matching.
func AllFields() []CanonicalField {
	return []CanonicalField{
		FieldContractID,
		FieldFromDate,
		FieldToDate,
		FieldReceiptType,
		FieldValue,
		FieldPaymentDate,
	}
}

// RequiredFields lists the fields that must resolve to a source column for
// the file to be processed at all.
func RequiredFields() []CanonicalField {
	return []CanonicalField{FieldContractID, FieldFromDate, FieldToDate}
}

// IsRequired reports whether the field must be present in the column mapping.
func (f CanonicalField) IsRequired() bool {
	switch f {
	case FieldContractID, FieldFromDate, FieldToDate:
		return true
	}
	return false
}

// IsValid reports whether f is one of the six canonical fields.
func (f CanonicalField) IsValid() bool {
	switch f {
	case FieldContractID, FieldFromDate, FieldToDate,
		FieldReceiptType, FieldValue, FieldPaymentDate:
		return true
	}
	return false
}

// String returns the stable name of the field.
func (f CanonicalField) String() string {
	return string(f)
}

// =============================================================================
// RAW INPUT TYPES
// =============================================================================

// Cell is a single value of a data row, paired with the header it was read
// under. Cells keep their original file order.
type Cell struct {
	// Header is the original (trimmed) header text of this column.
	Header string

	// Value is the trimmed cell text.
	Value string
}

// RawRow is the ordered cell values of one data line.
//
// RowNumber is 1-based, counted from the first data line (the line after the
// header), and is stable for the lifetime of the run.
type RawRow struct {
	RowNumber int
	Cells     []Cell
}

// Get returns the value of the cell under the given original header.
// When the same header occurs more than once, the first occurrence wins.
// A header that is absent from the row yields the empty string.
func (r RawRow) Get(header string) string {
	for _, c := range r.Cells {
		if c.Header == header {
			return c.Value
		}
	}
	return ""
}

// =============================================================================
// RECEIPT RECORD
// =============================================================================

// ReceiptRecord is one accepted, normalized receipt row. It is immutable
// once created by the engine.
//
// Dates are plain calendar dates serialized as ISO "YYYY-MM-DD" strings,
// which makes range comparisons safe as plain string comparisons.
type ReceiptRecord struct {
	ContractID  string
	FromDate    string
	ToDate      string
	ReceiptType string
	Value       decimal.Decimal
	PaymentDate string

	// Defaulted flags record values that were invented rather than parsed:
	// a blank payment date filled from ToDate, a blank/unparseable value set
	// to zero, a blank receipt type set to "rent".
	PaymentDateDefaulted bool
	ValueDefaulted       bool
	ReceiptTypeDefaulted bool

	// RowNumber is the 1-based data row this record came from.
	RowNumber int
}

// =============================================================================
// VALIDATION OUTCOME TYPES
// =============================================================================

// FieldCorrection records a single deterministic change the engine made to a
// cell: a date reformat, a defaulted value, a cleaned contract id. Every
// correction is also surfaced as a row warning; nothing is changed silently.
type FieldCorrection struct {
	RowNumber int
	Field     CanonicalField
	Original  string
	Corrected string
}

// String renders the correction the way it appears in warnings.
func (c FieldCorrection) String() string {
	return fmt.Sprintf("%s: '%s' -> '%s'", c.Field, c.Original, c.Corrected)
}

// ValidationOutcome is the per-row result of field extraction and
// validation. A row with one or more hard errors is rejected and contributes
// no ReceiptRecord; warnings never reject a row.
type ValidationOutcome struct {
	RowNumber   int
	IsValid     bool
	Errors      []string
	Warnings    []string
	Corrections []FieldCorrection
}

// RowMessage is one error or warning attributed to a row and, when known,
// a specific field. Used by ValidationReport.
type RowMessage struct {
	RowNumber int
	Field     CanonicalField
	Message   string
}

// ValidationReport collects every row-level error, warning and correction of
// a run, keyed by row number, for UI display and report export.
type ValidationReport struct {
	TotalRows   int
	ValidRows   int
	ErrorRows   int
	WarningRows int

	Errors   []RowMessage
	Warnings []RowMessage

	// Corrections maps a row number to the corrections applied to that row.
	Corrections map[int][]FieldCorrection
}

// =============================================================================
// DATASET INSIGHTS
// =============================================================================

// DateRange is the ISO-string min/max over all from/to dates of accepted
// records. Empty strings mean no accepted records carried dates.
type DateRange struct {
	Start string
	End   string
}

// ValueRange is the min/max over the positive values of accepted records.
type ValueRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// DatasetInsights is the aggregate view computed once, after every row has
// been processed. It is presentation-only: nothing here feeds back into
// accept/reject decisions.
type DatasetInsights struct {
	TotalRows   int
	ValidRows   int
	ErrorRows   int
	WarningRows int

	// SuccessRate is ValidRows/TotalRows*100, or 0 for an empty dataset.
	SuccessRate float64

	UniqueContracts int
	DateRange       DateRange
	ValueRange      ValueRange

	// ReceiptTypes is the frequency histogram of receipt types over
	// accepted records.
	ReceiptTypes map[string]int

	// DefaultedValues counts, per field, how many accepted records carry a
	// defaulted value for that field.
	DefaultedValues map[CanonicalField]int

	// ColumnCompleteness is, per mapped field, the fraction of accepted
	// records with a usable (non-empty, for Value: non-zero) value.
	ColumnCompleteness map[CanonicalField]float64

	// CorrectedRows is the number of rows that received at least one
	// auto-correction.
	CorrectedRows int

	// QualityScore is a derived 0-100 score blending success rate and
	// column completeness, discounted when corrections pile up.
	QualityScore float64
}

// =============================================================================
// PIPELINE RESULT
// =============================================================================

// PipelineResult is everything one run of the engine produces. The caller
// owns it exclusively; runs never share state.
type PipelineResult struct {
	// RunID uniquely identifies this run in logs and exported reports.
	RunID string

	// SourceFile is the input path, when the run came from a file.
	SourceFile string

	// FileWarnings are file-level soft concerns (size, extension) that do
	// not abort processing.
	FileWarnings []string

	// Mapping is the resolved canonical-field -> source-header mapping.
	Mapping map[CanonicalField]string

	// Records holds the accepted rows, in input order.
	Records []ReceiptRecord

	// Outcomes holds one entry per processed data row, in input order.
	Outcomes []ValidationOutcome

	Report   ValidationReport
	Insights DatasetInsights
}
