// =============================================================================
// Receipt Normalizer - Core Processing Pipeline
// =============================================================================
//
// Process is the heart of the engine: a pure function from (headers, rows,
// options) to a complete PipelineResult. It holds no state between calls, so
// concurrent callers can share nothing and still be safe.
//
// Error tiers:
//   - File-level: the column mapping cannot resolve a required field. The
//     function returns an error and no partial result.
//   - Row-level hard error: the row is excluded from the record set but
//     processing continues with the next row.
//   - Row-level warning: the row is kept; the message documents an
//     auto-correction, a defaulting action, or a strict-mode soft concern.
//
// A panic while processing one row is caught at the row boundary and turned
// into a hard error for that row alone.
//
// =============================================================================

package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/recibos-tools/receipt-normalizer/internal/config"
	"github.com/recibos-tools/receipt-normalizer/internal/fields"
	"github.com/recibos-tools/receipt-normalizer/internal/insights"
	"github.com/recibos-tools/receipt-normalizer/internal/mapping"
	"github.com/recibos-tools/receipt-normalizer/internal/types"
)

// maxReasonableSpanDays is the rental-period length above which strict mode
// flags a warning.
const maxReasonableSpanDays = 366

// Process runs the full normalization pipeline over already-read input.
//
// PARAMETERS:
//   - headers: the raw header strings, in file order.
//   - rows: the data rows, numbered from 1 at the first data line.
//   - opts: per-call configuration; defaults are applied to a local copy,
//     the caller's value is never mutated.
//
// RETURNS:
//   - The complete PipelineResult: accepted records, per-row outcomes, the
//     aggregate report, and dataset insights.
//   - A file-level error when the column mapping cannot be resolved.
func Process(headers []string, rows []types.RawRow, opts config.Options) (*types.PipelineResult, error) {
	opts.ApplyDefaults()

	resolved, err := mapping.Resolve(headers, opts.ExtraAliases, opts.FuzzyThreshold)
	if err != nil {
		return nil, fmt.Errorf("column mapping failed: %w", err)
	}

	result := &types.PipelineResult{
		Mapping: resolved.AsMap(),
	}

	var states []*rowState
	for _, row := range rows {
		record, state := processRow(row, resolved, opts)
		states = append(states, state)

		outcome := state.outcome()
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.IsValid {
			result.Records = append(result.Records, record)
		}
	}

	result.Report = buildReport(states)
	result.Insights = insights.Compute(result.Outcomes, result.Records, result.Mapping)

	return result, nil
}

// =============================================================================
// ROW PROCESSING
// =============================================================================

// rowState accumulates the errors, warnings and corrections for one row
// while its fields are extracted and validated.
type rowState struct {
	number      int
	errors      []types.RowMessage
	warnings    []types.RowMessage
	corrections []types.FieldCorrection
}

func (s *rowState) addError(field types.CanonicalField, format string, args ...interface{}) {
	s.errors = append(s.errors, types.RowMessage{
		RowNumber: s.number,
		Field:     field,
		Message:   fmt.Sprintf(format, args...),
	})
}

func (s *rowState) addWarning(field types.CanonicalField, format string, args ...interface{}) {
	s.warnings = append(s.warnings, types.RowMessage{
		RowNumber: s.number,
		Field:     field,
		Message:   fmt.Sprintf(format, args...),
	})
}

func (s *rowState) addCorrection(field types.CanonicalField, original, corrected string) {
	s.corrections = append(s.corrections, types.FieldCorrection{
		RowNumber: s.number,
		Field:     field,
		Original:  original,
		Corrected: corrected,
	})
}

// outcome converts the accumulated state into the row's ValidationOutcome.
func (s *rowState) outcome() types.ValidationOutcome {
	out := types.ValidationOutcome{
		RowNumber:   s.number,
		IsValid:     len(s.errors) == 0,
		Corrections: s.corrections,
	}
	for _, e := range s.errors {
		out.Errors = append(out.Errors, e.Message)
	}
	for _, w := range s.warnings {
		out.Warnings = append(out.Warnings, w.Message)
	}
	return out
}

// processRow extracts, repairs and validates one row. The returned record is
// only meaningful when the state carries no errors.
func processRow(row types.RawRow, m *mapping.Mapping, opts config.Options) (record types.ReceiptRecord, state *rowState) {
	state = &rowState{number: row.RowNumber}

	// One bad row must never take the file down with it.
	defer func() {
		if r := recover(); r != nil {
			state.addError("", "row processing error: %v", r)
			record = types.ReceiptRecord{
				ReceiptType: fields.TypeRent,
				RowNumber:   row.RowNumber,
			}
		}
	}()

	cell := func(field types.CanonicalField) string {
		header := m.Header(field)
		if header == "" {
			return ""
		}
		return row.Get(header)
	}

	contractID := processContractID(cell(types.FieldContractID), state, opts)
	fromDate := processDate(types.FieldFromDate, cell(types.FieldFromDate), state, opts)
	toDate := processDate(types.FieldToDate, cell(types.FieldToDate), state, opts)

	checkDateOrder(fromDate, toDate, state, opts)

	value, valueDefaulted := processValue(cell(types.FieldValue), state, opts)
	receiptType, typeDefaulted := processReceiptType(cell(types.FieldReceiptType), state, opts)
	paymentDate, paymentDefaulted := processPaymentDate(cell(types.FieldPaymentDate), toDate, state, opts)

	record = types.ReceiptRecord{
		ContractID:           contractID,
		FromDate:             fromDate,
		ToDate:               toDate,
		ReceiptType:          receiptType,
		Value:                value,
		PaymentDate:          paymentDate,
		PaymentDateDefaulted: paymentDefaulted,
		ValueDefaulted:       valueDefaulted,
		ReceiptTypeDefaulted: typeDefaulted,
		RowNumber:            row.RowNumber,
	}

	// A negative amount must never reach an accepted record. The parser
	// cannot produce one, so this check should never fire.
	if record.Value.IsNegative() {
		state.addError(types.FieldValue, "value cannot be negative: %s", record.Value.String())
	}

	return record, state
}

// =============================================================================
// PER-FIELD STEPS
// =============================================================================

func processContractID(raw string, state *rowState, opts config.Options) string {
	if raw == "" {
		state.addError(types.FieldContractID, "contract ID cannot be empty")
		return ""
	}

	if fields.IsValidContractID(raw) {
		return raw
	}

	if !opts.AutoCorrect {
		state.addError(types.FieldContractID, "invalid contract ID format: '%s'", raw)
		return raw
	}

	cleaned := fields.CleanContractID(raw)
	if cleaned == "" {
		state.addError(types.FieldContractID, "contract ID cannot be empty")
		return ""
	}
	if cleaned != raw {
		state.addWarning(types.FieldContractID, "contract ID auto-corrected: '%s' -> '%s'", raw, cleaned)
		state.addCorrection(types.FieldContractID, raw, cleaned)
	}
	return cleaned
}

func processDate(field types.CanonicalField, raw string, state *rowState, opts config.Options) string {
	iso, corrected := fields.ParseDate(raw, opts.AutoCorrect)

	if corrected {
		state.addWarning(field, "%s auto-corrected: '%s' -> '%s'", field, raw, iso)
		state.addCorrection(field, raw, iso)
	}

	if iso == "" {
		state.addError(field, "%s is required and must be a valid date", field)
	}

	return iso
}

// checkDateOrder enforces fromDate <= toDate. ISO strings compare
// lexicographically the same as chronologically, but the span check needs
// real dates.
func checkDateOrder(fromDate, toDate string, state *rowState, opts config.Options) {
	if fromDate == "" || toDate == "" {
		return
	}

	if fromDate > toDate {
		state.addError(types.FieldFromDate,
			"from date (%s) cannot be later than to date (%s)", fromDate, toDate)
		return
	}

	if opts.StrictValidation {
		from, errFrom := time.Parse("2006-01-02", fromDate)
		to, errTo := time.Parse("2006-01-02", toDate)
		if errFrom == nil && errTo == nil {
			if days := int(to.Sub(from).Hours() / 24); days > maxReasonableSpanDays {
				state.addWarning(types.FieldToDate, "date range is very long (%d days)", days)
			}
		}
	}
}

func processValue(raw string, state *rowState, opts config.Options) (decimal.Decimal, bool) {
	value, defaulted := fields.ParseValue(raw, opts.AutoCorrect)

	if defaulted {
		if raw == "" {
			state.addWarning(types.FieldValue, "value missing, defaulted to 0")
		} else {
			state.addWarning(types.FieldValue, "value unparseable ('%s'), defaulted to 0", raw)
		}
		state.addCorrection(types.FieldValue, raw, "0")
	}

	return value, defaulted
}

func processReceiptType(raw string, state *rowState, opts config.Options) (string, bool) {
	receiptType, defaulted := fields.NormalizeReceiptType(raw, opts.AutoCorrect)

	if defaulted {
		state.addWarning(types.FieldReceiptType, "receipt type defaulted to '%s'", receiptType)
		state.addCorrection(types.FieldReceiptType, raw, receiptType)
	}

	return receiptType, defaulted
}

func processPaymentDate(raw, toDate string, state *rowState, opts config.Options) (string, bool) {
	if raw == "" {
		if opts.AutoCorrect && toDate != "" {
			state.addWarning(types.FieldPaymentDate, "payment date defaulted to '%s'", toDate)
			state.addCorrection(types.FieldPaymentDate, raw, toDate)
			return toDate, true
		}
		return "", true
	}

	iso, corrected := fields.ParseDate(raw, opts.AutoCorrect)
	if iso == "" {
		state.addError(types.FieldPaymentDate, "invalid payment date format: '%s'", raw)
		return "", false
	}
	if corrected {
		state.addWarning(types.FieldPaymentDate, "payment date auto-corrected: '%s' -> '%s'", raw, iso)
		state.addCorrection(types.FieldPaymentDate, raw, iso)
	}

	if iso > time.Now().Format("2006-01-02") {
		if opts.StrictValidation {
			state.addError(types.FieldPaymentDate, "payment date (%s) cannot be in the future", iso)
		} else {
			state.addWarning(types.FieldPaymentDate, "payment date (%s) is in the future", iso)
		}
	}

	return iso, false
}

// =============================================================================
// REPORT
// =============================================================================

// buildReport flattens the per-row state into the aggregate report the UI
// and exports consume, keeping the field attribution of every message.
func buildReport(states []*rowState) types.ValidationReport {
	report := types.ValidationReport{
		TotalRows:   len(states),
		Corrections: make(map[int][]types.FieldCorrection),
	}

	for _, state := range states {
		if len(state.errors) == 0 {
			report.ValidRows++
		} else {
			report.ErrorRows++
		}
		if len(state.warnings) > 0 {
			report.WarningRows++
		}

		report.Errors = append(report.Errors, state.errors...)
		report.Warnings = append(report.Warnings, state.warnings...)
		if len(state.corrections) > 0 {
			report.Corrections[state.number] = state.corrections
		}
	}

	return report
}
