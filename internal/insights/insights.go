// =============================================================================
// Receipt Normalizer - Dataset Insights
// =============================================================================
//
// Aggregate statistics computed once, after all rows are processed, from the
// full outcome and record sets. The quality score derived here is for
// reporting only; accept/reject decisions are made per row, never from the
// score.
//
// Date ranges are computed on the ISO strings directly, which order
// lexicographically the same as chronologically.
//
// =============================================================================

package insights

import (
	"github.com/shopspring/decimal"

	"github.com/recibos-tools/receipt-normalizer/internal/types"
)

// correctionRateThreshold is the fraction of corrected rows above which the
// quality score is penalized.
const correctionRateThreshold = 0.1

// correctionPenaltyCap bounds the penalty so heavily-corrected datasets
// still score above zero.
const correctionPenaltyCap = 0.5

// Compute derives DatasetInsights from the full per-row outcomes and the
// accepted records.
//
// PARAMETERS:
//   - outcomes: one entry per processed data row, accepted or not.
//   - records: the accepted records only.
//   - mapping: the resolved column mapping; completeness is reported for
//     mapped fields only.
func Compute(outcomes []types.ValidationOutcome, records []types.ReceiptRecord, mapping map[types.CanonicalField]string) types.DatasetInsights {
	insights := types.DatasetInsights{
		TotalRows:          len(outcomes),
		ReceiptTypes:       make(map[string]int),
		DefaultedValues:    make(map[types.CanonicalField]int),
		ColumnCompleteness: make(map[types.CanonicalField]float64),
	}

	for _, out := range outcomes {
		if out.IsValid {
			insights.ValidRows++
		} else {
			insights.ErrorRows++
		}
		if len(out.Warnings) > 0 {
			insights.WarningRows++
		}
		if len(out.Corrections) > 0 {
			insights.CorrectedRows++
		}
	}

	if insights.TotalRows > 0 {
		insights.SuccessRate = float64(insights.ValidRows) / float64(insights.TotalRows) * 100
	}

	aggregateRecords(&insights, records)
	computeCompleteness(&insights, records, mapping)
	insights.QualityScore = qualityScore(&insights)

	return insights
}

// aggregateRecords fills the record-derived aggregates: distinct contracts,
// date and value ranges, type histogram, defaulted-field counts.
func aggregateRecords(insights *types.DatasetInsights, records []types.ReceiptRecord) {
	contracts := make(map[string]bool)

	for _, rec := range records {
		contracts[rec.ContractID] = true
		insights.ReceiptTypes[rec.ReceiptType]++

		if rec.ValueDefaulted {
			insights.DefaultedValues[types.FieldValue]++
		}
		if rec.ReceiptTypeDefaulted {
			insights.DefaultedValues[types.FieldReceiptType]++
		}
		if rec.PaymentDateDefaulted {
			insights.DefaultedValues[types.FieldPaymentDate]++
		}

		extendDateRange(&insights.DateRange, rec.FromDate)
		extendDateRange(&insights.DateRange, rec.ToDate)

		if rec.Value.IsPositive() {
			extendValueRange(&insights.ValueRange, rec.Value)
		}
	}

	insights.UniqueContracts = len(contracts)
}

func extendDateRange(r *types.DateRange, iso string) {
	if iso == "" {
		return
	}
	if r.Start == "" || iso < r.Start {
		r.Start = iso
	}
	if r.End == "" || iso > r.End {
		r.End = iso
	}
}

func extendValueRange(r *types.ValueRange, v decimal.Decimal) {
	if r.Min.IsZero() && r.Max.IsZero() {
		r.Min = v
		r.Max = v
		return
	}
	if v.LessThan(r.Min) {
		r.Min = v
	}
	if v.GreaterThan(r.Max) {
		r.Max = v
	}
}

// computeCompleteness measures, per mapped field, how many accepted records
// carry a usable value for it. The value field counts non-zero amounts,
// everything else counts non-empty strings.
func computeCompleteness(insights *types.DatasetInsights, records []types.ReceiptRecord, mapping map[types.CanonicalField]string) {
	if len(records) == 0 {
		return
	}

	for field := range mapping {
		populated := 0
		for _, rec := range records {
			if fieldPopulated(rec, field) {
				populated++
			}
		}
		insights.ColumnCompleteness[field] = float64(populated) / float64(len(records))
	}
}

func fieldPopulated(rec types.ReceiptRecord, field types.CanonicalField) bool {
	switch field {
	case types.FieldContractID:
		return rec.ContractID != ""
	case types.FieldFromDate:
		return rec.FromDate != ""
	case types.FieldToDate:
		return rec.ToDate != ""
	case types.FieldReceiptType:
		return rec.ReceiptType != ""
	case types.FieldValue:
		return !rec.Value.IsZero()
	case types.FieldPaymentDate:
		return rec.PaymentDate != ""
	}
	return false
}

// qualityScore blends the success rate with average column completeness,
// then applies a penalty when more than 10% of rows needed correction.
// The result is clamped to 0..100.
func qualityScore(insights *types.DatasetInsights) float64 {
	score := insights.SuccessRate

	if len(insights.ColumnCompleteness) > 0 {
		total := 0.0
		for _, c := range insights.ColumnCompleteness {
			total += c
		}
		avgCompleteness := total / float64(len(insights.ColumnCompleteness))
		score = (score + avgCompleteness*100) / 2
	}

	if insights.TotalRows > 0 {
		correctionRate := float64(insights.CorrectedRows) / float64(insights.TotalRows)
		if correctionRate > correctionRateThreshold {
			if correctionRate > correctionPenaltyCap {
				correctionRate = correctionPenaltyCap
			}
			score *= 1 - correctionRate
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
