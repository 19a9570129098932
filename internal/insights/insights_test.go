package insights

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/recibos-tools/receipt-normalizer/internal/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeEmptyDataset(t *testing.T) {
	got := Compute(nil, nil, nil)

	if got.TotalRows != 0 {
		t.Errorf("TotalRows = %d, want 0", got.TotalRows)
	}
	if got.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0", got.SuccessRate)
	}
	if got.QualityScore != 0 {
		t.Errorf("QualityScore = %v, want 0", got.QualityScore)
	}
}

func TestComputeCountsAndRanges(t *testing.T) {
	outcomes := []types.ValidationOutcome{
		{RowNumber: 1, IsValid: true},
		{RowNumber: 2, IsValid: true, Warnings: []string{"something"}},
		{RowNumber: 3, IsValid: false, Errors: []string{"bad"}},
	}
	records := []types.ReceiptRecord{
		{
			ContractID:  "123456",
			FromDate:    "2024-07-01",
			ToDate:      "2024-07-31",
			ReceiptType: "rent",
			Value:       decimal.RequireFromString("850.00"),
			PaymentDate: "2024-07-28",
			RowNumber:   1,
		},
		{
			ContractID:           "123456",
			FromDate:             "2024-06-01",
			ToDate:               "2024-06-30",
			ReceiptType:          "deposit",
			Value:                decimal.Zero,
			ValueDefaulted:       true,
			PaymentDate:          "2024-06-30",
			PaymentDateDefaulted: true,
			RowNumber:            2,
		},
	}
	mapping := map[types.CanonicalField]string{
		types.FieldContractID: "id_contrato",
		types.FieldFromDate:   "data_inicio",
		types.FieldToDate:     "data_fim",
		types.FieldValue:      "quantia",
	}

	got := Compute(outcomes, records, mapping)

	if got.TotalRows != 3 || got.ValidRows != 2 || got.ErrorRows != 1 || got.WarningRows != 1 {
		t.Errorf("counts = %d/%d/%d/%d, want 3/2/1/1",
			got.TotalRows, got.ValidRows, got.ErrorRows, got.WarningRows)
	}
	if !almostEqual(got.SuccessRate, 200.0/3.0) {
		t.Errorf("SuccessRate = %v, want %v", got.SuccessRate, 200.0/3.0)
	}
	if got.UniqueContracts != 1 {
		t.Errorf("UniqueContracts = %d, want 1", got.UniqueContracts)
	}

	if got.DateRange.Start != "2024-06-01" || got.DateRange.End != "2024-07-31" {
		t.Errorf("DateRange = %s..%s, want 2024-06-01..2024-07-31",
			got.DateRange.Start, got.DateRange.End)
	}

	// Zero values are excluded from the value range.
	want := decimal.RequireFromString("850.00")
	if !got.ValueRange.Min.Equal(want) || !got.ValueRange.Max.Equal(want) {
		t.Errorf("ValueRange = %s..%s, want 850.00..850.00",
			got.ValueRange.Min.String(), got.ValueRange.Max.String())
	}

	if got.ReceiptTypes["rent"] != 1 || got.ReceiptTypes["deposit"] != 1 {
		t.Errorf("ReceiptTypes = %v", got.ReceiptTypes)
	}

	if got.DefaultedValues[types.FieldValue] != 1 {
		t.Errorf("DefaultedValues[value] = %d, want 1", got.DefaultedValues[types.FieldValue])
	}
	if got.DefaultedValues[types.FieldPaymentDate] != 1 {
		t.Errorf("DefaultedValues[paymentDate] = %d, want 1", got.DefaultedValues[types.FieldPaymentDate])
	}

	// contractId populated in both records, value in one of two.
	if !almostEqual(got.ColumnCompleteness[types.FieldContractID], 1.0) {
		t.Errorf("completeness[contractId] = %v, want 1.0", got.ColumnCompleteness[types.FieldContractID])
	}
	if !almostEqual(got.ColumnCompleteness[types.FieldValue], 0.5) {
		t.Errorf("completeness[value] = %v, want 0.5", got.ColumnCompleteness[types.FieldValue])
	}
}

func TestQualityScoreCorrectionPenalty(t *testing.T) {
	correction := []types.FieldCorrection{{RowNumber: 1, Field: types.FieldFromDate, Original: "x", Corrected: "y"}}

	// 10 valid rows, full completeness, 2 corrected rows: 20% correction
	// rate exceeds the 10% threshold, so the blended 100 drops to 80.
	var outcomes []types.ValidationOutcome
	var records []types.ReceiptRecord
	for i := 1; i <= 10; i++ {
		out := types.ValidationOutcome{RowNumber: i, IsValid: true}
		if i <= 2 {
			out.Corrections = correction
		}
		outcomes = append(outcomes, out)
		records = append(records, types.ReceiptRecord{
			ContractID: "123456",
			FromDate:   "2024-07-01",
			ToDate:     "2024-07-31",
			RowNumber:  i,
		})
	}
	mapping := map[types.CanonicalField]string{
		types.FieldContractID: "id",
		types.FieldFromDate:   "de",
		types.FieldToDate:     "ate",
	}

	got := Compute(outcomes, records, mapping)
	if !almostEqual(got.QualityScore, 80.0) {
		t.Errorf("QualityScore = %v, want 80.0", got.QualityScore)
	}
	if got.CorrectedRows != 2 {
		t.Errorf("CorrectedRows = %d, want 2", got.CorrectedRows)
	}
}

func TestQualityScoreNoPenaltyBelowThreshold(t *testing.T) {
	// 1 corrected row out of 20 stays under the 10% threshold.
	var outcomes []types.ValidationOutcome
	var records []types.ReceiptRecord
	for i := 1; i <= 20; i++ {
		out := types.ValidationOutcome{RowNumber: i, IsValid: true}
		if i == 1 {
			out.Corrections = []types.FieldCorrection{{RowNumber: i, Field: types.FieldToDate}}
		}
		outcomes = append(outcomes, out)
		records = append(records, types.ReceiptRecord{
			ContractID: "123456",
			FromDate:   "2024-07-01",
			ToDate:     "2024-07-31",
			RowNumber:  i,
		})
	}
	mapping := map[types.CanonicalField]string{
		types.FieldContractID: "id",
		types.FieldFromDate:   "de",
		types.FieldToDate:     "ate",
	}

	got := Compute(outcomes, records, mapping)
	if !almostEqual(got.QualityScore, 100.0) {
		t.Errorf("QualityScore = %v, want 100.0", got.QualityScore)
	}
}

func TestQualityScorePenaltyCapped(t *testing.T) {
	// Every row corrected: the penalty is capped at 50%, not 100%.
	outcomes := []types.ValidationOutcome{
		{RowNumber: 1, IsValid: true, Corrections: []types.FieldCorrection{{RowNumber: 1, Field: types.FieldFromDate}}},
	}
	records := []types.ReceiptRecord{
		{ContractID: "123456", FromDate: "2024-07-01", ToDate: "2024-07-31", RowNumber: 1},
	}
	mapping := map[types.CanonicalField]string{
		types.FieldContractID: "id",
		types.FieldFromDate:   "de",
		types.FieldToDate:     "ate",
	}

	got := Compute(outcomes, records, mapping)
	if !almostEqual(got.QualityScore, 50.0) {
		t.Errorf("QualityScore = %v, want 50.0", got.QualityScore)
	}
}
