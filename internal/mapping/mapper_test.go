package mapping

import (
	"strings"
	"testing"

	"github.com/recibos-tools/receipt-normalizer/internal/types"
)

const testThreshold = 0.6

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Contract ID", "contract_id"},
		{"  data_inicio  ", "data_inicio"},
		{"Valor (€)", "valor_"},
		{"FROM   DATE", "from_date"},
		{"paymentDate", "paymentdate"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeHeader(tt.input); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolvePortugueseHeaders(t *testing.T) {
	headers := []string{"id_contrato", "data_inicio", "data_fim", "tipo", "quantia", "data_pagamento"}

	m, err := Resolve(headers, nil, testThreshold)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := map[types.CanonicalField]string{
		types.FieldContractID:  "id_contrato",
		types.FieldFromDate:    "data_inicio",
		types.FieldToDate:      "data_fim",
		types.FieldReceiptType: "tipo",
		types.FieldValue:       "quantia",
		types.FieldPaymentDate: "data_pagamento",
	}
	for field, header := range want {
		if got := m.Header(field); got != header {
			t.Errorf("Header(%s) = %q, want %q", field, got, header)
		}
	}
}

func TestResolveEnglishHeaders(t *testing.T) {
	headers := []string{"Contract ID", "Start Date", "End Date", "Type", "Amount", "Paid Date"}

	m, err := Resolve(headers, nil, testThreshold)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if got := m.Header(types.FieldContractID); got != "Contract ID" {
		t.Errorf("contractId mapped to %q", got)
	}
	if got := m.Header(types.FieldFromDate); got != "Start Date" {
		t.Errorf("fromDate mapped to %q", got)
	}
	if got := m.Header(types.FieldValue); got != "Amount" {
		t.Errorf("value mapped to %q", got)
	}
}

func TestResolveFuzzyMatch(t *testing.T) {
	// "contract_identifier" is in no alias table and must be claimed by
	// fuzzy matching.
	headers := []string{"contract_identifier", "data_inicio", "data_fim"}

	m, err := Resolve(headers, nil, testThreshold)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if got := m.Header(types.FieldContractID); got != "contract_identifier" {
		t.Errorf("contractId mapped to %q, want %q", got, "contract_identifier")
	}
}

func TestResolveMissingRequired(t *testing.T) {
	// No plausible contract column at all.
	headers := []string{"foo", "from date", "to date"}

	_, err := Resolve(headers, nil, testThreshold)
	if err == nil {
		t.Fatal("Resolve() error = nil, want missing-column error")
	}
	if !strings.Contains(err.Error(), string(types.FieldContractID)) {
		t.Errorf("error %q does not name the missing field", err.Error())
	}
}

func TestResolveReportsAllMissing(t *testing.T) {
	_, err := Resolve([]string{"tipo", "quantia"}, nil, testThreshold)
	if err == nil {
		t.Fatal("Resolve() error = nil, want missing-column error")
	}
	for _, field := range types.RequiredFields() {
		if !strings.Contains(err.Error(), string(field)) {
			t.Errorf("error %q does not name missing field %s", err.Error(), field)
		}
	}
}

func TestResolveOptionalFieldsMayBeAbsent(t *testing.T) {
	headers := []string{"id_contrato", "data_inicio", "data_fim"}

	m, err := Resolve(headers, nil, testThreshold)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if m.Has(types.FieldValue) || m.Has(types.FieldPaymentDate) {
		t.Error("optional fields mapped with no plausible columns present")
	}
}

func TestResolveInjective(t *testing.T) {
	// Duplicate headers and near-duplicates; no header may be claimed twice.
	headers := []string{"id_contrato", "data_inicio", "data_inicio", "data_fim", "valor", "valor"}

	m, err := Resolve(headers, nil, testThreshold)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	seen := make(map[string]types.CanonicalField)
	for _, field := range m.Fields() {
		header := m.Header(field)
		if prev, dup := seen[header]; dup {
			t.Errorf("header %q claimed by both %s and %s", header, prev, field)
		}
		seen[header] = field
	}
}

func TestResolveExtraAliases(t *testing.T) {
	headers := []string{"n_contrato_qdl", "data_inicio", "data_fim"}

	extra := map[types.CanonicalField][]string{
		types.FieldContractID: {"n_contrato_qdl"},
	}

	m, err := Resolve(headers, extra, testThreshold)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := m.Header(types.FieldContractID); got != "n_contrato_qdl" {
		t.Errorf("contractId mapped to %q, want profile alias", got)
	}
}

func TestResolveIgnoresExtraColumns(t *testing.T) {
	headers := []string{"id_contrato", "data_inicio", "data_fim", "notas", "morada"}

	m, err := Resolve(headers, nil, testThreshold)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	for _, field := range m.Fields() {
		h := m.Header(field)
		if h == "notas" || h == "morada" {
			t.Errorf("unrelated column %q claimed by %s", h, field)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		candidate string
		atLeast   float64
		below     float64
	}{
		{name: "identical", target: "value", candidate: "value", atLeast: 1.0},
		{name: "containment", target: "contractid", candidate: "the_contractid_col", atLeast: 0.8},
		{name: "unrelated", target: "contractid", candidate: "xyz", below: testThreshold},
		{name: "shared words", target: "from_date", candidate: "date_from", atLeast: testThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.target, tt.candidate)
			if tt.atLeast > 0 && got < tt.atLeast {
				t.Errorf("Similarity(%q, %q) = %.3f, want >= %.3f", tt.target, tt.candidate, got, tt.atLeast)
			}
			if tt.below > 0 && got >= tt.below {
				t.Errorf("Similarity(%q, %q) = %.3f, want < %.3f", tt.target, tt.candidate, got, tt.below)
			}
		})
	}
}
