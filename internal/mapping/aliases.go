// =============================================================================
// Receipt Normalizer - Header Alias Tables
// =============================================================================
//
// Static bilingual (Portuguese/English) alias tables mapping the header
// variations seen in landlord spreadsheets to canonical fields. The tables
// are built once at startup; per-landlord additions come in through the
// mapping profile, never by editing these.
//
// Aliases are matched after normalization (see NormalizeHeader), so entries
// here are written in their normalized form: lowercase, underscores.
//
// =============================================================================

package mapping

import "github.com/recibos-tools/receipt-normalizer/internal/types"

// headerAliases maps each canonical field to its known header spellings.
// Order within a list is the match order.
var headerAliases = map[types.CanonicalField][]string{
	types.FieldContractID: {
		"contract_id", "contract", "contractid", "contract_number", "contract_num",
		"id_contrato", "numero_contrato", "contrato", "id_contract", "contract_ref",
		"ref_contrato", "referencia_contrato", "contrato_id", "num_contrato",
	},
	types.FieldFromDate: {
		"from_date", "start_date", "startdate", "from", "start", "begin_date",
		"data_inicio", "inicio", "data_de", "periodo_inicio", "de_data",
		"start_period", "begin", "date_from", "period_start", "initial_date",
	},
	types.FieldToDate: {
		"to_date", "end_date", "enddate", "to", "end", "final_date",
		"data_fim", "fim", "data_ate", "periodo_fim", "ate_data",
		"end_period", "finish", "date_to", "period_end", "final",
	},
	types.FieldReceiptType: {
		"receipt_type", "type", "receipttype", "tipo", "tipo_recibo",
		"categoria", "category", "kind", "tipo_documento", "document_type",
	},
	types.FieldValue: {
		"amount", "rent", "price", "total", "valor", "quantia", "montante",
		"renda", "preco", "custo", "cost", "sum", "soma", "valor_renda",
	},
	types.FieldPaymentDate: {
		"payment_date", "paid_date", "paymentdate", "paid", "payment",
		"data_pagamento", "pagamento", "data_recebimento", "recebimento",
		"pay_date", "received_date", "settlement_date", "data_liquidacao",
	},
}

// AliasesFor returns the built-in aliases for a canonical field.
func AliasesFor(field types.CanonicalField) []string {
	return headerAliases[field]
}
