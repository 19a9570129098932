// =============================================================================
// Receipt Normalizer - Receipt Type Canonicalization
// =============================================================================
//
// Receipt types are free text in the source files, mostly Portuguese. This
// module maps them to a small canonical set: rent, deposit, utilities,
// maintenance, other. Matching runs exact-first over the alias tables, then
// (with auto-correction on) a substring pass for partial spellings like
// "renda mensal". Unrecognized values pass through lowercased rather than
// being forced into a bucket they may not belong to.
//
// =============================================================================

package fields

import "strings"

// Canonical receipt types, in match order.
const (
	TypeRent        = "rent"
	TypeDeposit     = "deposit"
	TypeUtilities   = "utilities"
	TypeMaintenance = "maintenance"
	TypeOther       = "other"
)

// receiptTypeOrder fixes the iteration order so ambiguous inputs always
// resolve the same way.
var receiptTypeOrder = []string{
	TypeRent, TypeDeposit, TypeUtilities, TypeMaintenance, TypeOther,
}

// receiptTypeAliases lists the known spellings for each canonical type,
// Portuguese variants included (with and without diacritics).
var receiptTypeAliases = map[string][]string{
	TypeRent:        {"rent", "renda", "aluguel", "arrendamento", "locacao", "rental"},
	TypeDeposit:     {"deposit", "caucao", "caução", "fianca", "fiança", "deposito", "depósito", "garantia"},
	TypeUtilities:   {"utilities", "despesas", "encargos", "condominio", "condomínio"},
	TypeMaintenance: {"maintenance", "manutencao", "manutenção", "reparacao", "reparação", "obras"},
	TypeOther:       {"other", "outro", "varios", "vários", "diversos", "extra"},
}

// NormalizeReceiptType maps a raw receipt type to its canonical form.
//
// RETURNS:
//   - The canonical type, or the lowercased input when no mapping applies.
//   - Whether the result was defaulted or corrected (empty input defaults
//     to rent; substring matches count as corrections; exact alias hits
//     do not).
func NormalizeReceiptType(raw string, autoCorrect bool) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return TypeRent, true
	}

	for _, canonical := range receiptTypeOrder {
		for _, alias := range receiptTypeAliases[canonical] {
			if cleaned == alias {
				return canonical, false
			}
		}
	}

	if autoCorrect {
		for _, canonical := range receiptTypeOrder {
			for _, alias := range receiptTypeAliases[canonical] {
				if strings.Contains(alias, cleaned) || strings.Contains(cleaned, alias) {
					return canonical, true
				}
			}
		}
	}

	return cleaned, false
}

// IsCanonicalReceiptType reports whether t is one of the canonical types.
func IsCanonicalReceiptType(t string) bool {
	_, ok := receiptTypeAliases[t]
	return ok
}
