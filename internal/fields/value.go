// =============================================================================
// Receipt Normalizer - Monetary Value Parsing
// =============================================================================
//
// Rent values arrive with currency symbols, thousands separators and either
// comma or dot decimals, often mixed within one file. The parser normalizes
// all of it to an exact decimal. Separator handling follows the
// last-separator-wins rule:
//   - Both '.' and ',' present: whichever appears last is the decimal
//     separator; the other is stripped as a thousands separator.
//   - Only ',' present: a single comma followed by 1-2 digits is decimal
//     ("100,50"); anything else is thousands grouping ("1,000").
//   - Only '.' present: handed to the decimal parser as-is, so "1.234"
//     reads as one-point-two-three-four.
//
// Values are never negative. A blank or unparseable input, or a parse that
// yields a negative number, defaults to zero and is flagged so downstream
// reporting can surface it.
//
// =============================================================================

package fields

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencySymbols = regexp.MustCompile(`[€$£¥]`)
	valueWhitespace = regexp.MustCompile(`\s+`)
)

// ParseValue normalizes a raw monetary string to a decimal amount.
//
// RETURNS:
//   - The parsed amount, or zero when the input defaults.
//   - Whether the amount was defaulted to zero.
func ParseValue(raw string, autoCorrect bool) (decimal.Decimal, bool) {
	_ = autoCorrect // value repair applies unconditionally; kept for symmetry

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, true
	}

	cleaned := currencySymbols.ReplaceAllString(trimmed, "")
	cleaned = normalizeSeparators(cleaned)
	cleaned = valueWhitespace.ReplaceAllString(cleaned, "")

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, true
	}
	if value.IsNegative() {
		return decimal.Zero, true
	}

	return value, false
}

// normalizeSeparators rewrites European and US digit grouping to the plain
// dot-decimal form the decimal parser expects.
func normalizeSeparators(s string) string {
	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// European: 1.000,50
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// US: 1,000.50
			s = strings.ReplaceAll(s, ",", "")
		}

	case hasComma:
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 && isDigits(parts[1]) {
			// Decimal comma: 100,50
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// Thousands grouping: 1,000 or 1,000,000
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
