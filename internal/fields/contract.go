// =============================================================================
// Receipt Normalizer - Contract ID Handling
// =============================================================================

package fields

import (
	"regexp"
	"strings"
)

var (
	alphanumericID = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	contractJunk   = regexp.MustCompile(`[^\w]`)
	anyLetter      = regexp.MustCompile(`[a-zA-Z]`)
)

// IsValidContractID reports whether the ID is acceptable as-is: at least
// three characters, all alphanumeric.
func IsValidContractID(id string) bool {
	cleaned := strings.TrimSpace(id)
	if cleaned == "" {
		return false
	}
	return alphanumericID.MatchString(cleaned) && len(cleaned) >= 3
}

// CleanContractID repairs a contract ID by stripping whitespace and
// punctuation. IDs containing letters are uppercased so "ct-101" and
// "CT 101" collapse to the same key.
func CleanContractID(id string) string {
	cleaned := contractJunk.ReplaceAllString(strings.TrimSpace(id), "")
	if anyLetter.MatchString(cleaned) {
		cleaned = strings.ToUpper(cleaned)
	}
	return cleaned
}
