// =============================================================================
// Receipt Normalizer - Column Mapper
// =============================================================================
//
// This module resolves the raw headers of an input file to canonical fields.
// Landlord files never agree on column names, so resolution runs in three
// stages per field, required fields first:
//   1. Exact match against the field's own name
//   2. Exact match against the static alias table (plus profile extras)
//   3. Fuzzy match against the remaining unclaimed headers
//
// Every header can be claimed at most once, and every field claims at most
// one header, so the mapping is injective both ways. If any required field is
// left unresolved the whole file is rejected with one error naming every
// missing field; there is no partial mapping.
//
// =============================================================================

package mapping

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/recibos-tools/receipt-normalizer/internal/types"
)

// =============================================================================
// FUZZY-SCORE CONSTANTS
// =============================================================================
// The blend below is a carried-over product decision, tuned against real
// landlord files. Keep the weights named; do not fold them into the code.

const (
	// containmentScore is awarded when one normalized name fully contains
	// the other.
	containmentScore = 0.8

	// affixBonus is awarded for a matching 3-character prefix, and again
	// for a matching 3-character suffix.
	affixBonus = 0.3

	// lengthWeight scales the length-difference penalty term.
	lengthWeight = 0.3

	// shortPrefixScore is awarded when an abbreviated name (3 characters or
	// fewer) is a prefix of the longer one.
	shortPrefixScore = 0.7

	// wordOverlapWeight scales the whole-word-overlap bonus.
	wordOverlapWeight = 0.3
)

var (
	nonWordOrSpace = regexp.MustCompile(`[^\w\s]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	nonWord        = regexp.MustCompile(`[^\w]`)
	wordSplit      = regexp.MustCompile(`[\s_]+`)
)

// NormalizeHeader canonicalizes a raw header for matching: trim, lowercase,
// strip non-word characters, collapse whitespace runs to single underscores.
func NormalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = nonWordOrSpace.ReplaceAllString(h, "")
	h = whitespaceRun.ReplaceAllString(h, "_")
	return h
}

// =============================================================================
// MAPPING STRUCTURE
// =============================================================================

// Mapping is the resolved bijective partial map from canonical fields to
// source headers. Immutable once built.
type Mapping struct {
	byField map[types.CanonicalField]string
}

// Header returns the source header claimed by the field, or "" when the
// field resolved to no column.
func (m *Mapping) Header(field types.CanonicalField) string {
	return m.byField[field]
}

// Has reports whether the field resolved to a source column.
func (m *Mapping) Has(field types.CanonicalField) bool {
	_, ok := m.byField[field]
	return ok
}

// Fields returns the mapped fields in resolution order.
func (m *Mapping) Fields() []types.CanonicalField {
	var fields []types.CanonicalField
	for _, f := range types.AllFields() {
		if m.Has(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// AsMap returns a copy of the mapping for embedding in results.
func (m *Mapping) AsMap() map[types.CanonicalField]string {
	out := make(map[types.CanonicalField]string, len(m.byField))
	for f, h := range m.byField {
		out[f] = h
	}
	return out
}

// =============================================================================
// RESOLUTION
// =============================================================================

// candidate is one unclaimed header, kept in original column order so that
// fuzzy ties resolve deterministically to the leftmost column.
type candidate struct {
	normalized string
	original   string
}

// Resolve maps the raw headers to canonical fields.
//
// PARAMETERS:
//   - headers: the raw header strings, in file order.
//   - extraAliases: per-run alias additions (from a mapping profile); may
//     be nil.
//   - threshold: the minimum fuzzy score; values <= 0 disable nothing and
//     are the caller's responsibility to default.
//
// RETURNS:
//   - The resolved Mapping.
//   - One error naming every missing required field, when resolution fails.
func Resolve(headers []string, extraAliases map[types.CanonicalField][]string, threshold float64) (*Mapping, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("file has no columns")
	}

	// Duplicate headers: the first occurrence wins the normalized name.
	candidates := make([]candidate, 0, len(headers))
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		norm := NormalizeHeader(h)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		candidates = append(candidates, candidate{normalized: norm, original: h})
	}

	mapping := &Mapping{byField: make(map[types.CanonicalField]string)}
	claimed := make(map[string]bool)
	var missing []string

	for _, field := range types.AllFields() {
		header, ok := resolveField(field, candidates, claimed, extraAliases, threshold)
		if ok {
			mapping.byField[field] = header
			continue
		}
		if field.IsRequired() {
			missing = append(missing, field.String())
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return mapping, nil
}

// resolveField runs the three matching stages for one field and claims the
// winning header.
func resolveField(
	field types.CanonicalField,
	candidates []candidate,
	claimed map[string]bool,
	extraAliases map[types.CanonicalField][]string,
	threshold float64,
) (string, bool) {
	// Stage 1: the field's own name.
	fieldNorm := NormalizeHeader(field.String())
	if header, ok := claimExact(fieldNorm, candidates, claimed); ok {
		return header, true
	}

	// Stage 2: static alias table, then profile extras.
	for _, alias := range AliasesFor(field) {
		if header, ok := claimExact(NormalizeHeader(alias), candidates, claimed); ok {
			return header, true
		}
	}
	for _, alias := range extraAliases[field] {
		if header, ok := claimExact(NormalizeHeader(alias), candidates, claimed); ok {
			return header, true
		}
	}

	// Stage 3: fuzzy match over whatever is still unclaimed.
	if header, ok := claimFuzzy(fieldNorm, candidates, claimed, threshold); ok {
		return header, true
	}

	return "", false
}

// claimExact claims the candidate whose normalized name equals norm.
func claimExact(norm string, candidates []candidate, claimed map[string]bool) (string, bool) {
	for _, c := range candidates {
		if c.normalized == norm && !claimed[c.normalized] {
			claimed[c.normalized] = true
			return c.original, true
		}
	}
	return "", false
}

// claimFuzzy claims the best-scoring unclaimed candidate at or above the
// threshold. Strictly-better wins, so earlier columns win ties.
func claimFuzzy(target string, candidates []candidate, claimed map[string]bool, threshold float64) (string, bool) {
	bestScore := 0.0
	bestIdx := -1

	for i, c := range candidates {
		if claimed[c.normalized] {
			continue
		}
		score := Similarity(target, c.normalized)
		if score >= threshold && score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return "", false
	}
	claimed[candidates[bestIdx].normalized] = true
	return candidates[bestIdx].original, true
}

// =============================================================================
// SIMILARITY SCORE
// =============================================================================

// Similarity computes the composite score between a canonical field name and
// a candidate header, both already normalized. The score is the best of four
// metrics (character-set Jaccard, substring/affix, length similarity, and
// abbreviated-prefix) plus a whole-word-overlap bonus.
func Similarity(target, candidate string) float64 {
	t := nonWord.ReplaceAllString(target, "")
	c := nonWord.ReplaceAllString(candidate, "")
	if t == "" || c == "" {
		return 0
	}

	best := charJaccard(t, c)

	if s := substringScore(t, c); s > best {
		best = s
	}

	if s := lengthSimilarity(t, c) * lengthWeight; s > best {
		best = s
	}

	if s := shortNameScore(t, c); s > best {
		best = s
	}

	return best + wordOverlapBonus(target, candidate)
}

// charJaccard is |intersection| / |union| over the rune sets of both names.
func charJaccard(a, b string) float64 {
	setA := runeSet(a)
	setB := runeSet(b)

	intersection := 0
	for r := range setA {
		if setB[r] {
			intersection++
		}
	}
	union := len(setB)
	for r := range setA {
		if !setB[r] {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}

// substringScore awards full containment, or partial credit for matching
// 3-character prefixes and suffixes.
func substringScore(a, b string) float64 {
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return containmentScore
	}

	score := 0.0
	if len(a) >= 3 && len(b) >= 3 {
		if a[:3] == b[:3] {
			score += affixBonus
		}
		if len(a) >= 4 && len(b) >= 4 && a[len(a)-3:] == b[len(b)-3:] {
			score += affixBonus
		}
	}
	return score
}

// lengthSimilarity penalizes names of very different lengths.
func lengthSimilarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	return 1.0 - float64(diff)/float64(maxLen)
}

// shortNameScore handles abbreviated headers: a name of 3 characters or
// fewer that prefixes the longer name is a likely abbreviation.
func shortNameScore(a, b string) float64 {
	if len(a) > 3 && len(b) > 3 {
		return 0
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.HasPrefix(longer, shorter) {
		return shortPrefixScore
	}
	return 0
}

// wordOverlapBonus rewards whole words shared between the two names, split
// on underscores and whitespace.
func wordOverlapBonus(target, candidate string) float64 {
	targetWords := splitWords(target)
	candidateWords := splitWords(candidate)
	if len(targetWords) == 0 || len(candidateWords) == 0 {
		return 0
	}

	matches := 0
	for _, tw := range targetWords {
		for _, cw := range candidateWords {
			if tw == cw || strings.Contains(cw, tw) || strings.Contains(tw, cw) {
				matches++
				break
			}
		}
	}
	if matches == 0 {
		return 0
	}

	denom := len(targetWords)
	if len(candidateWords) > denom {
		denom = len(candidateWords)
	}
	return float64(matches) / float64(denom) * wordOverlapWeight
}

func splitWords(s string) []string {
	var words []string
	for _, w := range wordSplit.Split(s, -1) {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
