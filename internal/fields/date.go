// =============================================================================
// Receipt Normalizer - Date Field Parsing
// =============================================================================
//
// Dates arrive in whatever shape the landlord's spreadsheet produced. This
// module normalizes them to ISO (YYYY-MM-DD) strings in two passes:
//   1. A ladder of known layouts, tried in order. ISO itself is first so a
//      clean file is recognized without correction. Components may be
//      zero-padded or not; both parse.
//   2. A regex repair pass for inputs none of the layouts accept, such as
//      mixed separators or trailing junk. Repair only runs when
//      auto-correction is enabled.
//
// All downstream date comparison is done on the ISO strings, which order
// lexicographically the same as chronologically.
//
// =============================================================================

package fields

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// isoDateLayout is the canonical output layout.
const isoDateLayout = "2006-01-02"

// dateLayouts is the ladder of accepted input layouts, tried in order.
// Day-first layouts come before month-first, since the inputs are
// Portuguese; ambiguous values like 03/04/2024 resolve as day/month.
// The unpadded forms ("2/1/2006") accept one- and two-digit day and month
// components, so "5/7/2024" parses the same as "05/07/2024".
var dateLayouts = []string{
	"2006-1-2", // ISO (preferred)
	"2/1/2006", // Portuguese
	"2-1-2006", // alternative Portuguese
	"2006/1/2", // alternative ISO
	"1/2/2006", // US
	"2.1.2006", // European
	"2006.1.2", // alternative European
}

// repairPattern extracts three numeric date components joined by /, - or .
// from an otherwise unparseable input. The year must be the 4-digit part;
// if the first component is 4 digits the order is year/month/day, otherwise
// day/month/year.
var repairPattern = regexp.MustCompile(`^(\d{1,4})[/\-.](\d{1,2})[/\-.](\d{1,4})`)

var dateWhitespace = regexp.MustCompile(`\s+`)

// ParseDate normalizes a raw date string to ISO format.
//
// The input is trimmed before anything else; that trim is canonicalization,
// not a correction (pipeline cells arrive pre-trimmed from the reader).
//
// RETURNS:
//   - The ISO date string, or "" when the input cannot be interpreted.
//   - Whether the output differs from the trimmed input, i.e. whether a
//     correction was applied.
func ParseDate(raw string, autoCorrect bool) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		iso := parsed.Format(isoDateLayout)
		return iso, iso != trimmed
	}

	if autoCorrect {
		if iso := repairDate(trimmed); iso != "" {
			return iso, true
		}
	}

	return "", false
}

// repairDate attempts a component-level repair of an input none of the
// layouts accepted. Returns "" when no valid calendar date can be extracted.
func repairDate(raw string) string {
	cleaned := dateWhitespace.ReplaceAllString(raw, "")

	match := repairPattern.FindStringSubmatch(cleaned)
	if match == nil {
		return ""
	}

	var year, month, day string
	if len(match[1]) == 4 {
		year, month, day = match[1], match[2], match[3]
	} else {
		day, month, year = match[1], match[2], match[3]
	}

	// Two-digit years are too ambiguous to guess at.
	if len(year) != 4 {
		return ""
	}

	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)

	if !isCalendarDate(y, m, d) {
		return ""
	}

	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).Format(isoDateLayout)
}

// isCalendarDate verifies the components name a real calendar day, catching
// overflow dates like February 30th that time.Date would silently normalize.
func isCalendarDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}
