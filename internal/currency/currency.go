// =============================================================================
// POS Receipt Converter - Currency Formatter
// =============================================================================
//
// This module turns raw numeric export fields into the display strings used
// on the printed receipt.
//
// FORMATTING RULES:
//   - USD, the 4-space placeholder and the empty tag use 2 decimal places
//   - every other tag (KHR) uses 0 decimal places
//   - rounding is half away from zero on the exact binary value
//   - the integer part is grouped with commas every 3 digits
//   - the tag is appended verbatim as a suffix (right-aligned columns)
//
// EXAMPLES:
//   Format("1234567.5", " USD") -> "1,234,567.50 USD"
//   Format("1234567.5", " KHR") -> "1,234,568 KHR"
//   Format("abc", " USD")       -> "NaN USD"
//
// =============================================================================

package currency

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// =============================================================================
// UNIT TAGS
// =============================================================================

const (
	// TagUSD marks a dollar amount.
	TagUSD = " USD"

	// TagKHR marks a riel amount.
	TagKHR = " KHR"

	// TagPlaceholder keeps item totals aligned with the tagged columns
	// without printing a currency label.
	TagPlaceholder = "    "

	// TagNone formats with two decimals and no suffix.
	TagNone = ""
)

// numberPrefix matches the longest leading decimal literal of a field.
var numberPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// =============================================================================
// PUBLIC API
// =============================================================================

// Format renders raw as a grouped number with the decimal places selected by
// tag, followed by tag itself.
func Format(raw, tag string) string {
	return group(toFixed(ParseNumber(raw), Places(tag))) + tag
}

// Places returns the number of decimal places used for tag.
func Places(tag string) int {
	switch tag {
	case TagUSD, TagPlaceholder, TagNone:
		return 2
	default:
		return 0
	}
}

// ParseNumber reads the leading decimal number of raw, ignoring leading
// whitespace and any trailing text. It returns NaN when raw has no numeric
// prefix.
func ParseNumber(raw string) float64 {
	s := strings.TrimLeftFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})

	match := numberPrefix.FindString(s)
	if match == "" {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// IsNonZero reports whether v is a finite number other than zero.
func IsNonZero(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v != 0
}

// =============================================================================
// ROUNDING
// =============================================================================

// toFixed renders v with exactly places decimals.
func toFixed(v float64, places int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	neg := v < 0
	abs := math.Abs(v)

	// Very large magnitudes fall back to exponent notation.
	if abs >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	// 1074 digits print any float64 fraction exactly, so Round sees the
	// binary value rather than its shortest decimal form.
	exact, err := decimal.NewFromString(strconv.FormatFloat(abs, 'f', 1074, 64))
	if err != nil {
		return strconv.FormatFloat(v, 'f', places, 64)
	}

	out := exact.StringFixed(int32(places))
	if neg {
		out = "-" + out
	}
	return out
}

// =============================================================================
// GROUPING
// =============================================================================

// group inserts a comma every three integer digits from the right.
// Non-numeric renderings (NaN, Infinity, exponent form) pass through.
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}

	for _, r := range intPart {
		if r < '0' || r > '9' {
			return sign + s
		}
	}

	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	return sign + b.String() + fracPart
}
