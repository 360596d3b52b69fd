// Package allocation holds the replenishment calculators: report-line
// parsing, row aggregation, min/max clamping, run and batch generation,
// execution, and dashboard analytics. Everything here is pure computation
// over domain values; persistence and transport stay outside.
package allocation

import (
	"regexp"
	"strings"
)

// skuPattern matches the first bracketed digit run, e.g. "[1043]".
var skuPattern = regexp.MustCompile(`\[(\d+)\]`)

// parenPattern matches non-nested parenthetical groups.
var parenPattern = regexp.MustCompile(`\(([^()]*)\)`)

// agePattern matches age sizes such as "6Y" or "18MO" (input upper-cased).
var agePattern = regexp.MustCompile(`^\d+(?:Y|MO)$`)

// rangePattern matches numeric size ranges such as "6/7".
var rangePattern = regexp.MustCompile(`^\d+/\d+$`)

// letterSizes is the fixed set of letter size tokens the grammar accepts.
var letterSizes = map[string]struct{}{
	"XS":   {},
	"S":    {},
	"M":    {},
	"L":    {},
	"XL":   {},
	"XXL":  {},
	"XXXL": {},
}

// quantityHeaderToken is the column header some exports emit as a row of
// its own; it must never become a category.
const quantityHeaderToken = "quantity"

// arabicComma separates size/color pairs in Arabic-locale reports.
const arabicComma = "،"

// ParsedLine is the structured form of one report line. An empty SKU means
// the line was not a product line.
type ParsedLine struct {
	SKU   string
	Color string
	Size  string
}

// PairOrder tags how a parenthetical group maps onto the (size, color)
// slots.
type PairOrder int

const (
	OrderNone PairOrder = iota
	OrderSingleSize
	OrderSingleColor
	OrderSizeFirst
	OrderColorFirst
)

// IsSizeToken reports whether a token matches the size grammar: an integer,
// a letter size, an age token, or a numeric range.
func IsSizeToken(tok string) bool {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return false
	}
	if isDigits(tok) {
		return true
	}
	upper := strings.ToUpper(tok)
	if _, ok := letterSizes[upper]; ok {
		return true
	}
	if agePattern.MatchString(upper) {
		return true
	}
	return rangePattern.MatchString(tok)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// ClassifyPair decides slot order for the trimmed, non-empty parts of a
// parenthetical group. Ambiguous two-part groups default to color-first;
// only a size-grammar match in the first slot alone flips the order.
func ClassifyPair(parts []string) PairOrder {
	switch len(parts) {
	case 0:
		return OrderNone
	case 1:
		if IsSizeToken(parts[0]) {
			return OrderSingleSize
		}
		return OrderSingleColor
	default:
		if IsSizeToken(parts[0]) && !IsSizeToken(parts[1]) {
			return OrderSizeFirst
		}
		return OrderColorFirst
	}
}

// SplitPair splits a parenthetical body on ASCII or Arabic commas into at
// most two trimmed, non-empty parts.
func SplitPair(body string) []string {
	normalized := strings.ReplaceAll(body, arabicComma, ",")
	parts := make([]string, 0, 2)
	for _, p := range strings.Split(normalized, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts = append(parts, p)
		if len(parts) == 2 {
			break
		}
	}
	return parts
}

// ParseLine extracts the SKU and the (size, color) pair from one report
// line. The SKU is the first bracketed digit run; the pair comes from the
// last parenthetical group. Lines without a bracketed SKU come back with an
// empty SKU and the caller treats them as category headers.
func ParseLine(text string) ParsedLine {
	m := skuPattern.FindStringSubmatch(text)
	if m == nil {
		return ParsedLine{}
	}
	parsed := ParsedLine{SKU: m[1]}

	groups := parenPattern.FindAllStringSubmatch(text, -1)
	if len(groups) == 0 {
		return parsed
	}
	parts := SplitPair(groups[len(groups)-1][1])

	switch ClassifyPair(parts) {
	case OrderSingleSize:
		parsed.Size = parts[0]
	case OrderSingleColor:
		parsed.Color = parts[0]
	case OrderSizeFirst:
		parsed.Size = parts[0]
		parsed.Color = parts[1]
	case OrderColorFirst:
		parsed.Color = parts[0]
		parsed.Size = parts[1]
	}
	return parsed
}

// IsQuantityHeader reports whether the text is the bare "quantity" column
// header.
func IsQuantityHeader(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), quantityHeaderToken)
}
