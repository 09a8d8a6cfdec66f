package pipeline

import (
	"strconv"
	"strings"

	"github.com/rowform/rowform/pkg/constants"
)

// Classification is the coercion kind assigned to a field key.
type Classification string

// String returns the string representation of a classification.
func (c Classification) String() string {
	return string(c)
}

// Classifications.
const (
	// ClassNone leaves the value a string.
	ClassNone Classification = "none"

	// ClassQuantity coerces to a positive integer, defaulting to 1.
	ClassQuantity Classification = "quantity"

	// ClassPrice coerces to a decimal with locale-aware separator
	// detection.
	ClassPrice Classification = "price"
)

// Classifier decides how a field key's values are coerced. Deployments
// can plug their own; the pipeline falls back to DefaultClassifier.
type Classifier func(key string) Classification

// quantity and price key fragments, checked in that order so a key
// carrying both words counts as a quantity.
var (
	quantityKeywords = []string{"quantity", "qty", "amount"}
	priceKeywords    = []string{"price", "cost", "total"}
)

// DefaultClassifier classifies a key by the fragments its lowercased
// name contains.
func DefaultClassifier(key string) Classification {
	k := strings.ToLower(key)
	for _, kw := range quantityKeywords {
		if strings.Contains(k, kw) {
			return ClassQuantity
		}
	}
	for _, kw := range priceKeywords {
		if strings.Contains(k, kw) {
			return ClassPrice
		}
	}
	return ClassNone
}

// ParseQuantity reads the leading integer of a raw value. Values
// without a usable positive number collapse to the default quantity
// of one.
func ParseQuantity(raw string) int64 {
	s := strings.TrimSpace(raw)

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return constants.DefaultQuantity
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil || n < 1 {
		return constants.DefaultQuantity
	}
	return n
}

// ParsePrice parses a decimal with locale-aware separator detection.
// A comma after the last dot marks a European decimal comma; otherwise
// commas are thousands separators and the dot is the decimal point.
// The boolean reports whether a number was found at all.
func ParsePrice(raw string) (float64, bool) {
	s := stripToNumber(raw)
	if s == "" {
		return 0, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	if lastComma > lastDot {
		// European style: dots group thousands, the final comma is the
		// decimal point.
		s = strings.ReplaceAll(s, ".", "")
		lastComma = strings.LastIndex(s, ",")
		s = s[:lastComma] + "." + s[lastComma+1:]
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// stripToNumber drops currency symbols, spaces, and any other
// character that cannot be part of a number.
func stripToNumber(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
