package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountResult carries a parsed monetary value plus whether the value had
// to be defaulted to zero because the input was empty or unparseable.
// Callers can count defaults without ever failing on dirty input.
type AmountResult struct {
	Value     decimal.Decimal
	Defaulted bool
}

// ParseAmount normalizes a locale-ambiguous monetary string. When both "."
// and "," appear, whichever occurs later is the decimal point and the other
// is a thousands separator; a lone "," is a decimal point; a lone "." is
// kept as-is. Anything unparseable yields zero, never an error.
func ParseAmount(raw string) AmountResult {
	s := stripAmount(raw)
	if s == "" {
		return AmountResult{Value: decimal.Zero, Defaulted: true}
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			// 1.234,56 -> 1234.56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56 -> 1234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return AmountResult{Value: decimal.Zero, Defaulted: true}
	}
	return AmountResult{Value: v}
}

// ParseCount coerces a count-like field (FTD counts in the legacy export)
// to an integer, defaulting to zero like ParseAmount does.
func ParseCount(raw string) (int64, bool) {
	res := ParseAmount(raw)
	if res.Defaulted {
		return 0, true
	}
	return res.Value.IntPart(), false
}

// stripAmount keeps only digits, separators and the minus sign.
func stripAmount(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, strings.TrimSpace(raw))
}
