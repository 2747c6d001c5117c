package models

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	amountPrinter = message.NewPrinter(language.English)
	maxInt64      = decimal.NewFromInt(math.MaxInt64)
)

// FormatAmount renders d with thousands separators: 150000 -> "150,000", 1234.5 -> "1,234.50".
// Values beyond int64 are grouped from their exact decimal digits.
func FormatAmount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	r := d.Abs().Round(2)
	whole := r.Truncate(0)

	var digits string
	if whole.LessThanOrEqual(maxInt64) {
		digits = amountPrinter.Sprintf("%d", whole.IntPart())
	} else {
		digits = groupDigits(whole.String())
	}

	if r.Equal(whole) {
		return sign + digits
	}
	frac := r.Sub(whole).StringFixed(2) // "0.xx"
	return sign + digits + frac[1:]
}

// groupDigits inserts a comma every three digits of an unsigned integer string.
func groupDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/3)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// FormatRupees prefixes FormatAmount with the rupee sign.
func FormatRupees(d decimal.Decimal) string {
	return "₹" + FormatAmount(d)
}
