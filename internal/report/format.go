package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NA marks an absent value
const NA = "N/A"

var crore = decimal.NewFromInt(10_000_000)

// Number formats a plain value with two decimals
func Number(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%.2f", *v)
}

// Percent formats a fraction as a percentage, 0.1234 -> "12.34%"
func Percent(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

// MarketCap formats rupees in crores with thousands separators, 1.5e12 -> "₹150,000.00 Cr"
func MarketCap(v *float64) string {
	if v == nil {
		return NA
	}
	cr := decimal.NewFromFloat(*v).Div(crore).Round(2)
	return "₹" + groupThousands(cr.StringFixed(2)) + " Cr"
}

// groupThousands inserts commas into the integer part of a fixed-point string
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + b.String() + frac
}
