// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rupee is the currency symbol used for every amount.
const Rupee = "₹"

// FormatRupees formats an amount in whole rupees with Indian digit grouping.
// e.g., 1234567 -> "₹12,34,567", -50000 -> "-₹50,000"
func FormatRupees(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-" + Rupee + FormatIndian(-n)
	}
	return Rupee + FormatIndian(n)
}

// FormatCompact formats an amount with lakh/crore suffixes for tight spaces.
// e.g., 550000 -> "₹5.5L", 12000000 -> "₹1.2Cr", 9500 -> "₹9.5K"
func FormatCompact(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	switch {
	case v >= 1_00_00_000:
		return fmt.Sprintf("%s%s%.1fCr", sign, Rupee, v/1_00_00_000)
	case v >= 1_00_000:
		return fmt.Sprintf("%s%s%.1fL", sign, Rupee, v/1_00_000)
	case v >= 1_000:
		return fmt.Sprintf("%s%s%.1fK", sign, Rupee, v/1_000)
	default:
		return sign + Rupee + strconv.FormatFloat(math.Round(v), 'f', -1, 64)
	}
}

// FormatIndian adds Indian-style separators to a non-negative integer:
// the last three digits, then groups of two.
// e.g., 1234567 -> "12,34,567"
func FormatIndian(n int64) string {
	if n < 0 {
		return "-" + FormatIndian(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatMonths formats a runway in months.
func FormatMonths(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64) + " months"
}

// FormatPercent formats a whole-number percentage.
func FormatPercent(p int) string {
	return strconv.Itoa(p) + "%"
}

// FormatSigned formats an amount with an explicit sign, for profit/loss.
func FormatSigned(v float64) string {
	if v >= 0 {
		return "+" + FormatRupees(v)
	}
	return FormatRupees(v)
}
