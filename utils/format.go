package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatAmountMinor renders an amount stored in minor currency units as a
// display string in major units: zero decimal places, space as thousands
// separator, currency symbol appended.
//
// 123456789 minor units, symbol "Ks" => "1 234 568 Ks"
//
// Presentation only. The formatted value is never parsed back and must not
// feed aggregation.
func FormatAmountMinor(amount int64, symbol string) string {
	major := decimal.NewFromInt(amount).
		Div(decimal.NewFromInt(100)).
		Round(0)

	formatted := groupThousands(major.String())
	if symbol == "" {
		return formatted
	}
	return formatted + " " + symbol
}

func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	n := len(digits)
	for i, r := range digits {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatDate renders a timestamp as the listing date label.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
