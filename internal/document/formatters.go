package document

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Display sentinels. A missing optional value must never abort a render,
// the shaped model carries these strings instead.
const (
	MissingAmount = "N/A"
	MissingDate   = "Non renseignée"
	NoneEntry     = "Néant"
)

// FormatAmount renders an amount for display: thousands grouped with a
// space, comma decimal separator, euro sign. Cents are only shown when the
// amount has a fractional part. withTax appends the tax-inclusive marker.
// NaN and infinities come from absent optional amounts and yield the "N/A"
// sentinel.
func FormatAmount(amount float64, withTax bool) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return MissingAmount
	}

	negative := amount < 0
	if negative {
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	grouped := groupThousands(whole)
	var out string
	if frac == 0 {
		out = fmt.Sprintf("%s €", grouped)
	} else {
		out = fmt.Sprintf("%s,%02d €", grouped, frac)
	}
	if negative {
		out = "-" + out
	}
	if withTax {
		out += " TTC"
	}
	return out
}

// FormatAmountPtr is FormatAmount for optional amounts
func FormatAmountPtr(amount *float64, withTax bool) string {
	if amount == nil {
		return MissingAmount
	}
	return FormatAmount(*amount, withTax)
}

// FormatDate renders a date as dd/mm/yyyy, with a fixed sentinel for
// missing or zero values
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return MissingDate
	}
	return t.Format("02/01/2006")
}

// FormatPercent renders a result percentage, e.g. 12.5 -> "12,5 %"
func FormatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return MissingAmount
	}
	s := fmt.Sprintf("%.2f", p)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return strings.ReplaceAll(s, ".", ",") + " %"
}

func groupThousands(n int64) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
