package calculator

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount in US dollars, e.g. "$1,234.56" or "-$54.20".
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + "$" + formatMagnitude(amount)
}

// FormatEntryAmount renders a transaction amount for a list row: income gets
// a leading "+", expenses show their magnitude only ("+$12.00", "$54.20").
func FormatEntryAmount(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+$" + formatMagnitude(amount)
	}
	return "$" + formatMagnitude(amount)
}

// FormatEntryDate renders a transaction date as month and day ("Jan 2").
func FormatEntryDate(t time.Time) string {
	return t.Local().Format("Jan 2")
}

func formatMagnitude(amount decimal.Decimal) string {
	whole, cents, _ := strings.Cut(amount.Abs().StringFixed(2), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return humanize.Comma(n) + "." + cents
	}
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return whole + "." + cents
	}
	return humanize.BigComma(n) + "." + cents
}
