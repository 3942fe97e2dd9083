package utils

import (
	"math"
	"strconv"
	"strings"
)

// Currency is an ISO 4217 code accepted for item prices.
type Currency string

const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyRUB Currency = "RUB"
)

var currencySymbols = map[Currency]string{
	CurrencyTRY: "₺",
	CurrencyUSD: "$",
	CurrencyEUR: "€",
	CurrencyRUB: "₽",
}

// IsValid reports whether c is one of the supported currencies.
func (c Currency) IsValid() bool {
	_, ok := currencySymbols[c]
	return ok
}

// CurrencySymbol returns the display symbol, or the code itself when unknown.
func CurrencySymbol(c Currency) string {
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return string(c)
}

// FormatPrice renders symbol + amount with thousands separators and at most two decimals.
func FormatPrice(price float64, c Currency) string {
	return CurrencySymbol(c) + groupThousands(price)
}

func groupThousands(v float64) string {
	neg := v < 0
	v = math.Round(math.Abs(v)*100) / 100

	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
