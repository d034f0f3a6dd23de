// Package patterns contains stateless recognizers for the fields found in
// payment text. Every recognizer tries its variants in a fixed order and
// returns the first match.
package patterns

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value with the currency it was written in
type Amount struct {
	Value    decimal.Decimal
	Currency string
}

// NumberPattern matches a number with optional thousands separators
const NumberPattern = `\d[\d,]*(?:\.\d+)?`

// CurrencyPattern matches any supported currency marker
const CurrencyPattern = `(?:₹|\bRs\.?|\bINR|\$|\bUSD|€|\bEUR)`

// CurrencyAmountPattern captures an amount preceded by a currency marker
const CurrencyAmountPattern = `(` + CurrencyPattern + `)\s*(` + NumberPattern + `)`

type currencyVariant struct {
	currency string
	re       *regexp.Regexp
}

// Priority: ₹, Rs, INR, $, USD, €, EUR
var amountVariants = []currencyVariant{
	{"INR", regexp.MustCompile(`₹\s*(` + NumberPattern + `)`)},
	{"INR", regexp.MustCompile(`\bRs\.?\s*(` + NumberPattern + `)`)},
	{"INR", regexp.MustCompile(`\bINR\s*(` + NumberPattern + `)|(` + NumberPattern + `)\s*INR\b`)},
	{"USD", regexp.MustCompile(`\$\s*(` + NumberPattern + `)`)},
	{"USD", regexp.MustCompile(`\bUSD\s*(` + NumberPattern + `)|(` + NumberPattern + `)\s*USD\b`)},
	{"EUR", regexp.MustCompile(`€\s*(` + NumberPattern + `)`)},
	{"EUR", regexp.MustCompile(`\bEUR\s*(` + NumberPattern + `)|(` + NumberPattern + `)\s*EUR\b`)},
}

// FindAmount returns the first amount found, trying currency markers in priority order
func FindAmount(text string) (Amount, bool) {
	for _, v := range amountVariants {
		m := v.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for _, g := range m[1:] {
			if g == "" {
				continue
			}
			if d, ok := ParseNumber(g); ok {
				return Amount{Value: d, Currency: v.currency}, true
			}
		}
	}
	return Amount{}, false
}

// FindCurrency returns the currency of the first amount found
func FindCurrency(text string) (string, bool) {
	a, ok := FindAmount(text)
	if !ok {
		return "", false
	}
	return a.Currency, true
}

// CurrencyFromMarker maps a currency marker to its ISO code
func CurrencyFromMarker(marker string) string {
	m := strings.TrimSuffix(strings.TrimSpace(marker), ".")
	switch strings.ToUpper(m) {
	case "₹", "RS", "INR":
		return "INR"
	case "$", "USD":
		return "USD"
	case "€", "EUR":
		return "EUR"
	default:
		return ""
	}
}

// ParseNumber parses a number after stripping thousands separators
func ParseNumber(s string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	cleaned = strings.TrimSuffix(cleaned, ".")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
