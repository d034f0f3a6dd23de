package patterns

import (
	"regexp"

	"github.com/shopspring/decimal"
)

const percentPattern = `(\d{1,3}(?:\.\d+)?)`

var taxRateRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bGST\s*@\s*` + percentPattern + `\s*%`),
	regexp.MustCompile(`(?i)` + percentPattern + `\s*%\s*GST\b`),
	regexp.MustCompile(`(?i)\bGST\s*:?\s*` + percentPattern + `\s*%`),
	regexp.MustCompile(`(?i)\bGST\s+of\s+` + percentPattern + `\s*%`),
	regexp.MustCompile(`(?i)` + percentPattern + `\s*%\s*tax\b`),
	regexp.MustCompile(`(?i)\btax\s*:?\s*` + percentPattern + `\s*%`),
	regexp.MustCompile(`(?i)\btax\s+rate\s*(?:of|:)?\s*` + percentPattern + `\s*%`),
}

var hundred = decimal.NewFromInt(100)

// FindTaxRate returns a tax percentage between 0 and 100
func FindTaxRate(text string) (decimal.Decimal, bool) {
	for _, re := range taxRateRegexes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			d, err := decimal.NewFromString(m[1])
			if err != nil || d.IsNegative() || d.GreaterThan(hundred) {
				continue
			}
			return d, true
		}
	}
	return decimal.Zero, false
}
