package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
	"github.com/facturaIA/paytext-invoice-service/internal/patterns"
)

const descPattern = `([A-Za-z][^.,;:!?\n₹$€]*?)`

// Line-item sentence templates. Each captures description, currency marker, amount.
var itemRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + descPattern + `[ \t]+(?:came\s+to|comes\s+to|is|for|was|costs?|totals?|totalled|at)[ \t]+` + patterns.CurrencyAmountPattern),
	regexp.MustCompile(`(?i)` + descPattern + `[ \t]+[-–—][ \t]*` + patterns.CurrencyAmountPattern),
	regexp.MustCompile(`(?i)` + descPattern + `[ \t]*:[ \t]*` + patterns.CurrencyAmountPattern),
	regexp.MustCompile(`(?im)^[ \t]*(?:[-*•]|\d+[.)])[ \t]*([^\n]+?)[ \t]+` + patterns.CurrencyAmountPattern),
}

var (
	summaryWords   = regexp.MustCompile(`(?i)\b(?:total|subtotal|overall|amount\s+payable|grand)\b`)
	leadingFillers = regexp.MustCompile(`(?i)^(?:(?:and|also|plus|then|&|the|a|an|my|our|your)\s+)+`)
	nonAlnum       = regexp.MustCompile(`[^a-z0-9]+`)

	clientRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i:\bbill(?:\s+it)?\s+to)[ \t]*:?[ \t]*` + namePattern),
		regexp.MustCompile(`(?i:\bfor\s+the)[ \t]+` + namePattern),
		regexp.MustCompile(`(?i:\b(?:hi|hello|dear|hey))[ \t,]+(?:(?i:mr|mrs|ms|miss|dr|prof)\.?[ \t]+)?` + namePattern),
		regexp.MustCompile(`(?i:\b(?:from|to))[ \t]+` + namePattern),
		regexp.MustCompile(`(?im)^[ \t]*(?:client|name)[ \t]*:[ \t]*([^\n]+?)[ \t]*$`),
	}
	clientStopwords = map[string]bool{"the": true, "a": true, "an": true, "for": true, "to": true, "from": true}

	companyRegex = regexp.MustCompile(`\b([A-Z][A-Za-z0-9&.'-]*(?:[ \t]+[A-Z][A-Za-z0-9&.'-]*){0,4}[ \t]+(?:Pvt\.?[ \t]+Ltd\.?|Private[ \t]+Limited|LLP|Ltd\.?|Limited|Inc\.?|Technologies|Solutions|Studios?))`)

	dueKeyword    = regexp.MustCompile(`(?i)\b(?:due|pay(?:able)?\s+by|payment\s+by|deadline|before)\b`)
	issuedKeyword = regexp.MustCompile(`(?i)\b(?:dated|invoice\s+date|issued(?:\s+on)?)\b`)
	bankContext   = regexp.MustCompile(`(?i)\b(?:bank|a/?c|acct|account|ifsc|neft|imps|rtgs)\b`)
)

// a keyword governs a date that starts within this many bytes after it
const keywordReach = 40

// A name is up to four capitalized words. Only a title or initial of at most
// two letters may end in a dot, so a sentence boundary ends the name.
const (
	nameWord    = `[A-Z](?:[A-Za-z]?\.(?:[A-Z]\.)*|[A-Za-z&'-]*)`
	namePattern = `(` + nameWord + `(?:[ \t]+` + nameWord + `){0,3})`
)

type itemCandidate struct {
	pos    int
	desc   string
	amount decimal.Decimal
	marker string
}

// Heuristic parses unlabeled prose. It reports what it finds and leaves
// totals arithmetic to reconciliation.
func (e *Extractor) Heuristic(text string) *models.Partial {
	p := models.NewPartial(models.SourceHeuristic)

	candidates := e.detectItems(text)
	for i, c := range candidates {
		p.Items = append(p.Items, newItem(i+1, c.desc, c.amount))
	}
	if len(candidates) > 0 {
		p.Currency = patterns.CurrencyFromMarker(candidates[0].marker)
	} else if amt, ok := patterns.FindAmount(text); ok {
		// a single bare amount stands for the whole invoice
		p.Total = decimal.NewNullDecimal(amt.Value)
		p.Currency = amt.Currency
	}

	p.ClientName = detectClientName(text)
	if m := companyRegex.FindStringSubmatch(text); m != nil {
		p.ClientCompany = cleanValue(m[1])
	}
	if rate, ok := patterns.FindTaxRate(text); ok {
		p.TaxRate = decimal.NewNullDecimal(rate)
	}

	if v, ok := patterns.FindEmail(text); ok {
		p.ClientEmail = v
	}
	if v, ok := patterns.FindPhone(text); ok {
		p.ClientPhone = v
	}
	if v, ok := patterns.FindGSTIN(text); ok {
		p.ClientGSTIN = v
	}

	dates := patterns.FindDates(text, e.refYear())
	p.DueDate = dateAfterKeyword(text, dates, dueKeyword)
	p.InvoiceDate = dateAfterKeyword(text, dates, issuedKeyword)

	p.PaymentInfo = detectPayment(text)
	return p
}

func (e *Extractor) detectItems(text string) []itemCandidate {
	var out []itemCandidate
	usedAmounts := map[int]bool{}
	seen := map[string]bool{}

	for _, re := range itemRegexes {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			amountPos := m[6]
			if usedAmounts[amountPos] {
				continue
			}
			desc := normalizeDescription(text[m[2]:m[3]])
			amount, ok := patterns.ParseNumber(text[m[6]:m[7]])
			if !ok || !e.acceptItem(desc, amount) {
				continue
			}
			key := dedupeKey(desc, amount)
			if seen[key] {
				continue
			}
			seen[key] = true
			usedAmounts[amountPos] = true
			out = append(out, itemCandidate{pos: amountPos, desc: desc, amount: amount, marker: text[m[4]:m[5]]})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	return out
}

func (e *Extractor) acceptItem(desc string, amount decimal.Decimal) bool {
	if len(desc) < 3 {
		return false
	}
	if summaryWords.MatchString(desc) {
		return false
	}
	if !amount.IsPositive() || amount.GreaterThan(e.maxItemAmount) {
		return false
	}
	return true
}

func normalizeDescription(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-*• \t")
	s = leadingFillers.ReplaceAllString(s, "")
	return cleanValue(s)
}

func dedupeKey(desc string, amount decimal.Decimal) string {
	norm := strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(desc), " "), " ")
	return norm + "|" + amount.StringFixed(2)
}

func detectClientName(text string) string {
	for _, re := range clientRegexes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := cleanValue(m[1])
			if len(name) < 2 || clientStopwords[strings.ToLower(name)] {
				continue
			}
			return name
		}
	}
	return ""
}

// dateAfterKeyword returns the first date that starts shortly after the keyword
func dateAfterKeyword(text string, dates []patterns.DateMatch, keyword *regexp.Regexp) string {
	for _, loc := range keyword.FindAllStringIndex(text, -1) {
		for _, d := range dates {
			if d.Start >= loc[1] && d.Start-loc[1] <= keywordReach {
				return d.Value
			}
		}
	}
	return ""
}

func detectPayment(text string) *models.PaymentInfo {
	info := &models.PaymentInfo{}
	if v, ok := patterns.FindUPI(text); ok {
		info.UPIID = v
	}
	if v, ok := patterns.FindIFSC(text); ok {
		info.IFSCCode = v
	}
	if bankContext.MatchString(text) {
		if v, ok := patterns.FindAccountNumber(text); ok {
			info.AccountNumber = v
		}
	}
	if v, ok := patterns.FindAccountHolder(text); ok {
		info.AccountHolderName = v
	}
	if v, ok := patterns.FindBankName(text); ok {
		info.BankName = v
	} else if info.IFSCCode != "" {
		if v, ok := patterns.BankFromIFSC(info.IFSCCode); ok {
			info.BankName = v
		}
	}
	if info.IsEmpty() {
		return nil
	}
	return info
}
