package patterns

import (
	"regexp"
	"strings"
)

// ifscBanks maps the first four characters of an IFSC code to the bank
var ifscBanks = map[string]string{
	"SBIN": "State Bank of India",
	"HDFC": "HDFC Bank",
	"ICIC": "ICICI Bank",
	"UTIB": "Axis Bank",
	"KKBK": "Kotak Mahindra Bank",
	"PUNB": "Punjab National Bank",
	"BARB": "Bank of Baroda",
	"CNRB": "Canara Bank",
	"UBIN": "Union Bank of India",
	"IDIB": "Indian Bank",
	"BKID": "Bank of India",
	"YESB": "Yes Bank",
	"INDB": "IndusInd Bank",
	"IDFB": "IDFC FIRST Bank",
	"FDRL": "Federal Bank",
	"CBIN": "Central Bank of India",
	"IOBA": "Indian Overseas Bank",
	"MAHB": "Bank of Maharashtra",
	"UCBA": "UCO Bank",
	"PSIB": "Punjab & Sind Bank",
	"KARB": "Karnataka Bank",
	"SIBL": "South Indian Bank",
	"RATN": "RBL Bank",
	"AUBL": "AU Small Finance Bank",
}

type bankName struct {
	re   *regexp.Regexp
	name string
}

// Longer names first so "Bank of India" does not shadow "State Bank of India"
var bankNames = []bankName{
	{regexp.MustCompile(`(?i)\bstate\s+bank\s+of\s+india\b|\bSBI\b`), "State Bank of India"},
	{regexp.MustCompile(`(?i)\bcentral\s+bank\s+of\s+india\b`), "Central Bank of India"},
	{regexp.MustCompile(`(?i)\bunion\s+bank(?:\s+of\s+india)?\b`), "Union Bank of India"},
	{regexp.MustCompile(`(?i)\bindian\s+overseas\s+bank\b`), "Indian Overseas Bank"},
	{regexp.MustCompile(`(?i)\bpunjab\s+national\s+bank\b|\bPNB\b`), "Punjab National Bank"},
	{regexp.MustCompile(`(?i)\bpunjab\s*(?:&|and)\s*sind\s+bank\b`), "Punjab & Sind Bank"},
	{regexp.MustCompile(`(?i)\bbank\s+of\s+baroda\b`), "Bank of Baroda"},
	{regexp.MustCompile(`(?i)\bbank\s+of\s+maharashtra\b`), "Bank of Maharashtra"},
	{regexp.MustCompile(`(?i)\bkotak(?:\s+mahindra)?(?:\s+bank)?\b`), "Kotak Mahindra Bank"},
	{regexp.MustCompile(`(?i)\bHDFC(?:\s+bank)?\b`), "HDFC Bank"},
	{regexp.MustCompile(`(?i)\bICICI(?:\s+bank)?\b`), "ICICI Bank"},
	{regexp.MustCompile(`(?i)\baxis(?:\s+bank)?\b`), "Axis Bank"},
	{regexp.MustCompile(`(?i)\bIDFC(?:\s+first)?(?:\s+bank)?\b`), "IDFC FIRST Bank"},
	{regexp.MustCompile(`(?i)\bindusind(?:\s+bank)?\b`), "IndusInd Bank"},
	{regexp.MustCompile(`(?i)\byes\s+bank\b`), "Yes Bank"},
	{regexp.MustCompile(`(?i)\bcanara(?:\s+bank)?\b`), "Canara Bank"},
	{regexp.MustCompile(`(?i)\bfederal\s+bank\b`), "Federal Bank"},
	{regexp.MustCompile(`(?i)\bUCO\s+bank\b`), "UCO Bank"},
	{regexp.MustCompile(`(?i)\bkarnataka\s+bank\b`), "Karnataka Bank"},
	{regexp.MustCompile(`(?i)\bsouth\s+indian\s+bank\b`), "South Indian Bank"},
	{regexp.MustCompile(`(?i)\bRBL(?:\s+bank)?\b`), "RBL Bank"},
	{regexp.MustCompile(`(?i)\bAU\s+small\s+finance\s+bank\b`), "AU Small Finance Bank"},
	{regexp.MustCompile(`(?i)\bindian\s+bank\b`), "Indian Bank"},
	{regexp.MustCompile(`(?i)\bbank\s+of\s+india\b`), "Bank of India"},
}

// FindBankName returns a bank mentioned by name
func FindBankName(text string) (string, bool) {
	for _, b := range bankNames {
		if b.re.MatchString(text) {
			return b.name, true
		}
	}
	return "", false
}

// BankFromIFSC looks up the bank for a routing code by its first four characters
func BankFromIFSC(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 4 {
		return "", false
	}
	name, ok := ifscBanks[code[:4]]
	return name, ok
}
