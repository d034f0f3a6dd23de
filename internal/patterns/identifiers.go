package patterns

import (
	"regexp"
	"strings"

	"github.com/facturaIA/paytext-invoice-service/internal/validation"
)

var (
	gstinLabeledRegex = regexp.MustCompile(`(?i)\bGST(?:IN)?(?:\s*(?:no\.?|number|#))?\s*[:\-]?\s*([0-9A-Za-z]{15})\b`)
	gstinBareRegex    = regexp.MustCompile(`(?i)\b(` + validation.GSTINPattern + `)\b`)

	ifscLabeledRegex = regexp.MustCompile(`(?i)\bIFSC(?:\s*code)?\s*[:\-]?\s*(` + validation.IFSCPattern + `)\b`)
	ifscBareRegex    = regexp.MustCompile(`\b([A-Z]{4}0[A-Z0-9]{6})\b`)

	upiLabeledRegex = regexp.MustCompile(`(?i)\b(?:UPI|VPA|GPay|PhonePe|Paytm)(?:\s*ID)?\s*[:\-]?\s*([a-zA-Z0-9][a-zA-Z0-9._-]*@[a-zA-Z][a-zA-Z0-9]*)`)
	upiBareRegex    = regexp.MustCompile(`[a-zA-Z0-9][a-zA-Z0-9._-]{1,255}@[a-zA-Z][a-zA-Z0-9]{1,63}`)

	accountLabeledRegex = regexp.MustCompile(`(?i)\b(?:a/?c|acct|account)(?:\s*(?:no\.?|number|num|#))?\s*[:\-]?\s*(\d{9,18})\b`)
	accountBareRegex    = regexp.MustCompile(`\b(\d{9,18})\b`)

	holderRegex = regexp.MustCompile(`(?i)\b(?:account\s+holder(?:\s+name)?|a/?c\s+(?:holder|name)|beneficiary(?:\s+name)?|name\s+on\s+(?:the\s+)?account)\s*[:\-]\s*([A-Za-z][A-Za-z.' ]{1,60}[A-Za-z.])`)
)

// FindGSTIN returns a tax ID, preferring one introduced by a GST/GSTIN label
func FindGSTIN(text string) (string, bool) {
	for _, m := range gstinLabeledRegex.FindAllStringSubmatch(text, -1) {
		if validation.ValidGSTIN(m[1]) {
			return validation.NormalizeGSTIN(m[1]), true
		}
	}
	if m := gstinBareRegex.FindStringSubmatch(text); m != nil {
		return validation.NormalizeGSTIN(m[1]), true
	}
	return "", false
}

// FindIFSC returns a bank routing code, uppercased
func FindIFSC(text string) (string, bool) {
	if m := ifscLabeledRegex.FindStringSubmatch(text); m != nil {
		return validation.NormalizeIFSC(m[1]), true
	}
	if m := ifscBareRegex.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// FindUPI returns a UPI payment address. Email addresses are skipped.
func FindUPI(text string) (string, bool) {
	if m := upiLabeledRegex.FindStringSubmatch(text); m != nil && !followedByDomain(text, m[1]) {
		return m[1], true
	}
	for _, loc := range upiBareRegex.FindAllStringIndex(text, -1) {
		end := loc[1]
		if end < len(text) && text[end] == '.' && end+1 < len(text) && isLetter(text[end+1]) {
			continue
		}
		return text[loc[0]:end], true
	}
	return "", false
}

func followedByDomain(text, match string) bool {
	i := strings.Index(text, match)
	if i < 0 {
		return false
	}
	end := i + len(match)
	return end+1 < len(text) && text[end] == '.' && isLetter(text[end+1])
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// FindAccountNumber returns a 9-18 digit account number, preferring a labeled one.
// An unlabeled run of digits may also be a phone number.
func FindAccountNumber(text string) (string, bool) {
	if m := accountLabeledRegex.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := accountBareRegex.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// FindAccountHolder returns the name after an account-holder label
func FindAccountHolder(text string) (string, bool) {
	m := holderRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if len(name) < 2 {
		return "", false
	}
	return name, true
}
