// Package validation holds the format predicates shared by extraction
// scoring and pre-generation gating, plus the invoice validator built on them.
package validation

import (
	"regexp"
	"strings"
)

// Expected formats, reported back to callers on failure
const (
	GSTINFormat = "15 characters: 2 digits, 5 letters, 4 digits, 1 letter, 1 alphanumeric, 'Z', 1 alphanumeric (e.g. 27AAPFU0939F1ZV)"
	UPIFormat   = "handle@provider with no whitespace (e.g. name@okaxis)"
	IFSCFormat  = "4 letters, the digit 0, then 6 letters or digits (e.g. HDFC0001234)"
	EmailFormat = "local@domain.tld"
	DateFormat  = "YYYY-MM-DD"
)

// Unanchored shapes, also used by the text scanners
const (
	GSTINPattern = `\d{2}[A-Z]{5}\d{4}[A-Z][0-9A-Z]Z[0-9A-Z]`
	IFSCPattern  = `[A-Za-z]{4}0[A-Za-z0-9]{6}`
)

var (
	gstinRegex = regexp.MustCompile(`^` + GSTINPattern + `$`)
	ifscRegex  = regexp.MustCompile(`^` + IFSCPattern + `$`)
	upiRegex   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*@[A-Za-z][A-Za-z0-9]*$`)
	emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// NormalizeGSTIN trims and uppercases a tax ID
func NormalizeGSTIN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidGSTIN reports whether s is a full GSTIN. Lowercase input is accepted.
func ValidGSTIN(s string) bool {
	return gstinRegex.MatchString(NormalizeGSTIN(s))
}

// ValidUPI reports whether s has the token@token shape with no whitespace
func ValidUPI(s string) bool {
	return upiRegex.MatchString(s)
}

// NormalizeIFSC trims and uppercases a routing code
func NormalizeIFSC(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidIFSC reports whether s is a bank routing code, case-insensitive
func ValidIFSC(s string) bool {
	return ifscRegex.MatchString(strings.TrimSpace(s))
}

// ValidEmail is a loose address check
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}
