package patterns

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	// Indian mobile with optional +91 / 0 prefix, then any long international number
	phoneRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?:\+91[\s-]?|\b0|\b)[6-9]\d{4}[\s-]?\d{5}\b`),
		regexp.MustCompile(`\+\d{1,3}[\s-]?\(?\d{2,4}\)?[\s-]?\d{3,4}[\s-]?\d{3,4}\b`),
	}
)

// FindEmail returns the first email address
func FindEmail(text string) (string, bool) {
	m := emailRegex.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.TrimRight(m, "."), true
}

// FindPhone returns the first phone number as written
func FindPhone(text string) (string, bool) {
	for _, re := range phoneRegexes {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m), true
		}
	}
	return "", false
}
