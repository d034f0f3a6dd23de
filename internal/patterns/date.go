package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DateMatch is a recognized date and its byte offsets in the source text
type DateMatch struct {
	Value string // YYYY-MM-DD
	Start int
	End   int
}

const monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	// 5th March 2024, 5 Mar, 21st of June, 2024
	dayMonthRegex = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthNames + `)\b\.?(?:,?\s*(\d{4})\b)?`)
	// March 5, 2024 / Mar 5th
	monthDayRegex = regexp.MustCompile(`(?i)\b(` + monthNames + `)\b\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s*(\d{4})\b)?`)
	// 2024-03-05 / 2024/3/5
	isoDateRegex = regexp.MustCompile(`\b(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})\b`)
	// 05/03/2024 / 5-3-24, day first
	dmyDateRegex = regexp.MustCompile(`\b(\d{1,2})[-/.](\d{1,2})[-/.](\d{4}|\d{2})\b`)
)

var monthIndex = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// FindDate returns the first date in the text. refYear fills in a missing year.
func FindDate(text string, refYear int) (string, bool) {
	dates := FindDates(text, refYear)
	if len(dates) == 0 {
		return "", false
	}
	return dates[0].Value, true
}

// FindDates returns every recognizable date in text order.
// Ambiguous numeric dates are read day first.
func FindDates(text string, refYear int) []DateMatch {
	var out []DateMatch
	taken := func(start, end int) bool {
		for _, d := range out {
			if start < d.End && end > d.Start {
				return true
			}
		}
		return false
	}
	add := func(start, end int, value string, ok bool) {
		if ok && !taken(start, end) {
			out = append(out, DateMatch{Value: value, Start: start, End: end})
		}
	}

	for _, m := range dayMonthRegex.FindAllStringSubmatchIndex(text, -1) {
		v, ok := textualDate(group(text, m, 1), group(text, m, 2), group(text, m, 3), refYear)
		add(m[0], m[1], v, ok)
	}
	for _, m := range monthDayRegex.FindAllStringSubmatchIndex(text, -1) {
		v, ok := textualDate(group(text, m, 2), group(text, m, 1), group(text, m, 3), refYear)
		add(m[0], m[1], v, ok)
	}
	for _, m := range isoDateRegex.FindAllStringSubmatchIndex(text, -1) {
		v, ok := numericDate(group(text, m, 1), group(text, m, 2), group(text, m, 3))
		add(m[0], m[1], v, ok)
	}
	for _, m := range dmyDateRegex.FindAllStringSubmatchIndex(text, -1) {
		year := group(text, m, 3)
		if len(year) == 2 {
			year = "20" + year
		}
		v, ok := numericDate(year, group(text, m, 2), group(text, m, 1))
		add(m[0], m[1], v, ok)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// NormalizeDate converts a single date expression to YYYY-MM-DD
func NormalizeDate(s string, refYear int) (string, bool) {
	s = strings.TrimSpace(s)
	dates := FindDates(s, refYear)
	if len(dates) == 0 {
		return "", false
	}
	return dates[0].Value, true
}

func textualDate(day, month, year string, refYear int) (string, bool) {
	mon, ok := monthIndex[strings.ToLower(month)[:3]]
	if !ok {
		return "", false
	}
	y := refYear
	if year != "" {
		parsed, err := strconv.Atoi(year)
		if err != nil {
			return "", false
		}
		y = parsed
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", false
	}
	return formatDate(y, mon, d)
}

func numericDate(year, month, day string) (string, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	return formatDate(y, m, d)
}

func formatDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func group(text string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return text[m[2*i]:m[2*i+1]]
}
