package extract

import (
	"regexp"
	"strings"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
	"github.com/facturaIA/paytext-invoice-service/internal/patterns"
	"github.com/facturaIA/paytext-invoice-service/internal/validation"
)

var (
	clientLabel  = labelRegex(`client`)
	companyLabel = labelRegex(`company`)
	emailLabel   = labelRegex(`email`)
	phoneLabel   = labelRegex(`phone`)
	addressLabel = labelRegex(`address`)
	gstinLabel   = labelRegex(`gstin`)
	dueDateLabel = labelRegex(`due\s+date`)
	notesLabel   = labelRegex(`notes?`)

	itemsHeader = regexp.MustCompile(`(?im)^[ \t]*items[ \t]*:[ \t]*$`)
	itemBullet  = regexp.MustCompile(`^[ \t]*[-*•][ \t]*(.+?)[ \t]*:[ \t]*` + patterns.CurrencyAmountPattern + `[ \t]*$`)
)

func labelRegex(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*` + label + `[ \t]*:[ \t]*(.+?)[ \t]*$`)
}

// Template parses the labeled layout:
//
//	Client: <name>
//	Company: <company>
//	Email: <email>
//	Phone: <phone>
//	Items:
//	- <description>: <currency><amount>
//	Due Date: <date>
//
// Labels that are absent leave their field unset.
func (e *Extractor) Template(text string) *models.Partial {
	p := models.NewPartial(models.SourceTemplate)

	p.ClientName = firstLabel(clientLabel, text)
	p.ClientCompany = firstLabel(companyLabel, text)
	p.ClientEmail = firstLabel(emailLabel, text)
	p.ClientPhone = firstLabel(phoneLabel, text)
	p.ClientAddress = firstLabel(addressLabel, text)
	p.Notes = firstLabel(notesLabel, text)

	if g := firstLabel(gstinLabel, text); validation.ValidGSTIN(g) {
		p.ClientGSTIN = validation.NormalizeGSTIN(g)
	}
	if d := firstLabel(dueDateLabel, text); d != "" {
		if norm, ok := patterns.NormalizeDate(d, e.refYear()); ok {
			p.DueDate = norm
		}
	}

	items, currency := parseItemsBlock(text)
	p.Items = items
	p.Currency = currency
	return p
}

func firstLabel(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return cleanValue(m[1])
}

// parseItemsBlock reads bullet lines after "Items:" until the first line that is not a bullet
func parseItemsBlock(text string) ([]models.LineItem, string) {
	loc := itemsHeader.FindStringIndex(text)
	if loc == nil {
		return nil, ""
	}

	var items []models.LineItem
	currency := ""
	for _, line := range strings.Split(text[loc[1]:], "\n") {
		if strings.TrimSpace(line) == "" {
			if len(items) > 0 {
				break
			}
			continue
		}
		m := itemBullet.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			break
		}
		amount, ok := patterns.ParseNumber(m[3])
		desc := cleanValue(m[1])
		if !ok || desc == "" {
			continue
		}
		if currency == "" {
			currency = patterns.CurrencyFromMarker(m[2])
		}
		items = append(items, newItem(len(items)+1, desc, amount))
	}
	return items, currency
}
