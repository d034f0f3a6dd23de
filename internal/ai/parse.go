package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
	"github.com/facturaIA/paytext-invoice-service/internal/patterns"
	"github.com/facturaIA/paytext-invoice-service/internal/validation"
)

var (
	hundred    = decimal.NewFromInt(100)
	nonNumeric = regexp.MustCompile(`[^\d.\-]`)
	isoCode    = regexp.MustCompile(`^[A-Z]{3}$`)
)

// extractJSONObject returns the first balanced {...} block, skipping braces
// inside string literals. Code fences and surrounding prose are ignored.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	for start >= 0 {
		depth := 0
		inString, escaped := false, false
		for i := start; i < len(s); i++ {
			c := s[i]
			if inString {
				switch {
				case escaped:
					escaped = false
				case c == '\\':
					escaped = true
				case c == '"':
					inString = false
				}
				continue
			}
			switch c {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
		// unbalanced from here; try the next opening brace
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// parseResponse turns a raw model reply into a typed partial result
func parseResponse(response string, refYear int) (*models.Partial, error) {
	body, ok := extractJSONObject(response)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}
	if err := validateShape([]byte(body)); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	return toPartial(raw, refYear), nil
}

// toPartial is the only place untyped model output becomes typed data
func toPartial(raw map[string]any, refYear int) *models.Partial {
	p := models.NewPartial(models.SourceAI)

	p.ClientName = stringValue(raw["clientName"])
	p.ClientCompany = stringValue(raw["clientCompany"])
	p.ClientEmail = stringValue(raw["clientEmail"])
	p.ClientPhone = stringValue(raw["clientPhone"])
	p.ClientAddress = stringValue(raw["clientAddress"])
	if gstin := stringValue(raw["clientGstin"]); gstin != "" {
		p.ClientGSTIN = validation.NormalizeGSTIN(gstin)
	}
	p.Notes = stringValue(raw["notes"])

	p.InvoiceDate = dateValue(raw["invoiceDate"], refYear)
	p.DueDate = dateValue(raw["dueDate"], refYear)
	p.Currency = currencyValue(raw["currency"])

	p.Subtotal = amountValue(raw["subtotal"])
	p.TaxAmount = amountValue(raw["taxAmount"])
	p.Total = amountValue(raw["total"])
	if rate, ok := parseDecimal(raw["taxRate"]); ok && !rate.IsNegative() && rate.LessThanOrEqual(hundred) {
		p.TaxRate = decimal.NewNullDecimal(rate)
	}

	if list, ok := raw["items"].([]any); ok {
		p.Items = itemsValue(list)
	}
	if m, ok := raw["paymentInfo"].(map[string]any); ok {
		p.PaymentInfo = paymentValue(m)
	}
	return p
}

func itemsValue(list []any) []models.LineItem {
	one := decimal.NewFromInt(1)
	var items []models.LineItem
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		desc := stringValue(m["description"])
		if desc == "" {
			continue
		}

		qty, ok := parseDecimal(m["quantity"])
		if !ok || qty.LessThan(one) {
			qty = one
		}
		rate, rateOK := parseDecimal(m["rate"])
		if rate.IsNegative() {
			rate = decimal.Zero
		}
		amount, amountOK := parseDecimal(m["amount"])
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		if !amountOK && rateOK {
			amount = rate.Mul(qty)
		}
		if !amount.IsPositive() {
			continue
		}
		if !rateOK || rate.IsZero() {
			rate = amount.Div(qty).Round(2)
		}

		items = append(items, models.LineItem{
			ID:          fmt.Sprintf("item-%d", len(items)+1),
			Description: desc,
			Quantity:    qty,
			Rate:        rate,
			Amount:      amount,
		})
	}
	return items
}

func paymentValue(m map[string]any) *models.PaymentInfo {
	pi := &models.PaymentInfo{
		UPIID:             stringValue(m["upiId"]),
		AccountNumber:     strings.ReplaceAll(stringValue(m["accountNumber"]), " ", ""),
		BankName:          stringValue(m["bankName"]),
		AccountHolderName: stringValue(m["accountHolderName"]),
	}
	if ifsc := stringValue(m["ifscCode"]); ifsc != "" {
		pi.IFSCCode = validation.NormalizeIFSC(ifsc)
	}
	if pi.BankName == "" && pi.IFSCCode != "" {
		if name, ok := patterns.BankFromIFSC(pi.IFSCCode); ok {
			pi.BankName = name
		}
	}
	if pi.IsEmpty() {
		return nil
	}
	return pi
}

// parseDecimal handles flexible number parsing from untyped JSON.
// Supports numbers, numeric strings and strings with commas or currency
// symbols (e.g. "₹3,965.34").
func parseDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(string(val))
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case string:
		cleaned := nonNumeric.ReplaceAllString(val, "")
		cleaned = strings.Trim(cleaned, ".")
		if cleaned == "" || cleaned == "-" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

func amountValue(v any) decimal.NullDecimal {
	d, ok := parseDecimal(v)
	if !ok || d.IsNegative() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func stringValue(v any) string {
	var s string
	switch val := v.(type) {
	case string:
		s = strings.TrimSpace(val)
	case json.Number:
		s = val.String()
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
	switch strings.ToLower(s) {
	case "null", "n/a", "none", "unknown":
		return ""
	}
	return s
}

func dateValue(v any, refYear int) string {
	s := stringValue(v)
	if s == "" {
		return ""
	}
	d, ok := patterns.NormalizeDate(s, refYear)
	if !ok {
		return ""
	}
	return d
}

func currencyValue(v any) string {
	s := stringValue(v)
	if s == "" {
		return ""
	}
	if code := strings.ToUpper(s); isoCode.MatchString(code) {
		return code
	}
	return patterns.CurrencyFromMarker(s)
}
