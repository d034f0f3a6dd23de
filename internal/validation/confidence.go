package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

// Confidence computes a score in [0,1] describing how complete and
// self-consistent an extracted invoice is.
//
// Score breakdown (max 1.0):
//
//	Critical fields  - 0.15 each (0.60 total):
//	  client name, at least one item, total > 0, invoice date
//	Important fields - 0.05 each (0.20 total):
//	  client email or phone, due date, tax rate, payment details
//	Bonus            - 0.10 each (0.20 total):
//	  every identifier present passes its format check,
//	  total == subtotal + tax
func Confidence(inv *models.InvoiceData) float64 {
	if inv == nil {
		return 0
	}
	var score float64

	if strings.TrimSpace(inv.ClientName) != "" {
		score += 0.15
	}
	if len(inv.Items) > 0 {
		score += 0.15
	}
	if inv.Total.Valid && inv.Total.Decimal.IsPositive() {
		score += 0.15
	}
	if _, ok := parseDate(inv.InvoiceDate); ok {
		score += 0.15
	}

	if inv.ClientEmail != "" || inv.ClientPhone != "" {
		score += 0.05
	}
	if inv.DueDate != "" {
		score += 0.05
	}
	if inv.TaxRate.Valid {
		score += 0.05
	}
	if !inv.PaymentInfo.IsEmpty() {
		score += 0.05
	}

	if identifiersValid(inv) {
		score += 0.10
	}

	if inv.Total.Valid && inv.Subtotal.Valid {
		expected := inv.Subtotal.Decimal.Add(inv.TaxAmount.Decimal)
		if inv.Total.Decimal.Sub(expected).Abs().LessThanOrEqual(decimal.New(1, -2)) {
			score += 0.10
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func identifiersValid(inv *models.InvoiceData) bool {
	if inv.ClientGSTIN != "" && !ValidGSTIN(inv.ClientGSTIN) {
		return false
	}
	if inv.ClientEmail != "" && !ValidEmail(inv.ClientEmail) {
		return false
	}
	if p := inv.PaymentInfo; p != nil {
		if p.UPIID != "" && !ValidUPI(p.UPIID) {
			return false
		}
		if p.IFSCCode != "" && !ValidIFSC(p.IFSCCode) {
			return false
		}
	}
	return true
}
