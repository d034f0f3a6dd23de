// Package reconcile merges partial extraction results into one invoice and
// recomputes its derived totals.
package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

// Provenance records which source supplied each field
type Provenance map[string]models.Source

// rank orders sources by precedence; higher wins
var rank = map[models.Source]int{
	models.SourceHeuristic: 1,
	models.SourceRegex:     2,
	models.SourceTemplate:  3,
	models.SourceAI:        4,
}

// Combine merges partials field by field. For every field the value from the
// highest-precedence source that has one wins (ai > template > heuristic);
// payment details are merged per sub-field. Nil partials are ignored and no
// totals are computed.
func Combine(partials ...*models.Partial) (*models.Partial, Provenance) {
	ordered := make([]*models.Partial, 0, len(partials))
	for _, p := range partials {
		if p != nil {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank[ordered[i].Source] < rank[ordered[j].Source]
	})

	out := models.NewPartial("")
	prov := Provenance{}
	for _, p := range ordered {
		src := p.Source
		str := func(field string, dst *string, v string) {
			if v != "" {
				*dst = v
				prov[field] = src
			}
		}
		num := func(field string, dst *decimal.NullDecimal, v decimal.NullDecimal) {
			if v.Valid {
				*dst = v
				prov[field] = src
			}
		}

		str("clientName", &out.ClientName, p.ClientName)
		str("clientCompany", &out.ClientCompany, p.ClientCompany)
		str("clientEmail", &out.ClientEmail, p.ClientEmail)
		str("clientPhone", &out.ClientPhone, p.ClientPhone)
		str("clientAddress", &out.ClientAddress, p.ClientAddress)
		str("clientGstin", &out.ClientGSTIN, p.ClientGSTIN)
		str("invoiceDate", &out.InvoiceDate, p.InvoiceDate)
		str("dueDate", &out.DueDate, p.DueDate)
		str("currency", &out.Currency, p.Currency)
		str("notes", &out.Notes, p.Notes)

		num("subtotal", &out.Subtotal, p.Subtotal)
		num("taxRate", &out.TaxRate, p.TaxRate)
		num("taxAmount", &out.TaxAmount, p.TaxAmount)
		num("total", &out.Total, p.Total)

		if len(p.Items) > 0 {
			out.Items = append([]models.LineItem(nil), p.Items...)
			prov["items"] = src
		}

		if pi := p.PaymentInfo; !pi.IsEmpty() {
			if out.PaymentInfo == nil {
				out.PaymentInfo = &models.PaymentInfo{}
			}
			str("paymentInfo.upiId", &out.PaymentInfo.UPIID, pi.UPIID)
			str("paymentInfo.ifscCode", &out.PaymentInfo.IFSCCode, pi.IFSCCode)
			str("paymentInfo.accountNumber", &out.PaymentInfo.AccountNumber, pi.AccountNumber)
			str("paymentInfo.bankName", &out.PaymentInfo.BankName, pi.BankName)
			str("paymentInfo.accountHolderName", &out.PaymentInfo.AccountHolderName, pi.AccountHolderName)
		}
	}
	return out, prov
}

// HasData reports whether a partial carries at least one field
func HasData(p *models.Partial) bool {
	if p == nil {
		return false
	}
	_, prov := Combine(p)
	return len(prov) > 0
}
