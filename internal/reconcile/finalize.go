package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

var (
	hundred = decimal.NewFromInt(100)

	// largest gap between a stated total and subtotal+tax that is still rounding
	roundingSlack = decimal.New(1, -2)
)

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Finalize recomputes derived totals and fills defaults. It does not modify
// its input and running it on its own output changes nothing.
//
//  1. items present: subtotal = sum of item amounts
//  2. no items, only a total: subtotal is back-derived from the total
//  3. taxRate > 0: taxAmount = round2(subtotal * taxRate / 100), unless the
//     source that gave the rate also gave the amount
//  4. total = subtotal + taxAmount
//
// Without items a stated total stands when it agrees with the rate to within
// rounding; the tax then absorbs the cent so the sum still holds.
func Finalize(p *models.Partial, prov Provenance, now time.Time) *models.InvoiceData {
	out := clone(p)

	for i := range out.Items {
		normalizeItem(&out.Items[i])
	}

	rate := out.TaxRate
	positiveRate := rate.Valid && rate.Decimal.IsPositive()

	switch {
	case len(out.Items) > 0:
		sum := decimal.Zero
		for _, item := range out.Items {
			sum = sum.Add(item.Amount)
		}
		out.Subtotal = decimal.NewNullDecimal(round2(sum))

	case !out.Subtotal.Valid && out.Total.Valid:
		switch {
		case explicitTax(out, prov):
			out.Subtotal = decimal.NewNullDecimal(round2(out.Total.Decimal.Sub(out.TaxAmount.Decimal)))
		case positiveRate:
			divisor := decimal.NewFromInt(1).Add(rate.Decimal.Div(hundred))
			out.Subtotal = decimal.NewNullDecimal(round2(out.Total.Decimal.Div(divisor)))
		case out.TaxAmount.Valid:
			out.Subtotal = decimal.NewNullDecimal(round2(out.Total.Decimal.Sub(out.TaxAmount.Decimal)))
		default:
			out.Subtotal = decimal.NewNullDecimal(round2(out.Total.Decimal))
		}
	}

	if out.Subtotal.Valid {
		subtotal := round2(out.Subtotal.Decimal)
		out.Subtotal = decimal.NewNullDecimal(subtotal)

		tax := decimal.Zero
		if out.TaxAmount.Valid {
			tax = out.TaxAmount.Decimal
		}
		if positiveRate && !explicitTax(out, prov) {
			tax = subtotal.Mul(rate.Decimal).Div(hundred)
		}
		tax = round2(tax)
		total := subtotal.Add(tax)

		if len(out.Items) == 0 && out.Total.Valid && positiveRate && !explicitTax(out, prov) {
			stated := round2(out.Total.Decimal)
			if rest := stated.Sub(subtotal); !rest.IsNegative() && rest.Sub(tax).Abs().LessThanOrEqual(roundingSlack) {
				tax, total = rest, stated
			}
		}

		out.TaxAmount = decimal.NewNullDecimal(tax)
		out.Total = decimal.NewNullDecimal(total)
	}

	FillDefaults(out, now)
	return out
}

// explicitTax reports whether the tax amount came from the same source as the rate
func explicitTax(inv *models.InvoiceData, prov Provenance) bool {
	if !inv.TaxAmount.Valid || prov == nil {
		return false
	}
	amountSrc, ok := prov["taxAmount"]
	if !ok {
		return false
	}
	return amountSrc == prov["taxRate"]
}

// FillDefaults sets currency, invoice date and a non-nil items slice
func FillDefaults(inv *models.InvoiceData, now time.Time) {
	if inv.Currency == "" {
		inv.Currency = models.DefaultCurrency
	}
	if inv.InvoiceDate == "" {
		inv.InvoiceDate = now.Format("2006-01-02")
	}
	if inv.Items == nil {
		inv.Items = []models.LineItem{}
	}
}

// normalizeItem keeps amount == quantity * rate, with a stated amount taking priority
func normalizeItem(item *models.LineItem) {
	if !item.Quantity.IsPositive() {
		item.Quantity = decimal.NewFromInt(1)
	}
	switch {
	case item.Amount.IsPositive():
		item.Amount = round2(item.Amount)
		item.Rate = round2(item.Amount.Div(item.Quantity))
	case item.Rate.IsPositive():
		item.Rate = round2(item.Rate)
		item.Amount = round2(item.Rate.Mul(item.Quantity))
	}
}

func clone(p *models.Partial) *models.InvoiceData {
	if p == nil {
		return &models.InvoiceData{}
	}
	out := p.InvoiceData
	if p.Items != nil {
		out.Items = append([]models.LineItem(nil), p.Items...)
	}
	if p.PaymentInfo != nil {
		pi := *p.PaymentInfo
		out.PaymentInfo = &pi
	}
	return &out
}
