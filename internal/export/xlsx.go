// Package export renders an extracted invoice as a spreadsheet.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

// SheetName is the single sheet in the workbook
const SheetName = "Invoice"

// itemsHeaderRow is where the line-item table starts
const itemsHeaderRow = 12

// InvoiceXLSX returns an XLSX workbook (as bytes) for one invoice.
// The header block sits in rows 1-10, the item table starts at row 12 and the
// totals follow the last item.
func InvoiceXLSX(inv *models.InvoiceData, invoiceNumber string) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("nil invoice")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(SheetName, cell, v)
	}

	header := [][2]string{
		{"Invoice Number", invoiceNumber},
		{"Invoice Date", inv.InvoiceDate},
		{"Due Date", inv.DueDate},
		{"Client", inv.ClientName},
		{"Company", inv.ClientCompany},
		{"Email", inv.ClientEmail},
		{"Phone", inv.ClientPhone},
		{"GSTIN", inv.ClientGSTIN},
		{"Currency", inv.Currency},
		{"Notes", inv.Notes},
	}
	for i, kv := range header {
		write(1, i+1, kv[0])
		write(2, i+1, kv[1])
	}

	for i, h := range []string{"#", "Description", "Quantity", "Rate", "Amount"} {
		write(i+1, itemsHeaderRow, h)
	}

	row := itemsHeaderRow + 1
	for i, item := range inv.Items {
		write(1, row, i+1)
		write(2, row, item.Description)
		write(3, row, item.Quantity.InexactFloat64())
		write(4, row, item.Rate.InexactFloat64())
		write(5, row, item.Amount.InexactFloat64())
		row++
	}

	row++
	taxLabel := "Tax"
	if inv.TaxRate.Valid {
		taxLabel = fmt.Sprintf("Tax (%s%%)", inv.TaxRate.Decimal.String())
	}
	for _, t := range []struct {
		label string
		value decimal.NullDecimal
	}{
		{"Subtotal", inv.Subtotal},
		{taxLabel, inv.TaxAmount},
		{"Total", inv.Total},
	} {
		write(4, row, t.label)
		if t.value.Valid {
			write(5, row, t.value.Decimal.InexactFloat64())
		}
		row++
	}

	if pi := inv.PaymentInfo; !pi.IsEmpty() {
		row++
		write(1, row, "Payment")
		row++
		for _, kv := range [][2]string{
			{"UPI", pi.UPIID},
			{"Account Number", pi.AccountNumber},
			{"IFSC", pi.IFSCCode},
			{"Bank", pi.BankName},
			{"Account Holder", pi.AccountHolderName},
		} {
			if kv[1] == "" {
				continue
			}
			write(1, row, kv[0])
			write(2, row, kv[1])
			row++
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetName, "A", "A", 16)
	_ = f.SetColWidth(SheetName, "B", "B", 40)
	_ = f.SetColWidth(SheetName, "C", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
