package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

func TestValidGSTIN(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"27AAPFU0939F1ZV", true},
		{"27aapfu0939f1zv", true},
		{" 29ABCDE1234F1Z5 ", true},
		{"27AAPFU0939F1XV", false}, // anchor letter must be Z
		{"27AAPFU0939F0ZV", true}, // 13th char may be 0
		{"27AAPFU0939F1ZVX", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidGSTIN(tt.in))
		})
	}
	assert.Equal(t, "27AAPFU0939F1ZV", NormalizeGSTIN(" 27aapfu0939f1zv"))
}

func TestValidUPI(t *testing.T) {
	assert.True(t, ValidUPI("rahul.sharma@okaxis"))
	assert.True(t, ValidUPI("9876543210@ybl"))
	assert.False(t, ValidUPI("rahul sharma@okaxis"))
	assert.False(t, ValidUPI("rahul@"))
	assert.False(t, ValidUPI("@okaxis"))
	assert.False(t, ValidUPI("rahul@ok axis"))
}

func TestValidIFSC(t *testing.T) {
	assert.True(t, ValidIFSC("HDFC0001234"))
	assert.True(t, ValidIFSC("sbin0a1b2c3"))
	assert.False(t, ValidIFSC("HDFC1001234"))
	assert.False(t, ValidIFSC("HDF0001234"))
	assert.False(t, ValidIFSC("HDFC000123"))
}

func completeInvoice() *models.InvoiceData {
	return &models.InvoiceData{
		ClientName:  "Priya Mehta",
		ClientEmail: "priya@example.com",
		InvoiceDate: "2024-03-01",
		DueDate:     "2024-03-15",
		Currency:    "INR",
		Items: []models.LineItem{
			{ID: "item-1", Description: "Logo redesign", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(3200), Amount: decimal.NewFromInt(3200)},
			{ID: "item-2", Description: "Website banner set", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(4500), Amount: decimal.NewFromInt(4500)},
		},
		Subtotal:    decimal.NewNullDecimal(decimal.NewFromInt(7700)),
		TaxRate:     decimal.NewNullDecimal(decimal.NewFromInt(18)),
		TaxAmount:   decimal.NewNullDecimal(decimal.NewFromInt(1386)),
		Total:       decimal.NewNullDecimal(decimal.NewFromInt(9086)),
		PaymentInfo: &models.PaymentInfo{UPIID: "priya@okhdfcbank"},
	}
}

func TestInvoiceValidator_Validate(t *testing.T) {
	v := NewInvoiceValidator()

	t.Run("complete invoice passes", func(t *testing.T) {
		res := v.Validate(completeInvoice())
		assert.True(t, res.Valid)
		assert.False(t, res.NeedsReview)
		assert.Empty(t, res.Errors)
		assert.Equal(t, "9086.00", res.Computed.Total.StringFixed(2))
	})

	tests := []struct {
		name      string
		mutate    func(inv *models.InvoiceData)
		wantField string
		wantCode  string
	}{
		{"missing client", func(inv *models.InvoiceData) { inv.ClientName = " " }, "clientName", "required"},
		{"bad gstin", func(inv *models.InvoiceData) { inv.ClientGSTIN = "27AAPFU0939" }, "clientGstin", "invalid_format"},
		{"bad upi", func(inv *models.InvoiceData) { inv.PaymentInfo.UPIID = "priya at bank" }, "paymentInfo.upiId", "invalid_format"},
		{"bad ifsc", func(inv *models.InvoiceData) { inv.PaymentInfo.IFSCCode = "HDFC1234567" }, "paymentInfo.ifscCode", "invalid_format"},
		{"bad date", func(inv *models.InvoiceData) { inv.DueDate = "15/03/2024" }, "dueDate", "invalid_format"},
		{"subtotal mismatch", func(inv *models.InvoiceData) { inv.Subtotal = decimal.NewNullDecimal(decimal.NewFromInt(7000)) }, "subtotal", "subtotal_mismatch"},
		{"total mismatch", func(inv *models.InvoiceData) { inv.Total = decimal.NewNullDecimal(decimal.NewFromInt(9000)) }, "total", "total_mismatch"},
		{"no amounts", func(inv *models.InvoiceData) {
			inv.Items = nil
			inv.Total = decimal.NullDecimal{}
		}, "items", "no_amount"},
		{"zero quantity", func(inv *models.InvoiceData) { inv.Items[0].Quantity = decimal.Zero }, "items[0].quantity", "out_of_range"},
		{"rate above 100", func(inv *models.InvoiceData) { inv.TaxRate = decimal.NewNullDecimal(decimal.NewFromInt(120)) }, "taxRate", "out_of_range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := completeInvoice()
			tt.mutate(inv)
			res := v.Validate(inv)
			require.False(t, res.Valid)
			found := false
			for _, e := range res.Errors {
				if e.Field == tt.wantField && e.Code == tt.wantCode {
					found = true
				}
			}
			assert.True(t, found, "expected %s/%s in %+v", tt.wantField, tt.wantCode, res.Errors)
		})
	}
}

func TestInvoiceValidator_Warnings(t *testing.T) {
	inv := completeInvoice()
	inv.DueDate = "2024-02-01"
	inv.PaymentInfo = nil

	res := NewInvoiceValidator().Validate(inv)
	assert.True(t, res.Valid)
	assert.True(t, res.NeedsReview)
	assert.Len(t, res.Warnings, 2)
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "paymentInfo.ifscCode", Message: "invalid IFSC code", Expected: IFSCFormat}
	assert.Contains(t, err.Error(), "paymentInfo.ifscCode")
	assert.Contains(t, err.Error(), "expected 4 letters")
}

func TestConfidence(t *testing.T) {
	assert.InDelta(t, 1.0, Confidence(completeInvoice()), 0.0001)

	sparse := &models.InvoiceData{InvoiceDate: "2024-03-01"}
	assert.InDelta(t, 0.25, Confidence(sparse), 0.0001)

	bad := completeInvoice()
	bad.ClientGSTIN = "not-a-gstin"
	assert.InDelta(t, 0.9, Confidence(bad), 0.0001)
}
