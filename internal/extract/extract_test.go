package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
	"github.com/facturaIA/paytext-invoice-service/internal/reconcile"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestExtractor() *Extractor {
	return NewExtractor(WithClock(func() time.Time { return fixedNow }))
}

const templateText = `Client: Rahul Sharma
Company: Sharma Designs Pvt Ltd
Email: rahul@sharmadesigns.in
Phone: +91 98765 43210
Items:
- Logo design: ₹15,000
- Brand guidelines: ₹8,500.50
- Social media kit: Rs. 4,000
Due Date: 30th June 2024`

func TestTemplate(t *testing.T) {
	p := newTestExtractor().Template(templateText)

	assert.Equal(t, models.SourceTemplate, p.Source)
	assert.Equal(t, "Rahul Sharma", p.ClientName)
	assert.Equal(t, "Sharma Designs Pvt Ltd", p.ClientCompany)
	assert.Equal(t, "rahul@sharmadesigns.in", p.ClientEmail)
	assert.Equal(t, "+91 98765 43210", p.ClientPhone)
	assert.Equal(t, "2024-06-30", p.DueDate)
	assert.Equal(t, "INR", p.Currency)

	require.Len(t, p.Items, 3)
	assert.Equal(t, "item-1", p.Items[0].ID)
	assert.Equal(t, "Logo design", p.Items[0].Description)
	assert.Equal(t, "15000.00", p.Items[0].Amount.StringFixed(2))
	assert.Equal(t, "8500.50", p.Items[1].Amount.StringFixed(2))
	assert.Equal(t, "item-3", p.Items[2].ID)
	assert.Equal(t, "1", p.Items[2].Quantity.String())
	assert.False(t, p.Total.Valid, "totals are left to reconciliation")
}

func TestTemplate_AbsentLabels(t *testing.T) {
	p := newTestExtractor().Template("hello, please pay ₹500")
	assert.Empty(t, p.ClientName)
	assert.Empty(t, p.Items)
	assert.Empty(t, p.DueDate)
}

func TestHeuristic_Examples(t *testing.T) {
	e := newTestExtractor()

	t.Run("bare amount", func(t *testing.T) {
		p := e.Heuristic("Please pay ₹5,000.00 for services")
		assert.Empty(t, p.Items)
		require.True(t, p.Total.Valid)
		assert.Equal(t, "5000.00", p.Total.Decimal.StringFixed(2))
		assert.Equal(t, "INR", p.Currency)
	})

	t.Run("sentence items", func(t *testing.T) {
		p := e.Heuristic("Logo redesign came to ₹3,200 and the website banner set is ₹4,500")
		require.Len(t, p.Items, 2)
		assert.Equal(t, "Logo redesign", p.Items[0].Description)
		assert.Equal(t, "3200.00", p.Items[0].Amount.StringFixed(2))
		assert.Equal(t, "website banner set", p.Items[1].Description)
		assert.Equal(t, "4500.00", p.Items[1].Amount.StringFixed(2))
		assert.Equal(t, "item-2", p.Items[1].ID)
		assert.False(t, p.Total.Valid)
	})
}

func TestHeuristic_ItemFilters(t *testing.T) {
	text := `- Website development - ₹25,000
- Hosting: ₹3,000
- Hosting: ₹3,000
- Ad: ₹200
Total is ₹28,000
Call me on 9876543210 or my office line - ₹9876543210`

	p := newTestExtractor().Heuristic(text)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "Website development", p.Items[0].Description)
	assert.Equal(t, "Hosting", p.Items[1].Description)
}

func TestHeuristic_ClientName(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Bill it to: Acme Corp\nLogo came to ₹500", "Acme Corp"},
		{"Hi Priya, the logo is ₹500", "Priya"},
		{"Dear Mr. Kapoor,\nplease find the details", "Kapoor"},
		{"Payment from Neha Verma for the banner", "Neha Verma"},
		{"Sent to the team", ""},
		{"Name: Arjun Rao", "Arjun Rao"},
		{"Bill it to: Ananya Rao. Consulting: Rs. 12,500", "Ananya Rao"},
		{"Hi Team. The logo is ₹500", "Team"},
		{"Bill to Dr. A. Menon", "Dr. A. Menon"},
		{"Bill to S.K. Traders. Logo came to ₹500", "S.K. Traders"},
	}
	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Heuristic(tt.text).ClientName)
		})
	}
}

func TestHeuristic_TaxAndPayment(t *testing.T) {
	text := `Hi Ravi, website build came to ₹35,000 plus GST @18%.
Invoice dated 01/06/2024, due by 15th June.
Pay to UPI ravi.k@okicici or A/C No: 001234567890, IFSC ICIC0000123.
Account Holder: Ravi Kumar
GSTIN: 29ABCDE1234F1Z5`

	p := newTestExtractor().Heuristic(text)

	assert.Equal(t, "Ravi", p.ClientName)
	require.True(t, p.TaxRate.Valid)
	assert.Equal(t, "18", p.TaxRate.Decimal.String())
	assert.False(t, p.TaxAmount.Valid)
	assert.Equal(t, "2024-06-01", p.InvoiceDate)
	assert.Equal(t, "2024-06-15", p.DueDate)
	assert.Equal(t, "29ABCDE1234F1Z5", p.ClientGSTIN)

	require.NotNil(t, p.PaymentInfo)
	assert.Equal(t, "ravi.k@okicici", p.PaymentInfo.UPIID)
	assert.Equal(t, "001234567890", p.PaymentInfo.AccountNumber)
	assert.Equal(t, "ICIC0000123", p.PaymentInfo.IFSCCode)
	assert.Equal(t, "ICICI Bank", p.PaymentInfo.BankName)
	assert.Equal(t, "Ravi Kumar", p.PaymentInfo.AccountHolderName)
}

func TestExtractWithRegex_GSTExample(t *testing.T) {
	e := newTestExtractor()
	regex := e.ExtractWithRegex(context.Background(), "Website build came to ₹35,000. GST @18%")
	assert.Equal(t, models.SourceRegex, regex.Source)

	out := reconcile.NewEngine(func() time.Time { return fixedNow }).MergeExtractionResults(regex, nil)
	assert.Equal(t, "35000.00", out.Subtotal.Decimal.StringFixed(2))
	assert.Equal(t, "6300.00", out.TaxAmount.Decimal.StringFixed(2))
	assert.Equal(t, "41300.00", out.Total.Decimal.StringFixed(2))
	assert.Equal(t, "2024-06-15", out.InvoiceDate)
}

func TestExtractWithRegex_TemplateItemsWin(t *testing.T) {
	text := templateText + "\nAlso the logo design came to ₹14,000"
	regex := newTestExtractor().ExtractWithRegex(context.Background(), text)

	require.Len(t, regex.Items, 3)
	assert.Equal(t, "Logo design", regex.Items[0].Description)
	assert.Equal(t, "Rahul Sharma", regex.ClientName)
}

func TestExtractWithRegex_NeverNil(t *testing.T) {
	p := ExtractWithRegex("")
	require.NotNil(t, p)
	assert.Empty(t, p.Items)
}
