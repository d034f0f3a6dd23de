package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAmount(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantValue    string
		wantCurrency string
		wantOK       bool
	}{
		{"rupee symbol with separators", "Please pay ₹5,000.00 for services", "5000.00", "INR", true},
		{"Rs prefix", "Total Rs. 12,500 only", "12500.00", "INR", true},
		{"INR suffix", "that is 750 INR", "750.00", "INR", true},
		{"dollar", "invoice of $1,250.50", "1250.50", "USD", true},
		{"euro", "€99 for hosting", "99.00", "EUR", true},
		{"EUR token", "EUR 400", "400.00", "EUR", true},
		{"rupee wins over dollar", "$20 or ₹1,600", "1600.00", "INR", true},
		{"no amount", "thanks for the work", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindAmount(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantValue, got.Value.StringFixed(2))
			assert.Equal(t, tt.wantCurrency, got.Currency)
		})
	}
}

func TestCurrencyFromMarker(t *testing.T) {
	assert.Equal(t, "INR", CurrencyFromMarker("Rs."))
	assert.Equal(t, "INR", CurrencyFromMarker("₹"))
	assert.Equal(t, "USD", CurrencyFromMarker("$"))
	assert.Equal(t, "EUR", CurrencyFromMarker("eur"))
	assert.Equal(t, "", CurrencyFromMarker("GBP"))
}

func TestFindDates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"ordinal month year", "due on 5th March 2025", []string{"2025-03-05"}},
		{"abbreviation without year", "by 15 Jan", []string{"2024-01-15"}},
		{"month first", "on March 3rd, 2023", []string{"2023-03-03"}},
		{"iso", "dated 2024-11-30", []string{"2024-11-30"}},
		{"day first", "on 04/05/2024", []string{"2024-05-04"}},
		{"two digit year", "on 4-5-24", []string{"2024-05-04"}},
		{"invalid month rejected", "on 12/13/2024", nil},
		{"invalid day rejected", "on 32/01/2024", nil},
		{"text order", "sent 2024-01-02, due 10 Feb 2024", []string{"2024-01-02", "2024-02-10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindDates(tt.text, 2024)
			var values []string
			for _, d := range got {
				values = append(values, d.Value)
			}
			assert.Equal(t, tt.want, values)
		})
	}

	first, ok := FindDate("paid 1st April", 2030)
	require.True(t, ok)
	assert.Equal(t, "2030-04-01", first)
}

func TestFindGSTIN(t *testing.T) {
	got, ok := FindGSTIN("Ref 29ABCDE1234F1Z5 and GSTIN: 27aapfu0939f1zv")
	require.True(t, ok)
	assert.Equal(t, "27AAPFU0939F1ZV", got, "labeled form wins over bare match")

	got, ok = FindGSTIN("vendor id 29ABCDE1234F1Z5 on file")
	require.True(t, ok)
	assert.Equal(t, "29ABCDE1234F1Z5", got)

	got, ok = FindGSTIN("GSTIN 27AAPFU0939F0ZV")
	require.True(t, ok)
	assert.Equal(t, "27AAPFU0939F0ZV", got)

	_, ok = FindGSTIN("GST @18%")
	assert.False(t, ok)
}

func TestBankLookup(t *testing.T) {
	ifsc, ok := FindIFSC("IFSC code: hdfc0001234")
	require.True(t, ok)
	assert.Equal(t, "HDFC0001234", ifsc)

	name, ok := BankFromIFSC(ifsc)
	require.True(t, ok)
	assert.Equal(t, "HDFC Bank", name)

	_, ok = BankFromIFSC("ZZZZ0001234")
	assert.False(t, ok)

	name, ok = FindBankName("transfer to State Bank of India, IFSC SBIN0001234")
	require.True(t, ok)
	assert.Equal(t, "State Bank of India", name)

	_, ok = FindBankName("IFSC HDFC0001234")
	assert.False(t, ok, "routing code alone is not a bank name")
}

func TestFindUPI(t *testing.T) {
	got, ok := FindUPI("mail me at rahul@gmail.com or pay rahul.s@okaxis")
	require.True(t, ok)
	assert.Equal(t, "rahul.s@okaxis", got)

	got, ok = FindUPI("UPI ID: 9876543210@ybl")
	require.True(t, ok)
	assert.Equal(t, "9876543210@ybl", got)

	_, ok = FindUPI("write to billing@acme.co.in")
	assert.False(t, ok)
}

func TestFindAccountNumber(t *testing.T) {
	got, ok := FindAccountNumber("phone 9876543210, A/C No: 123456789012")
	require.True(t, ok)
	assert.Equal(t, "123456789012", got)

	got, ok = FindAccountNumber("send to 50100234567891")
	require.True(t, ok)
	assert.Equal(t, "50100234567891", got)

	_, ok = FindAccountNumber("order 12345")
	assert.False(t, ok)
}

func TestFindAccountHolder(t *testing.T) {
	got, ok := FindAccountHolder("Account Holder Name: Rahul Sharma\nIFSC: HDFC0001234")
	require.True(t, ok)
	assert.Equal(t, "Rahul Sharma", got)
}

func TestContact(t *testing.T) {
	email, ok := FindEmail("reach priya.m@studio.in.")
	require.True(t, ok)
	assert.Equal(t, "priya.m@studio.in", email)

	phone, ok := FindPhone("call +91 98765 43210 today")
	require.True(t, ok)
	assert.Equal(t, "+91 98765 43210", phone)

	phone, ok = FindPhone("call 9876543210")
	require.True(t, ok)
	assert.Equal(t, "9876543210", phone)
}

func TestFindTaxRate(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"GST @18%", "18", true},
		{"plus 12% GST", "12", true},
		{"GST 5%", "5", true},
		{"with GST of 28%", "28", true},
		{"add 7.5% tax", "7.5", true},
		{"Tax 10%", "10", true},
		{"tax rate: 3%", "3", true},
		{"GST @150%", "", false},
		{"no tax here", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := FindTaxRate(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}
