package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mock_ai "github.com/facturaIA/paytext-invoice-service/internal/ai/mocks"
	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newMockProvider(t *testing.T) *mock_ai.MockProvider {
	ctrl := gomock.NewController(t)
	p := mock_ai.NewMockProvider(ctrl)
	p.EXPECT().Name().Return("mock").AnyTimes()
	return p
}

func newTestExtractor(p Provider, opts ...Option) *Extractor {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewExtractor(p, opts...)
}

const fencedReply = "Sure, here is the invoice:\n```json\n" + `{
  "clientName": "Ravi Kumar",
  "clientGstin": "29abcde1234f1z5",
  "invoiceDate": "2024-06-01",
  "dueDate": null,
  "currency": "inr",
  "items": [
    {"description": "Website build", "quantity": "1", "rate": "35,000", "amount": "₹35,000.00"},
    {"description": "", "amount": 500},
    {"description": "Refund", "amount": -200},
    {"description": "Hosting", "quantity": 0, "rate": 1500}
  ],
  "taxRate": "18%",
  "total": "41,300",
  "notes": "null",
  "paymentInfo": {"upiId": "ravi@okhdfcbank", "ifscCode": "hdfc0001234", "accountNumber": 50100123456789}
}` + "\n```\nLet me know if you need anything else {"

func TestExtractor_Extract(t *testing.T) {
	p := newMockProvider(t)
	p.EXPECT().ExtractData(gomock.Any(), gomock.Any()).Return(fencedReply, nil)

	got, err := newTestExtractor(p).Extract(context.Background(), "some text")
	require.NoError(t, err)

	assert.Equal(t, models.SourceAI, got.Source)
	assert.Equal(t, "Ravi Kumar", got.ClientName)
	assert.Equal(t, "29ABCDE1234F1Z5", got.ClientGSTIN)
	assert.Equal(t, "2024-06-01", got.InvoiceDate)
	assert.Empty(t, got.DueDate)
	assert.Equal(t, "INR", got.Currency)
	assert.Empty(t, got.Notes)

	require.Len(t, got.Items, 2)
	assert.Equal(t, "item-1", got.Items[0].ID)
	assert.Equal(t, "Website build", got.Items[0].Description)
	assert.Equal(t, "35000", got.Items[0].Amount.String())
	assert.Equal(t, "item-2", got.Items[1].ID)
	assert.Equal(t, "Hosting", got.Items[1].Description)
	assert.Equal(t, "1", got.Items[1].Quantity.String())
	assert.Equal(t, "1500", got.Items[1].Amount.String())

	require.True(t, got.TaxRate.Valid)
	assert.Equal(t, "18", got.TaxRate.Decimal.String())
	require.True(t, got.Total.Valid)
	assert.Equal(t, "41300", got.Total.Decimal.String())
	assert.False(t, got.Subtotal.Valid)

	require.NotNil(t, got.PaymentInfo)
	assert.Equal(t, "ravi@okhdfcbank", got.PaymentInfo.UPIID)
	assert.Equal(t, "HDFC0001234", got.PaymentInfo.IFSCCode)
	assert.Equal(t, "50100123456789", got.PaymentInfo.AccountNumber)
	assert.Equal(t, "HDFC Bank", got.PaymentInfo.BankName)
}

func TestExtractor_PromptCarriesText(t *testing.T) {
	p := newMockProvider(t)
	p.EXPECT().ExtractData(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "Logo came to ₹500")
			assert.Contains(t, prompt, "2024")
			return `{"items": []}`, nil
		})

	got, err := newTestExtractor(p).Extract(context.Background(), "Logo came to ₹500")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestExtractor_Failures(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		wantMsg  string
	}{
		{"provider error", "", errors.New("connection refused"), "connection refused"},
		{"missing credentials", "", ErrMissingCredentials, "missing AI provider credentials"},
		{"no json", "I could not find an invoice here.", nil, "no JSON object"},
		{"broken json", `{"clientName": "Ravi",}`, nil, "failed to parse"},
		{"wrong shape", `{"items": "Website build"}`, nil, "does not match schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newMockProvider(t)
			p.EXPECT().ExtractData(gomock.Any(), gomock.Any()).Return(tt.response, tt.err)

			got, err := newTestExtractor(p).Extract(context.Background(), "text")
			assert.Nil(t, got)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.Contains(t, err.Error(), tt.wantMsg)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestExtractor_NoProvider(t *testing.T) {
	e := NewExtractor(nil)
	assert.False(t, e.Available())
	assert.Empty(t, e.ProviderName())

	_, err := e.Extract(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestExtractor_Timeout(t *testing.T) {
	p := newMockProvider(t)
	p.EXPECT().ExtractData(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	start := time.Now()
	_, err := newTestExtractor(p, WithTimeout(20*time.Millisecond)).Extract(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExtractor_LateResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})

	p := newMockProvider(t)
	p.EXPECT().ExtractData(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string) (string, error) {
			defer close(finished)
			<-release
			return `{"clientName": "Too Late"}`, nil
		})

	got, err := newTestExtractor(p, WithTimeout(20*time.Millisecond)).Extract(context.Background(), "text")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "timed out")

	close(release)
	<-finished
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"prose", `Result: {"a":{"b":2}} done`, `{"a":{"b":2}}`, true},
		{"braces in strings", `{"note":"use } and { freely","x":"\"}"}`, `{"note":"use } and { freely","x":"\"}"}`, true},
		{"two objects", `{"a":1} {"b":2}`, `{"a":1}`, true},
		{"none", "nothing here", "", false},
		{"unbalanced", `{"a":1`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateShape(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{`{"clientName": "Asha", "items": [{"description": "Logo"}]}`, false},
		{`{"items": null, "paymentInfo": null}`, false},
		{`{"items": "logo"}`, true},
		{`{"items": [1, 2]}`, true},
		{`{"paymentInfo": []}`, true},
		{`[]`, true},
		{`{`, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := validateShape([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{"3,965.34", "3965.34", true},
		{"₹ 1,200", "1200", true},
		{"Rs. 500", "500", true},
		{12.5, "12.5", true},
		{"abc", "0", false},
		{"", "0", false},
		{nil, "0", false},
		{true, "0", false},
	}
	for _, tt := range tests {
		got, ok := parseDecimal(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got.String(), "%v", tt.in)
	}
}

func TestClampTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, ClampTimeout(0))
	assert.Equal(t, MinTimeout, ClampTimeout(time.Second))
	assert.Equal(t, MaxTimeout, ClampTimeout(time.Minute))
	assert.Equal(t, 11*time.Second, ClampTimeout(11*time.Second))
}

func TestNewProvider(t *testing.T) {
	cfg := models.AIConfig{DefaultProvider: "ollama"}

	p, err := NewProvider(cfg, "", "")
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	p, err = NewProvider(cfg, "gemini", "")
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())

	p, err = NewProvider(cfg, "openai", "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = p.ExtractData(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = NewProvider(cfg, "claude", "")
	assert.Error(t, err)
}
