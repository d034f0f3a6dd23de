package models

import (
	"github.com/shopspring/decimal"
)

// Source identifies which extractor produced a partial result
type Source string

const (
	SourceTemplate  Source = "template"
	SourceHeuristic Source = "heuristic"
	SourceRegex     Source = "regex" // template and heuristic already combined
	SourceAI        Source = "ai"
)

// Method tags how a finalized invoice was obtained
type Method string

const (
	MethodNone   Method = "none"
	MethodRegex  Method = "regex"
	MethodAI     Method = "ai"
	MethodHybrid Method = "hybrid"
)

// DefaultCurrency is applied when no source reports a currency
const DefaultCurrency = "INR"

// InvoiceData is the invoice record produced from a block of payment text.
// Money fields are nullable so that "not found" and "zero" stay distinct.
type InvoiceData struct {
	// Client
	ClientName    string `json:"clientName"`
	ClientCompany string `json:"clientCompany,omitempty"`
	ClientEmail   string `json:"clientEmail,omitempty"`
	ClientPhone   string `json:"clientPhone,omitempty"`
	ClientAddress string `json:"clientAddress,omitempty"`
	ClientGSTIN   string `json:"clientGstin,omitempty"` // 15-char GST identification number

	// Dates, canonical YYYY-MM-DD
	InvoiceDate string `json:"invoiceDate"`
	DueDate     string `json:"dueDate,omitempty"`

	Currency string     `json:"currency"`
	Items    []LineItem `json:"items"`

	// Amounts
	Subtotal  decimal.NullDecimal `json:"subtotal"`
	TaxRate   decimal.NullDecimal `json:"taxRate"` // percentage, 0-100
	TaxAmount decimal.NullDecimal `json:"taxAmount"`
	Total     decimal.NullDecimal `json:"total"`

	PaymentInfo *PaymentInfo `json:"paymentInfo,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

// LineItem represents a single billed line
type LineItem struct {
	ID          string          `json:"id"` // item-<n>, in detection order
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"` // authoritative when stated
}

// PaymentInfo groups the payee's banking details
type PaymentInfo struct {
	UPIID             string `json:"upiId,omitempty"`
	IFSCCode          string `json:"ifscCode,omitempty"`
	AccountNumber     string `json:"accountNumber,omitempty"`
	BankName          string `json:"bankName,omitempty"`
	AccountHolderName string `json:"accountHolderName,omitempty"`
}

// IsEmpty reports whether no payment field is set
func (p *PaymentInfo) IsEmpty() bool {
	return p == nil || (p.UPIID == "" && p.IFSCCode == "" && p.AccountNumber == "" &&
		p.BankName == "" && p.AccountHolderName == "")
}

// Partial is the output of one extractor before reconciliation.
// Any field may be absent; absent strings are empty, absent money is invalid.
type Partial struct {
	InvoiceData
	Source Source `json:"-"`
}

// NewPartial returns an empty partial tagged with its source
func NewPartial(src Source) *Partial {
	return &Partial{Source: src}
}

// HasItems reports whether the partial carries at least one line item
func (p *Partial) HasItems() bool {
	return p != nil && len(p.Items) > 0
}

// ExtractRequest is the input accepted by the extraction endpoint
type ExtractRequest struct {
	Text    string `json:"text"`
	UseAI   bool   `json:"useAI"`   // allow the AI extractor when regex output is incomplete
	ForceAI bool   `json:"forceAI"` // always run the AI extractor
}

// ExtractResponse is the output of the extraction endpoint
type ExtractResponse struct {
	Success    bool              `json:"success"`
	Invoice    *InvoiceData      `json:"invoice,omitempty"`
	Method     Method            `json:"method"`
	Missing    []string          `json:"missing,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
	Provenance map[string]Source `json:"provenance,omitempty"`
	Confidence float64           `json:"confidence"`
	Error      string            `json:"error,omitempty"`

	// Processing metadata
	RegexDuration float64 `json:"regexDuration,omitempty"` // seconds
	AIDuration    float64 `json:"aiDuration,omitempty"`    // seconds
	TotalDuration float64 `json:"totalDuration"`
}
