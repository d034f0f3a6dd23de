package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturaIA/paytext-invoice-service/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field    string `json:"field"`
	Code     string `json:"code"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s: %s (expected %s)", e.Field, e.Message, e.Expected)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-critical issue
type ValidationWarning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ComputedValues holds the totals implied by the line items and tax rate
type ComputedValues struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

// ValidationResult is the response from validation
type ValidationResult struct {
	Valid       bool                `json:"valid"`
	NeedsReview bool                `json:"needsReview"`
	Errors      []ValidationError   `json:"errors"`
	Warnings    []ValidationWarning `json:"warnings"`
	Computed    ComputedValues      `json:"computed"`
}

// InvoiceValidator gates an invoice before it is generated
type InvoiceValidator struct {
	tolerance decimal.Decimal // absolute tolerance for money comparisons
}

// NewInvoiceValidator creates a validator with a one-cent tolerance
func NewInvoiceValidator() *InvoiceValidator {
	return &InvoiceValidator{tolerance: decimal.New(1, -2)}
}

// Validate performs all checks on invoice data
func (v *InvoiceValidator) Validate(inv *models.InvoiceData) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}
	if inv == nil {
		result.addError(ValidationError{Field: "invoice", Code: "required", Message: "invoice is required"})
		return result
	}

	v.validateClient(inv, result)
	v.validateItems(inv, result)
	v.validateDates(inv, result)
	v.validatePayment(inv, result)
	v.validateTotals(inv, result)

	if len(result.Warnings) > 0 {
		result.NeedsReview = true
	}
	return result
}

func (r *ValidationResult) addError(e ValidationError) {
	r.Errors = append(r.Errors, e)
	r.Valid = false
	r.NeedsReview = true
}

func (r *ValidationResult) addWarning(field, code, message string) {
	r.Warnings = append(r.Warnings, ValidationWarning{Field: field, Code: code, Message: message})
}

func (v *InvoiceValidator) validateClient(inv *models.InvoiceData, result *ValidationResult) {
	if strings.TrimSpace(inv.ClientName) == "" {
		result.addError(ValidationError{
			Field:   "clientName",
			Code:    "required",
			Message: "client name is required",
		})
	}

	if inv.ClientEmail != "" && !ValidEmail(inv.ClientEmail) {
		result.addError(ValidationError{
			Field:    "clientEmail",
			Code:     "invalid_format",
			Expected: EmailFormat,
			Actual:   inv.ClientEmail,
			Message:  "invalid email address",
		})
	}

	if inv.ClientGSTIN != "" && !ValidGSTIN(inv.ClientGSTIN) {
		result.addError(ValidationError{
			Field:    "clientGstin",
			Code:     "invalid_format",
			Expected: GSTINFormat,
			Actual:   inv.ClientGSTIN,
			Message:  "invalid GSTIN",
		})
	}
}

func (v *InvoiceValidator) validateItems(inv *models.InvoiceData, result *ValidationResult) {
	if len(inv.Items) == 0 && !inv.Total.Valid {
		result.addError(ValidationError{
			Field:   "items",
			Code:    "no_amount",
			Message: "at least one line item or a total is required",
		})
		return
	}

	for i, item := range inv.Items {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.Description) == "" {
			result.addError(ValidationError{Field: field + ".description", Code: "required", Message: "description is required"})
		}
		if !item.Quantity.IsPositive() {
			result.addError(ValidationError{
				Field:    field + ".quantity",
				Code:     "out_of_range",
				Expected: "> 0",
				Actual:   item.Quantity.String(),
				Message:  "quantity must be positive",
			})
		}
		if item.Rate.IsNegative() {
			result.addError(ValidationError{Field: field + ".rate", Code: "out_of_range", Expected: ">= 0", Actual: item.Rate.String(), Message: "rate cannot be negative"})
		}
		if item.Amount.IsNegative() {
			result.addError(ValidationError{Field: field + ".amount", Code: "out_of_range", Expected: ">= 0", Actual: item.Amount.String(), Message: "amount cannot be negative"})
		}
	}
}

func (v *InvoiceValidator) validateDates(inv *models.InvoiceData, result *ValidationResult) {
	issued, okIssued := parseDate(inv.InvoiceDate)
	if inv.InvoiceDate != "" && !okIssued {
		result.addError(ValidationError{
			Field:    "invoiceDate",
			Code:     "invalid_format",
			Expected: DateFormat,
			Actual:   inv.InvoiceDate,
			Message:  "invalid invoice date",
		})
	}

	if inv.DueDate == "" {
		return
	}
	due, okDue := parseDate(inv.DueDate)
	if !okDue {
		result.addError(ValidationError{
			Field:    "dueDate",
			Code:     "invalid_format",
			Expected: DateFormat,
			Actual:   inv.DueDate,
			Message:  "invalid due date",
		})
		return
	}
	if okIssued && due.Before(issued) {
		result.addWarning("dueDate", "due_before_issue", "due date is earlier than the invoice date")
	}
}

func (v *InvoiceValidator) validatePayment(inv *models.InvoiceData, result *ValidationResult) {
	p := inv.PaymentInfo
	if p.IsEmpty() {
		result.addWarning("paymentInfo", "missing", "no payment details on the invoice")
		return
	}

	if p.UPIID != "" && !ValidUPI(p.UPIID) {
		result.addError(ValidationError{
			Field:    "paymentInfo.upiId",
			Code:     "invalid_format",
			Expected: UPIFormat,
			Actual:   p.UPIID,
			Message:  "invalid UPI ID",
		})
	}
	if p.IFSCCode != "" && !ValidIFSC(p.IFSCCode) {
		result.addError(ValidationError{
			Field:    "paymentInfo.ifscCode",
			Code:     "invalid_format",
			Expected: IFSCFormat,
			Actual:   p.IFSCCode,
			Message:  "invalid IFSC code",
		})
	}
	if p.AccountNumber != "" && p.IFSCCode == "" {
		result.addWarning("paymentInfo.ifscCode", "missing", "account number given without an IFSC code")
	}
}

func (v *InvoiceValidator) validateTotals(inv *models.InvoiceData, result *ValidationResult) {
	if inv.TaxRate.Valid && (inv.TaxRate.Decimal.IsNegative() || inv.TaxRate.Decimal.GreaterThan(decimal.NewFromInt(100))) {
		result.addError(ValidationError{
			Field:    "taxRate",
			Code:     "out_of_range",
			Expected: "0-100",
			Actual:   inv.TaxRate.Decimal.String(),
			Message:  "tax rate must be a percentage",
		})
	}

	subtotal := inv.Subtotal.Decimal
	if len(inv.Items) > 0 {
		subtotal = decimal.Zero
		for _, item := range inv.Items {
			subtotal = subtotal.Add(item.Amount)
		}
	}
	tax := inv.TaxAmount.Decimal
	if inv.TaxRate.Valid && inv.TaxRate.Decimal.IsPositive() {
		tax = Round2(subtotal.Mul(inv.TaxRate.Decimal).Div(decimal.NewFromInt(100)))
	}
	total := subtotal.Add(tax)

	result.Computed = ComputedValues{
		Subtotal:  Round2(subtotal),
		TaxAmount: Round2(tax),
		Total:     Round2(total),
	}

	if inv.Subtotal.Valid && !v.within(inv.Subtotal.Decimal, subtotal) {
		result.addError(ValidationError{
			Field:    "subtotal",
			Code:     "subtotal_mismatch",
			Expected: Round2(subtotal).StringFixed(2),
			Actual:   inv.Subtotal.Decimal.StringFixed(2),
			Message:  "subtotal does not match the sum of line items",
		})
	}

	if inv.TaxAmount.Valid && !v.within(inv.TaxAmount.Decimal, tax) {
		result.addWarning("taxAmount", "tax_mismatch",
			fmt.Sprintf("tax amount %s differs from %s at the stated rate", inv.TaxAmount.Decimal.StringFixed(2), Round2(tax).StringFixed(2)))
	}

	if inv.Total.Valid && !v.within(inv.Total.Decimal, inv.Subtotal.Decimal.Add(inv.TaxAmount.Decimal)) && inv.Subtotal.Valid {
		result.addError(ValidationError{
			Field:    "total",
			Code:     "total_mismatch",
			Expected: Round2(inv.Subtotal.Decimal.Add(inv.TaxAmount.Decimal)).StringFixed(2),
			Actual:   inv.Total.Decimal.StringFixed(2),
			Message:  "total must equal subtotal plus tax",
		})
	}
}

func (v *InvoiceValidator) within(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(v.tolerance)
}

// Round2 rounds to 2 decimal places
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}
