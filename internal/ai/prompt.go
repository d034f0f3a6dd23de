package ai

import (
	"fmt"
	"time"
)

// BuildPrompt asks the model for the invoice JSON contract. The reference
// date supplies the year for dates written without one.
func BuildPrompt(text string, ref time.Time) string {
	return fmt.Sprintf(`Extract invoice details from the payment message below.

Reply with ONE JSON object and nothing else, using exactly these fields:
{
  "clientName": string or null,
  "clientCompany": string or null,
  "clientEmail": string or null,
  "clientPhone": string or null,
  "clientAddress": string or null,
  "clientGstin": string or null,
  "invoiceDate": "YYYY-MM-DD" or null,
  "dueDate": "YYYY-MM-DD" or null,
  "currency": ISO code such as "INR" or null,
  "items": [{"description": string, "quantity": number, "rate": number, "amount": number}],
  "subtotal": number or null,
  "taxRate": percentage number or null,
  "taxAmount": number or null,
  "total": number or null,
  "paymentInfo": {"upiId": string, "ifscCode": string, "accountNumber": string, "bankName": string, "accountHolderName": string} or null,
  "notes": string or null
}

Rules:
1. Numbers are bare numbers: no thousands separators, no currency symbols
2. Use null for anything not stated; never invent values
3. Dates without a year are in %d
4. Ambiguous numeric dates are day first (01/06 is 1 June)

Message:
%s`, ref.Year(), text)
}
