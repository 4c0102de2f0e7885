package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// amountTolerance is the half-cent window used when comparing monetary
// values carried as floats. All amounts in the system are 2-decimal.
const amountTolerance = 0.005

// Invoice is the immutable payload submitted for processing. It is the
// output of upstream capture (OCR or manual entry); this service only
// validates its arithmetic and turns it into a ledger entry.
type Invoice struct {
	Folio      string     `json:"folio"`
	IssuerRFC  string     `json:"issuer_rfc,omitempty"`
	IssuerName string     `json:"issuer_name"`
	Date       time.Time  `json:"date"`
	Subtotal   float64    `json:"subtotal"`
	Tax        float64    `json:"tax"`
	Total      float64    `json:"total"`
	LineItems  []LineItem `json:"line_items"`

	// TaxAccountCode receives the tax movement; empty falls back to the
	// configured default account.
	TaxAccountCode string `json:"tax_account_code,omitempty"`
}

// LineItem is one invoice line destined to become one ledger movement.
type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	AccountCode string  `json:"account_code"`
}

// Validate checks the structural and arithmetic invariants of the payload.
// A violation here is an input error: it is rejected synchronously and
// never enqueued or retried.
func (i *Invoice) Validate() error {
	if i.Folio == "" {
		return errors.New("folio is required")
	}
	if i.IssuerName == "" {
		return errors.New("issuer name is required")
	}
	if len(i.LineItems) == 0 {
		return errors.New("at least one line item is required")
	}
	if i.Subtotal < 0 || i.Tax < 0 || i.Total < 0 {
		return errors.New("amounts must not be negative")
	}
	for idx := range i.LineItems {
		li := &i.LineItems[idx]
		if li.AccountCode == "" {
			return fmt.Errorf("line item %d: account code is required", idx)
		}
		if li.Amount <= 0 {
			return fmt.Errorf("line item %d: amount must be positive", idx)
		}
	}
	if !AmountsEqual(i.Total, i.Subtotal+i.Tax) {
		return fmt.Errorf("total %.2f does not equal subtotal %.2f + tax %.2f",
			i.Total, i.Subtotal, i.Tax)
	}
	return nil
}

// AmountsEqual compares two monetary values at 2-decimal precision.
func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) < amountTolerance
}
