package model

import (
	"errors"
	"fmt"
	"time"
)

// EntryTypeJournal is the entry-type code applied to invoice polizas.
// The legacy SDK distinguishes income/expense/journal entry books; this
// service only produces journal entries.
const EntryTypeJournal = "diario"

// LedgerEntry groups the movements produced from one invoice (a "poliza").
// The entry exists in the backend's pending state between CreateEntry and
// the last AddMovement; it is closed implicitly when its job finishes.
type LedgerEntry struct {
	Date      time.Time  `json:"date"`
	Type      string     `json:"type"`
	Number    int        `json:"number,omitempty"`
	Concept   string     `json:"concept"`
	Movements []Movement `json:"movements"`
}

// Movement is one accounting line inside a ledger entry.
type Movement struct {
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name,omitempty"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
	Concept     string  `json:"concept,omitempty"`
	Reference   string  `json:"reference,omitempty"`
}

// Validate enforces the backend-level movement invariants: a movement
// must name an account and carry at least one non-zero amount.
func (m *Movement) Validate() error {
	if m.AccountCode == "" {
		return errors.New("account code is required")
	}
	if AmountsEqual(m.Debit, 0) && AmountsEqual(m.Credit, 0) {
		return errors.New("movement requires a non-zero debit or credit")
	}
	return nil
}

// Validate checks the entry header fields.
func (e *LedgerEntry) Validate() error {
	if e.Concept == "" {
		return errors.New("concept is required")
	}
	return nil
}

// EntryFromInvoice builds the logical ledger entry for an invoice:
// one debit movement per line item, plus a tax movement when the invoice
// carries tax. taxAccount is used when the invoice does not name one.
func EntryFromInvoice(inv *Invoice, taxAccount string) *LedgerEntry {
	entry := &LedgerEntry{
		Date:    inv.Date,
		Type:    EntryTypeJournal,
		Concept: fmt.Sprintf("Factura %s %s", inv.Folio, inv.IssuerName),
	}
	for _, li := range inv.LineItems {
		entry.Movements = append(entry.Movements, Movement{
			AccountCode: li.AccountCode,
			Debit:       li.Amount,
			Concept:     li.Description,
			Reference:   inv.Folio,
		})
	}
	if inv.Tax > 0 {
		account := inv.TaxAccountCode
		if account == "" {
			account = taxAccount
		}
		entry.Movements = append(entry.Movements, Movement{
			AccountCode: account,
			AccountName: "IVA acreditable",
			Debit:       inv.Tax,
			Concept:     "Impuesto trasladado",
			Reference:   inv.Folio,
		})
	}
	return entry
}
