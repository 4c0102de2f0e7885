package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvoice() Invoice {
	return Invoice{
		Folio:      "A-1001",
		IssuerName: "Proveedora del Centro SA de CV",
		Date:       time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
		Subtotal:   1000.00,
		Tax:        160.00,
		Total:      1160.00,
		LineItems: []LineItem{
			{Description: "Papeleria", Amount: 600.00, AccountCode: "601-01"},
			{Description: "Consumibles", Amount: 400.00, AccountCode: "601-02"},
		},
	}
}

func TestInvoice_Validate_Accepts(t *testing.T) {
	inv := validInvoice()
	require.NoError(t, inv.Validate())
}

func TestInvoice_Validate_TotalMismatch(t *testing.T) {
	inv := validInvoice()
	inv.Total = 1200.00
	err := inv.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not equal subtotal")
}

func TestInvoice_Validate_ToleratesHalfCentDrift(t *testing.T) {
	inv := validInvoice()
	inv.Subtotal = 1000.001
	inv.Tax = 160.002
	inv.Total = 1160.00
	assert.NoError(t, inv.Validate())
}

func TestInvoice_Validate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Invoice)
		wantMsg string
	}{
		{
			name:    "missing folio",
			mutate:  func(i *Invoice) { i.Folio = "" },
			wantMsg: "folio is required",
		},
		{
			name:    "missing issuer name",
			mutate:  func(i *Invoice) { i.IssuerName = "" },
			wantMsg: "issuer name is required",
		},
		{
			name:    "no line items",
			mutate:  func(i *Invoice) { i.LineItems = nil },
			wantMsg: "at least one line item is required",
		},
		{
			name: "negative subtotal",
			mutate: func(i *Invoice) {
				i.Subtotal = -1
				i.Total = i.Subtotal + i.Tax
			},
			wantMsg: "amounts must not be negative",
		},
		{
			name:    "line item without account",
			mutate:  func(i *Invoice) { i.LineItems[1].AccountCode = "" },
			wantMsg: "line item 1: account code is required",
		},
		{
			name:    "line item zero amount",
			mutate:  func(i *Invoice) { i.LineItems[0].Amount = 0 },
			wantMsg: "line item 0: amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice()
			tt.mutate(&inv)
			err := inv.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestAmountsEqual_Boundary(t *testing.T) {
	assert.True(t, AmountsEqual(10.00, 10.004))
	assert.False(t, AmountsEqual(10.00, 10.006))
}
