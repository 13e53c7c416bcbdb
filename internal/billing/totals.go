// Package billing computes invoice totals and the per-request view of an
// invoice used by pages and emails.
package billing

import (
	"github.com/diewo77/invoicer/internal/models"
	"github.com/shopspring/decimal"
)

// Line is anything that contributes quantity × unit price to a subtotal.
type Line interface {
	Amounts() (quantity, unitPrice decimal.Decimal)
}

// Totals holds the derived amounts of an invoice.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals sums quantity × unit price over items starting from exact
// zero, applies rate to the subtotal, and adds the two.
func ComputeTotals[L Line](items []L, rate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		q, p := item.Amounts()
		subtotal = subtotal.Add(q.Mul(p))
	}
	tax := subtotal.Mul(rate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// InvoiceView pairs an invoice with totals computed once for the request.
// It is built by NewInvoiceView and not mutated afterwards.
type InvoiceView struct {
	Invoice *models.Invoice `json:"invoice"`
	Totals
}

// NewInvoiceView computes totals for inv's current items.
func NewInvoiceView(inv *models.Invoice, rate decimal.Decimal) InvoiceView {
	return InvoiceView{
		Invoice: inv,
		Totals:  ComputeTotals(inv.Items, rate),
	}
}
