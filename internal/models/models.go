// Package models holds the persisted records: customers, products, invoices
// and their line items.
package models

// All lists every model in migration order (referenced tables first).
func All() []any {
	return []any{&Customer{}, &Product{}, &Invoice{}, &InvoiceItem{}}
}
