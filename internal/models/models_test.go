package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCustomer_FullName(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		want     string
	}{
		{"both", Customer{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"first only", Customer{FirstName: "Ada"}, "Ada"},
		{"last only", Customer{LastName: "Lovelace"}, "Lovelace"},
		{"empty", Customer{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.customer.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCustomer_FullAddress(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		want     string
	}{
		{
			name: "full address",
			customer: Customer{
				Address:    "1 Infinite Loop",
				City:       "Cupertino",
				State:      "CA",
				PostalCode: "95014",
				Country:    "United States",
			},
			want: "1 Infinite Loop\nCupertino, CA 95014\nUnited States",
		},
		{
			name:     "only city",
			customer: Customer{City: "Toronto"},
			want:     "Toronto",
		},
		{
			name:     "postal code without city",
			customer: Customer{PostalCode: "SW1A 1AA", Country: "United Kingdom"},
			want:     "SW1A 1AA\nUnited Kingdom",
		},
		{
			name:     "empty",
			customer: Customer{},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.customer.FullAddress(); got != tt.want {
				t.Errorf("FullAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProduct_Kind(t *testing.T) {
	if got := (&Product{IsService: true}).Kind(); got != "Service" {
		t.Errorf("Kind() = %q, want Service", got)
	}
	if got := (&Product{}).Kind(); got != "Product" {
		t.Errorf("Kind() = %q, want Product", got)
	}
}

func TestInvoice_Status(t *testing.T) {
	tests := []struct {
		name    string
		status  InvoiceStatus
		isDraft bool
		isSent  bool
	}{
		{"unset", "", true, false},
		{"draft", InvoiceStatusDraft, true, false},
		{"sent", InvoiceStatusSent, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{Status: tt.status}
			if got := inv.IsDraft(); got != tt.isDraft {
				t.Errorf("IsDraft() = %v, want %v", got, tt.isDraft)
			}
			if got := inv.IsSent(); got != tt.isSent {
				t.Errorf("IsSent() = %v, want %v", got, tt.isSent)
			}
		})
	}
}

func TestInvoiceItem_LineTotal(t *testing.T) {
	item := InvoiceItem{
		Quantity:  decimal.RequireFromString("3"),
		UnitPrice: decimal.RequireFromString("0.10"),
	}

	want := decimal.RequireFromString("0.30")
	if got := item.LineTotal(); !got.Equal(want) {
		t.Errorf("LineTotal() = %s, want %s", got, want)
	}

	q, p := item.Amounts()
	if !q.Equal(item.Quantity) || !p.Equal(item.UnitPrice) {
		t.Errorf("Amounts() = (%s, %s), want (%s, %s)", q, p, item.Quantity, item.UnitPrice)
	}
}
